package tactile

// syntheticContactEvent is a single queued synthetic notification.
// Press allocates a fresh contact id; move and release reuse the id of
// the gesture in flight.
type syntheticContactEvent struct {
	typ  EventType
	x, y float64
}

// Injector queues synthetic contact gestures and feeds exactly one
// event per frame to the router, mimicking the cadence of real input.
// Intended for automated interaction tests and demos.
type Injector struct {
	router *Router
	queue  []syntheticContactEvent
	nextID int64
	liveID int64 // contact id of the gesture in flight, 0 = none
}

// NewInjector creates an injector feeding the given router.
func NewInjector(r *Router) *Injector {
	return &Injector{router: r}
}

// InjectPress queues a contact Added at the given coordinates.
func (in *Injector) InjectPress(x, y float64) {
	in.queue = append(in.queue, syntheticContactEvent{typ: EventAdded, x: x, y: y})
}

// InjectMove queues a contact Changed. Use between InjectPress and
// InjectRelease to simulate a drag.
func (in *Injector) InjectMove(x, y float64) {
	in.queue = append(in.queue, syntheticContactEvent{typ: EventChanged, x: x, y: y})
}

// InjectRelease queues a contact Removed at the given coordinates.
func (in *Injector) InjectRelease(x, y float64) {
	in.queue = append(in.queue, syntheticContactEvent{typ: EventRemoved, x: x, y: y})
}

// InjectTap is a convenience that queues a press followed by a release
// at the same coordinates. Consumes two frames.
func (in *Injector) InjectTap(x, y float64) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (in *Injector) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	in.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		in.InjectMove(x, y)
	}
	in.InjectRelease(toX, toY)
}

// PendingEvents returns the number of queued synthetic events.
func (in *Injector) PendingEvents() int {
	return len(in.queue)
}

// Step pops one queued event and notifies the router. Call once per
// frame, before Router.Update. Returns the Notify error, if any.
func (in *Injector) Step() error {
	if len(in.queue) == 0 {
		return nil
	}
	evt := in.queue[0]
	copy(in.queue, in.queue[1:])
	in.queue = in.queue[:len(in.queue)-1]

	switch evt.typ {
	case EventAdded:
		in.nextID++
		in.liveID = in.nextID
	case EventRemoved:
		defer func() { in.liveID = 0 }()
	}
	if in.liveID == 0 {
		return nil
	}
	return in.router.Notify(evt.typ, Contact{ID: in.liveID, X: evt.x, Y: evt.y})
}
