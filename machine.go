package tactile

import (
	"fmt"
	"sort"
)

// MachineID identifies a machine within a router's registry. The
// capture and over tables store MachineIDs, not machine pointers, so a
// router and its machines can be torn down independently.
type MachineID uint32

// machineIDCounter is a plain counter (no atomic — machines are
// constructed on the tick-loop side, never concurrently).
var machineIDCounter uint32

func nextMachineID() MachineID {
	machineIDCounter++
	return MachineID(machineIDCounter)
}

// Machine is the contract every routable element satisfies. Embed
// [MachineBase] for the standard implementation; only Update and
// ResetTick are commonly shadowed.
type Machine interface {
	// ID returns the machine's stable identity.
	ID() MachineID

	// DetailsKind declares the hit-detail payload shape this machine
	// accepts. The router rejects any other kind at the routing
	// boundary with ErrDetailsMismatch.
	DetailsKind() DetailsKind

	// Update receives this tick's ordered event queue for this
	// machine. Events appear in arrival order, with synthetic
	// Enter/Leave events interleaved adjacent to the raw events that
	// triggered them.
	Update(queue []ContactEvent)

	// GotCapture and LostCapture bracket a capture's lifetime. The
	// router invokes them from Capture/Release and from the implicit
	// release when a captured contact is removed.
	GotCapture(c Contact)
	LostCapture(c Contact)

	// ResetTick is broadcast to every registered machine at the start
	// of each tick, before any routing, so per-tick transient state
	// (e.g. a button's clicked-this-tick flag) can be cleared.
	ResetTick()

	// BindRouter records the owning router. Binding is settable
	// exactly once; a second bind to a different router fails with
	// ErrRouterMismatch. UnbindRouter clears the binding on
	// unregistration.
	BindRouter(r *Router) error
	UnbindRouter()
}

// --- Handler registry ---

type contactHandler struct {
	id uint32
	fn func(ContactEvent)
}

type captureHandler struct {
	id uint32
	fn func(Contact)
}

type machineHandlers struct {
	down        []contactHandler
	up          []contactHandler
	changed     []contactHandler
	enter       []contactHandler
	leave       []contactHandler
	gotCapture  []captureHandler
	lostCapture []captureHandler
	nextID      uint32
}

// handlerEvent selects a registry slot for CallbackHandle.Remove.
type handlerEvent uint8

const (
	handlerDown handlerEvent = iota
	handlerUp
	handlerChanged
	handlerEnter
	handlerLeave
	handlerGotCapture
	handlerLostCapture
)

// CallbackHandle allows removing a registered machine callback.
type CallbackHandle struct {
	id    uint32
	reg   *machineHandlers
	event handlerEvent
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case handlerDown:
		h.reg.down = removeContactHandler(h.reg.down, h.id)
	case handlerUp:
		h.reg.up = removeContactHandler(h.reg.up, h.id)
	case handlerChanged:
		h.reg.changed = removeContactHandler(h.reg.changed, h.id)
	case handlerEnter:
		h.reg.enter = removeContactHandler(h.reg.enter, h.id)
	case handlerLeave:
		h.reg.leave = removeContactHandler(h.reg.leave, h.id)
	case handlerGotCapture:
		h.reg.gotCapture = removeCaptureHandler(h.reg.gotCapture, h.id)
	case handlerLostCapture:
		h.reg.lostCapture = removeCaptureHandler(h.reg.lostCapture, h.id)
	}
}

func removeContactHandler(s []contactHandler, id uint32) []contactHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = contactHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeCaptureHandler(s []captureHandler, id uint32) []captureHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = captureHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// --- MachineBase ---

// MachineBase is the standard Machine implementation: it tracks the
// captured and over contact sets, dispatches each tick's queue to the
// five event handler registries, and exposes cached read-only views of
// both sets. Embed it (by pointer) and register callbacks, or shadow
// Update/ResetTick for custom behavior.
type MachineBase struct {
	id      MachineID
	details DetailsKind
	router  *Router

	captured map[int64]Contact
	over     map[int64]Contact

	// Cached public views, rebuilt lazily when the backing set has
	// mutated since the last access. Sets are bounded by simultaneous
	// touches, so rebuilds are cheap; the dirty flag just avoids doing
	// one per access.
	capturedView  []Contact
	overView      []Contact
	capturedDirty bool
	overDirty     bool

	handlers machineHandlers
}

// NewMachineBase creates a machine base that accepts hit details of the
// given kind.
func NewMachineBase(details DetailsKind) *MachineBase {
	return &MachineBase{
		id:       nextMachineID(),
		details:  details,
		captured: make(map[int64]Contact),
		over:     make(map[int64]Contact),
	}
}

// ID returns the machine's stable identity.
func (m *MachineBase) ID() MachineID { return m.id }

// DetailsKind returns the declared hit-detail payload kind.
func (m *MachineBase) DetailsKind() DetailsKind { return m.details }

// Router returns the router this machine is bound to, or nil.
func (m *MachineBase) Router() *Router { return m.router }

// BindRouter records the owning router. Rebinding to the same router is
// a no-op; binding while bound elsewhere fails with ErrRouterMismatch.
func (m *MachineBase) BindRouter(r *Router) error {
	if m.router != nil && m.router != r {
		return fmt.Errorf("%w: machine %d", ErrRouterMismatch, m.id)
	}
	m.router = r
	return nil
}

// UnbindRouter clears the router binding.
func (m *MachineBase) UnbindRouter() { m.router = nil }

// ResetTick clears per-tick transient state. The base has none;
// machines with tick-scoped flags shadow this.
func (m *MachineBase) ResetTick() {}

// --- Contact set views ---

// ContactsCaptured returns the contacts currently captured by this
// machine, sorted by id. The returned slice MUST NOT be mutated and is
// only valid until the next capture change.
func (m *MachineBase) ContactsCaptured() []Contact {
	if m.capturedDirty {
		m.capturedView = rebuildView(m.capturedView[:0], m.captured)
		m.capturedDirty = false
	}
	return m.capturedView
}

// ContactsOver returns the contacts currently over this machine, sorted
// by id. Same aliasing rules as ContactsCaptured.
func (m *MachineBase) ContactsOver() []Contact {
	if m.overDirty {
		m.overView = rebuildView(m.overView[:0], m.over)
		m.overDirty = false
	}
	return m.overView
}

func rebuildView(buf []Contact, set map[int64]Contact) []Contact {
	for _, c := range set {
		buf = append(buf, c)
	}
	sort.Slice(buf, func(i, j int) bool { return buf[i].ID < buf[j].ID })
	return buf
}

// --- Event dispatch ---

// Update dispatches each event in arrival order to the matching
// handler registry. An Added/Changed/Removed event for a contact that
// is in neither tracked set means the router produced an inconsistent
// routing decision; that is a bug, and Update fails fast.
func (m *MachineBase) Update(queue []ContactEvent) {
	for _, ev := range queue {
		switch ev.Type {
		case EventEnter:
			m.onEnter(ev)
		case EventAdded:
			m.onDown(ev)
		case EventChanged:
			m.onChanged(ev)
		case EventRemoved:
			m.onUp(ev)
		case EventLeave:
			m.onLeave(ev)
		default:
			panic(fmt.Sprintf("tactile: machine %d received unknown event type %d", m.id, ev.Type))
		}
	}
}

func (m *MachineBase) onEnter(ev ContactEvent) {
	m.over[ev.Contact.ID] = ev.Contact
	m.overDirty = true
	for _, h := range m.handlers.enter {
		h.fn(ev)
	}
}

func (m *MachineBase) onDown(ev ContactEvent) {
	m.checkTracked(ev)
	m.refresh(ev.Contact)
	for _, h := range m.handlers.down {
		h.fn(ev)
	}
}

func (m *MachineBase) onChanged(ev ContactEvent) {
	m.checkTracked(ev)
	m.refresh(ev.Contact)
	for _, h := range m.handlers.changed {
		h.fn(ev)
	}
}

func (m *MachineBase) onUp(ev ContactEvent) {
	m.checkTracked(ev)
	m.refresh(ev.Contact)
	for _, h := range m.handlers.up {
		h.fn(ev)
	}
}

func (m *MachineBase) onLeave(ev ContactEvent) {
	m.checkTracked(ev)
	if _, ok := m.over[ev.Contact.ID]; ok {
		delete(m.over, ev.Contact.ID)
		m.overDirty = true
	}
	for _, h := range m.handlers.leave {
		h.fn(ev)
	}
}

// checkTracked fails fast when an event arrives for a contact absent
// from both tracked sets — an inconsistent routing decision upstream.
func (m *MachineBase) checkTracked(ev ContactEvent) {
	if _, ok := m.over[ev.Contact.ID]; ok {
		return
	}
	if _, ok := m.captured[ev.Contact.ID]; ok {
		return
	}
	panic(fmt.Sprintf("tactile: machine %d received %s for untracked contact %d",
		m.id, ev.Type, ev.Contact.ID))
}

// refresh updates the stored snapshot of a contact (its position moves
// between events) in whichever sets track it.
func (m *MachineBase) refresh(c Contact) {
	if _, ok := m.over[c.ID]; ok {
		m.over[c.ID] = c
		m.overDirty = true
	}
	if _, ok := m.captured[c.ID]; ok {
		m.captured[c.ID] = c
		m.capturedDirty = true
	}
}

// --- Capture lifecycle ---

// GotCapture adds the contact to the captured set and notifies.
func (m *MachineBase) GotCapture(c Contact) {
	m.captured[c.ID] = c
	m.capturedDirty = true
	for _, h := range m.handlers.gotCapture {
		h.fn(c)
	}
}

// LostCapture removes the contact from the captured set and notifies.
func (m *MachineBase) LostCapture(c Contact) {
	if _, ok := m.captured[c.ID]; !ok {
		panic(fmt.Sprintf("tactile: machine %d lost capture of uncaptured contact %d", m.id, c.ID))
	}
	delete(m.captured, c.ID)
	m.capturedDirty = true
	for _, h := range m.handlers.lostCapture {
		h.fn(c)
	}
}

// --- Callback registration ---

// OnDown registers a callback for Added events routed to this machine.
func (m *MachineBase) OnDown(fn func(ContactEvent)) CallbackHandle {
	m.handlers.nextID++
	id := m.handlers.nextID
	m.handlers.down = append(m.handlers.down, contactHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &m.handlers, event: handlerDown}
}

// OnUp registers a callback for Removed events routed to this machine.
func (m *MachineBase) OnUp(fn func(ContactEvent)) CallbackHandle {
	m.handlers.nextID++
	id := m.handlers.nextID
	m.handlers.up = append(m.handlers.up, contactHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &m.handlers, event: handlerUp}
}

// OnChanged registers a callback for Changed events routed to this machine.
func (m *MachineBase) OnChanged(fn func(ContactEvent)) CallbackHandle {
	m.handlers.nextID++
	id := m.handlers.nextID
	m.handlers.changed = append(m.handlers.changed, contactHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &m.handlers, event: handlerChanged}
}

// OnEnter registers a callback for synthetic Enter events.
func (m *MachineBase) OnEnter(fn func(ContactEvent)) CallbackHandle {
	m.handlers.nextID++
	id := m.handlers.nextID
	m.handlers.enter = append(m.handlers.enter, contactHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &m.handlers, event: handlerEnter}
}

// OnLeave registers a callback for synthetic Leave events.
func (m *MachineBase) OnLeave(fn func(ContactEvent)) CallbackHandle {
	m.handlers.nextID++
	id := m.handlers.nextID
	m.handlers.leave = append(m.handlers.leave, contactHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &m.handlers, event: handlerLeave}
}

// OnGotCapture registers a callback fired when this machine captures a contact.
func (m *MachineBase) OnGotCapture(fn func(Contact)) CallbackHandle {
	m.handlers.nextID++
	id := m.handlers.nextID
	m.handlers.gotCapture = append(m.handlers.gotCapture, captureHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &m.handlers, event: handlerGotCapture}
}

// OnLostCapture registers a callback fired when this machine loses a capture.
func (m *MachineBase) OnLostCapture(fn func(Contact)) CallbackHandle {
	m.handlers.nextID++
	id := m.handlers.nextID
	m.handlers.lostCapture = append(m.handlers.lostCapture, captureHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &m.handlers, event: handlerLostCapture}
}
