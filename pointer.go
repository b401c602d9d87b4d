package tactile

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// PointerSource adapts Ebitengine mouse and touch input into contact
// notifications for a router. Call Poll once per frame, before
// Router.Update:
//
//	func (g *Game) Update() error {
//		if err := g.source.Poll(); err != nil { ... }
//		return g.router.Update()
//	}
//
// The mouse becomes a contact only while its left button is held; each
// touch is a contact for the duration of the touch. Contact ids are
// allocated from a monotonic counter per press, so an id is never
// reused while any contact is alive.
type PointerSource struct {
	router *Router

	nextID    int64
	contactID [maxPointers]int64 // 0 = slot idle
	lastX     [maxPointers]float64
	lastY     [maxPointers]float64

	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
}

// NewPointerSource creates a pointer source feeding the given router.
func NewPointerSource(r *Router) *PointerSource {
	return &PointerSource{router: r}
}

// Poll reads the current Ebitengine input state and enqueues the
// resulting Added/Changed/Removed notifications. Returns the first
// enqueue error (ErrQueueOverflow) encountered; remaining pointers are
// still processed so lifecycle pairs stay balanced.
func (p *PointerSource) Poll() error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	// Mouse (slot 0).
	mx, my := ebiten.CursorPosition()
	record(p.track(0, float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)))

	// Touches (slots 1-9).
	touchIDs := ebiten.AppendTouchIDs(p.prevTouchIDs[:0])
	p.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := p.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		record(p.track(slot, float64(tx), float64(ty), true))
	}

	// Release touch slots that vanished this frame.
	for i := 1; i < maxPointers; i++ {
		if p.touchUsed[i] && !activeSlots[i] {
			record(p.track(i, p.lastX[i], p.lastY[i], false))
			p.touchUsed[i] = false
			p.touchMap[i] = 0
		}
	}
	return firstErr
}

// track runs one pointer slot's lifecycle transition for this frame.
func (p *PointerSource) track(slot int, x, y float64, active bool) error {
	switch {
	case active && p.contactID[slot] == 0:
		p.nextID++
		p.contactID[slot] = p.nextID
		p.lastX[slot], p.lastY[slot] = x, y
		return p.router.Notify(EventAdded, Contact{ID: p.contactID[slot], X: x, Y: y})

	case active:
		if x == p.lastX[slot] && y == p.lastY[slot] {
			return nil
		}
		p.lastX[slot], p.lastY[slot] = x, y
		return p.router.Notify(EventChanged, Contact{ID: p.contactID[slot], X: x, Y: y})

	case p.contactID[slot] != 0:
		id := p.contactID[slot]
		p.contactID[slot] = 0
		return p.router.Notify(EventRemoved, Contact{ID: id, X: x, Y: y})
	}
	return nil
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (p *PointerSource) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if p.touchUsed[i] && p.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !p.touchUsed[i] {
			p.touchUsed[i] = true
			p.touchMap[i] = tid
			return i
		}
	}
	return -1
}
