package tactile

import "fmt"

// Contact is a single tracked touch point. Identity is the ID, which is
// stable for the contact's entire lifetime (Added through Removed) and
// never concurrently reused while the contact is alive. The position
// fields are producer-owned payload; the router carries them through
// unchanged and never interprets them.
type Contact struct {
	ID   int64
	X, Y float64
}

// EventType identifies a kind of contact event.
type EventType uint8

const (
	EventAdded   EventType = iota // contact appeared on the surface
	EventChanged                  // contact moved or its properties changed
	EventRemoved                  // contact left the surface
	EventEnter                    // synthetic: contact began being over an element
	EventLeave                    // synthetic: contact stopped being over an element
)

// String returns the event type name for diagnostics.
func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "Added"
	case EventChanged:
		return "Changed"
	case EventRemoved:
		return "Removed"
	case EventEnter:
		return "Enter"
	case EventLeave:
		return "Leave"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// ContactEvent is one routed event: a type, the contact it concerns,
// and the hit details resolved for the receiving machine this tick
// (nil when the machine declares DetailsNone or the event carries none).
type ContactEvent struct {
	Type    EventType
	Contact Contact
	Details HitDetails
}

// DetailsKind discriminates the closed set of hit-detail payload shapes.
// A machine declares exactly one kind; the router rejects a HitTester
// payload of any other kind at the routing boundary.
type DetailsKind uint8

const (
	DetailsNone   DetailsKind = iota // no payload (buttons, plain surfaces)
	DetailsScroll                    // ScrollDetails
	DetailsGrid                      // GridDetails
)

// HitDetails is the owner-specific payload a HitTester attaches to a
// resolved hit. The set of implementations is closed; Kind is the only
// runtime discriminant, used at the HitTester boundary where the
// owner's concrete shape is unknown until hit-test time.
type HitDetails interface {
	Kind() DetailsKind
}

// ScrollDetails locates a hit along a scrollbar's track, in track-local
// units normalized to [0, 1].
type ScrollDetails struct {
	Along float64
}

// Kind returns DetailsScroll.
func (ScrollDetails) Kind() DetailsKind { return DetailsScroll }

// GridDetails locates a hit on a cell grid (board layouts).
type GridDetails struct {
	Row, Col int
}

// Kind returns DetailsGrid.
func (GridDetails) Kind() DetailsKind { return DetailsGrid }
