package tactile

import (
	"fmt"
	"sync/atomic"
	"time"
)

// PendingHit is one event awaiting hit-test resolution. The HitTester
// mutates entries in place: for uncaptured entries it records the
// machine that was hit (or leaves zero for a miss) plus details; for
// captured entries Machine is pre-filled with the captor, and clearing
// it to zero records "contact no longer over its captor" — press-state
// feedback, never a capture change.
type PendingHit struct {
	Type    EventType
	Contact Contact
	Machine MachineID
	Details HitDetails
}

// HitTester resolves which machine each pending contact event is over.
// It is invoked exactly once per tick, synchronously, outside any lock;
// a HitTester that blocks stalls the whole tick by design.
type HitTester interface {
	HitTest(uncaptured, captured []PendingHit)
}

// HitTesterFunc adapts a function to the HitTester interface.
type HitTesterFunc func(uncaptured, captured []PendingHit)

// HitTest calls fn.
func (fn HitTesterFunc) HitTest(uncaptured, captured []PendingHit) {
	fn(uncaptured, captured)
}

// EventStore is the interface for optional ECS integration. When set
// on a Router, every routed event is forwarded as it is queued for its
// machine, in routing order.
type EventStore interface {
	EmitEvent(event RoutedEvent)
}

// RoutedEvent carries one routed contact event for the ECS bridge.
type RoutedEvent struct {
	Type    EventType
	Machine MachineID
	Contact Contact
	Details HitDetails
}

// mergeRef locates a PendingHit in arrival order across the two
// partitions, so routing can walk the tick's events as received.
type mergeRef struct {
	captured bool
	idx      int
}

// routeGroup is the transient per-owner queue built during a tick and
// dispatched at its end. Storage is recycled across ticks.
type routeGroup struct {
	machine MachineID
	events  []ContactEvent
}

// deferredRelease records a captured contact that was removed this
// tick. The capture and over entries are deleted and LostCapture fired
// only after the owner's queue has been dispatched, so handlers still
// see the contact in the captured set and HitTestMatchesCapture still
// answers for it.
type deferredRelease struct {
	contact Contact
	machine MachineID
}

// Router serializes contact events into ticks, arbitrates capture,
// invokes the HitTester, synthesizes Enter/Leave transitions, and
// dispatches per-machine event queues.
//
// Producers call Notify from any goroutine. Everything else — Register,
// Capture, Release, Update — belongs to the single consumer role and
// must not run concurrently with Update.
type Router struct {
	queue  *inboundQueue
	tester HitTester

	machines map[MachineID]Machine
	order    []MachineID // registration order, for the reset broadcast

	captures map[int64]MachineID // contact id → capturing machine
	over     map[int64]MachineID // contact id → machine the contact is over

	updating atomic.Bool
	debug    bool
	store    EventStore

	// Per-tick scratch, recycled across ticks.
	uncaptured []PendingHit
	capturedPh []PendingHit
	merge      []mergeRef
	groups     []routeGroup
	groupIndex map[MachineID]int
	releases   []deferredRelease
}

// NewRouter creates a router using the given hit tester. A nil tester
// is allowed and treats every uncaptured contact as a miss.
func NewRouter(tester HitTester) *Router {
	return &Router{
		queue:      newInboundQueue(),
		tester:     tester,
		machines:   make(map[MachineID]Machine),
		captures:   make(map[int64]MachineID),
		over:       make(map[int64]MachineID),
		groupIndex: make(map[MachineID]int),
	}
}

// SetQueueCeiling overrides the inbound queue's overflow ceiling.
// Values below 1 are ignored.
func (r *Router) SetQueueCeiling(n int) {
	if n < 1 {
		return
	}
	r.queue.mu.Lock()
	r.queue.ceiling = n
	r.queue.mu.Unlock()
}

// SetDebugMode enables invariant checks and per-tick stats on stderr.
func (r *Router) SetDebugMode(enabled bool) {
	r.debug = enabled
}

// SetEventStore sets the optional ECS bridge.
func (r *Router) SetEventStore(store EventStore) {
	r.store = store
}

// --- Registration ---

// Register binds a machine to this router and includes it in the
// per-tick reset broadcast. Fails with ErrRouterMismatch if the machine
// is bound to a different router.
func (r *Router) Register(m Machine) error {
	if m == nil {
		return fmt.Errorf("%w: nil machine", ErrInvalidContact)
	}
	if err := m.BindRouter(r); err != nil {
		return err
	}
	if _, ok := r.machines[m.ID()]; ok {
		return nil
	}
	r.machines[m.ID()] = m
	r.order = append(r.order, m.ID())
	return nil
}

// Unregister releases any contacts the machine holds (firing
// LostCapture), drops its hover entries, and unbinds it.
func (r *Router) Unregister(m Machine) {
	if m == nil {
		return
	}
	id := m.ID()
	if _, ok := r.machines[id]; !ok {
		return
	}
	for cid, mid := range r.captures {
		if mid == id {
			delete(r.captures, cid)
			m.LostCapture(Contact{ID: cid})
		}
	}
	for cid, mid := range r.over {
		if mid == id {
			delete(r.over, cid)
		}
	}
	delete(r.machines, id)
	for i, mid := range r.order {
		if mid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	m.UnbindRouter()
}

// --- Producer interface ---

// Notify enqueues a raw contact lifecycle event. Safe to call from any
// goroutine. Only Added, Changed, and Removed are accepted; Enter and
// Leave are synthesized by the router and never enqueued.
func (r *Router) Notify(typ EventType, c Contact) error {
	if typ != EventAdded && typ != EventChanged && typ != EventRemoved {
		return fmt.Errorf("%w: cannot enqueue synthetic %s", ErrInvalidContact, typ)
	}
	if c.ID == 0 {
		return fmt.Errorf("%w: zero contact id", ErrInvalidContact)
	}
	return r.queue.enqueue(typ, c)
}

// Pending returns the number of events waiting for the next tick.
func (r *Router) Pending() int {
	return r.queue.pending()
}

// --- Capture arbitration ---

// Capture binds a contact exclusively to a machine, overriding hit
// testing until Release or the contact's removal. Fails with
// ErrAlreadyCaptured if any machine already holds the contact.
func (r *Router) Capture(c Contact, m Machine) error {
	if m == nil || c.ID == 0 {
		return fmt.Errorf("%w: Capture", ErrInvalidContact)
	}
	if r.machines[m.ID()] != m {
		return fmt.Errorf("%w: machine %d not registered here", ErrRouterMismatch, m.ID())
	}
	if mid, ok := r.captures[c.ID]; ok {
		return fmt.Errorf("%w: contact %d held by machine %d", ErrAlreadyCaptured, c.ID, mid)
	}
	r.captures[c.ID] = m.ID()
	m.GotCapture(c)
	return nil
}

// Release drops a contact's capture. Fails with ErrNotCaptured if no
// capture is outstanding.
func (r *Router) Release(c Contact) error {
	mid, ok := r.captures[c.ID]
	if !ok {
		return fmt.Errorf("%w: contact %d", ErrNotCaptured, c.ID)
	}
	delete(r.captures, c.ID)
	if m, ok := r.machines[mid]; ok {
		m.LostCapture(c)
	}
	return nil
}

// CapturingMachine returns the machine holding the contact, if any.
func (r *Router) CapturingMachine(c Contact) (Machine, bool) {
	mid, ok := r.captures[c.ID]
	if !ok {
		return nil, false
	}
	m, ok := r.machines[mid]
	return m, ok
}

// HitTestMatchesCapture reports whether the machine the contact is
// currently over equals the machine capturing it. Used for press-state
// feedback (a captured button un-presses while the finger is off it).
func (r *Router) HitTestMatchesCapture(c Contact) bool {
	captor, ok := r.captures[c.ID]
	if !ok {
		return false
	}
	over, ok := r.over[c.ID]
	return ok && over == captor
}

// --- Tick ---

// Update runs one full tick: reset broadcast, buffer swap, partition,
// hit test, transition synthesis, per-machine dispatch, scratch
// cleanup. It must never be called reentrantly — from a HitTester or a
// machine callback — nor concurrently with itself; doing so fails with
// ErrReentrantUpdate.
func (r *Router) Update() error {
	if !r.updating.CompareAndSwap(false, true) {
		return ErrReentrantUpdate
	}
	defer r.updating.Store(false)

	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}

	// 1. Let machines clear per-tick transient flags.
	for _, id := range r.order {
		r.machines[id].ResetTick()
	}

	// 2. Take this tick's private snapshot.
	batch := r.queue.swap()

	// 3. Partition into captured and uncaptured, preserving arrival
	// order through merge refs.
	r.uncaptured = r.uncaptured[:0]
	r.capturedPh = r.capturedPh[:0]
	r.merge = r.merge[:0]
	for _, qe := range batch {
		if mid, ok := r.captures[qe.contact.ID]; ok {
			r.capturedPh = append(r.capturedPh, PendingHit{
				Type: qe.typ, Contact: qe.contact, Machine: mid,
			})
			r.merge = append(r.merge, mergeRef{captured: true, idx: len(r.capturedPh) - 1})
		} else {
			r.uncaptured = append(r.uncaptured, PendingHit{
				Type: qe.typ, Contact: qe.contact,
			})
			r.merge = append(r.merge, mergeRef{captured: false, idx: len(r.uncaptured) - 1})
		}
	}

	// 4. One hit-test call for the whole tick.
	if r.tester != nil && (len(r.uncaptured) > 0 || len(r.capturedPh) > 0) {
		r.tester.HitTest(r.uncaptured, r.capturedPh)
	}

	// 5. Transition synthesis and per-owner grouping, in arrival order.
	var routeErr error
	for _, ref := range r.merge {
		var err error
		if ref.captured {
			err = r.routeCaptured(&r.capturedPh[ref.idx])
		} else {
			err = r.routeUncaptured(&r.uncaptured[ref.idx])
		}
		if err != nil {
			routeErr = err
			break
		}
	}

	// 6. Dispatch per-machine queues in first-routed order.
	if routeErr == nil {
		for i := range r.groups {
			g := &r.groups[i]
			if m, ok := r.machines[g.machine]; ok && len(g.events) > 0 {
				m.Update(g.events)
			}
		}
	}

	// Implicit release for contacts removed while captured, after the
	// owner has seen its Up/Leave pair.
	for _, rel := range r.releases {
		if r.captures[rel.contact.ID] == rel.machine {
			delete(r.captures, rel.contact.ID)
			delete(r.over, rel.contact.ID)
			if m, ok := r.machines[rel.machine]; ok {
				m.LostCapture(rel.contact)
			}
		}
	}

	// 7. Clear per-tick scratch.
	eventCount := len(batch)
	groupCount := len(r.groups)
	for i := range r.groups {
		r.groups[i].events = r.groups[i].events[:0]
	}
	r.groups = r.groups[:0]
	clear(r.groupIndex)
	r.releases = r.releases[:0]

	if r.debug {
		r.debugTick(eventCount, groupCount, time.Since(t0))
	}
	return routeErr
}

// routeCaptured routes one event for a captured contact: the raw event
// goes to the captor unchanged; a Removed additionally synthesizes a
// trailing Leave and schedules the implicit release.
func (r *Router) routeCaptured(ph *PendingHit) error {
	captor := r.captures[ph.Contact.ID]

	// The hit tester's verdict on "still over the captor" is tracked
	// for HitTestMatchesCapture queries only.
	if ph.Machine == 0 {
		delete(r.over, ph.Contact.ID)
	} else {
		r.over[ph.Contact.ID] = captor
	}

	if err := r.deliver(captor, ContactEvent{Type: ph.Type, Contact: ph.Contact, Details: ph.Details}); err != nil {
		return err
	}
	if ph.Type == EventRemoved {
		if err := r.deliver(captor, ContactEvent{Type: EventLeave, Contact: ph.Contact}); err != nil {
			return err
		}
		// The over entry stays until the deferred release so Up/Leave
		// handlers can still query HitTestMatchesCapture.
		r.releases = append(r.releases, deferredRelease{contact: ph.Contact, machine: captor})
	}
	return nil
}

// routeUncaptured applies the transition-synthesis rules for a contact
// nobody has captured. Synthetic events are interleaved immediately:
// Enter precedes the first raw event delivered to a newly-over machine,
// and Leave replaces a Changed that departs a machine or trails a
// Removed delivered to it.
func (r *Router) routeUncaptured(ph *PendingHit) error {
	id := ph.Contact.ID
	prev, wasOver := r.over[id]

	if ph.Machine == 0 {
		// Miss. With no prior owner there is no target; drop.
		if !wasOver {
			return nil
		}
		switch ph.Type {
		case EventChanged:
			if err := r.deliver(prev, ContactEvent{Type: EventLeave, Contact: ph.Contact}); err != nil {
				return err
			}
		case EventRemoved:
			if err := r.deliver(prev, ContactEvent{Type: EventRemoved, Contact: ph.Contact}); err != nil {
				return err
			}
			if err := r.deliver(prev, ContactEvent{Type: EventLeave, Contact: ph.Contact}); err != nil {
				return err
			}
		default:
			if err := r.deliver(prev, ContactEvent{Type: ph.Type, Contact: ph.Contact}); err != nil {
				return err
			}
		}
		delete(r.over, id)
		return nil
	}

	owner := ph.Machine

	if wasOver && prev != owner {
		// Moved off prev onto owner.
		if err := r.deliver(prev, ContactEvent{Type: EventLeave, Contact: ph.Contact}); err != nil {
			return err
		}
		wasOver = false
		delete(r.over, id)
	}

	if !wasOver {
		if err := r.deliver(owner, ContactEvent{Type: EventEnter, Contact: ph.Contact, Details: ph.Details}); err != nil {
			return err
		}
	}

	if err := r.deliver(owner, ContactEvent{Type: ph.Type, Contact: ph.Contact, Details: ph.Details}); err != nil {
		return err
	}

	if ph.Type == EventRemoved {
		if err := r.deliver(owner, ContactEvent{Type: EventLeave, Contact: ph.Contact, Details: ph.Details}); err != nil {
			return err
		}
		delete(r.over, id)
		return nil
	}

	r.over[id] = owner
	return nil
}

// deliver appends an event to a machine's per-tick queue, enforcing
// the declared details kind at this boundary.
func (r *Router) deliver(mid MachineID, ev ContactEvent) error {
	m, ok := r.machines[mid]
	if !ok {
		// Machine unregistered with stale table entries; debug mode
		// flags it, release mode drops the event.
		if r.debug {
			panic(fmt.Sprintf("tactile: event %s for unregistered machine %d", ev.Type, mid))
		}
		return nil
	}
	if ev.Details != nil && ev.Details.Kind() != m.DetailsKind() {
		return fmt.Errorf("%w: machine %d declares %d, got %d",
			ErrDetailsMismatch, mid, m.DetailsKind(), ev.Details.Kind())
	}
	gi, ok := r.groupIndex[mid]
	if !ok {
		gi = len(r.groups)
		if cap(r.groups) > gi {
			// Reuse the truncated group's event storage from a
			// previous tick.
			r.groups = r.groups[:gi+1]
			r.groups[gi].machine = mid
			r.groups[gi].events = r.groups[gi].events[:0]
		} else {
			r.groups = append(r.groups, routeGroup{machine: mid})
		}
		r.groupIndex[mid] = gi
	}
	r.groups[gi].events = append(r.groups[gi].events, ev)
	if r.store != nil {
		r.store.EmitEvent(RoutedEvent{
			Type: ev.Type, Machine: mid, Contact: ev.Contact, Details: ev.Details,
		})
	}
	return nil
}
