package tactile

import "errors"

// Error taxonomy. All of these are precondition or resource faults
// surfaced synchronously to the caller; none are retried internally.
// Router bugs (inconsistent routing state) are not errors — they panic
// with a "tactile: " prefix, since continuing risks routing further
// events to the wrong owner.
var (
	// ErrInvalidContact reports a zero-ID contact or a nil machine
	// passed to a capture-family call or to Notify.
	ErrInvalidContact = errors.New("tactile: invalid contact or machine")

	// ErrAlreadyCaptured reports a Capture for a contact id that is
	// already held by a machine.
	ErrAlreadyCaptured = errors.New("tactile: contact already captured")

	// ErrNotCaptured reports a Release for a contact id with no
	// outstanding capture.
	ErrNotCaptured = errors.New("tactile: contact not captured")

	// ErrReentrantUpdate reports an Update call made while an Update
	// is already running, typically from inside a HitTester or a
	// machine callback. Nested updates are illegal, never queued.
	ErrReentrantUpdate = errors.New("tactile: reentrant Update")

	// ErrQueueOverflow reports that the inbound back buffer has hit
	// its ceiling. The producer must handle it (drop, or propagate);
	// the router never retries.
	ErrQueueOverflow = errors.New("tactile: inbound queue overflow")

	// ErrRouterMismatch reports a machine already bound to a different
	// router instance.
	ErrRouterMismatch = errors.New("tactile: machine bound to a different router")

	// ErrDetailsMismatch reports a HitTester payload whose kind does
	// not match the receiving machine's declared DetailsKind.
	ErrDetailsMismatch = errors.New("tactile: hit details kind mismatch")
)
