// Package tactile is a touch-contact routing engine for multi-touch
// interfaces.
//
// Tactile takes a raw, possibly-concurrent stream of contact lifecycle
// notifications (Added, Changed, Removed), serializes them into a
// deterministic per-tick order, arbitrates which element owns each
// contact (capture), hit-tests against a collaborator-supplied
// [HitTester], synthesizes Enter/Leave transitions, and delivers an
// ordered per-element event queue to each interested [Machine].
//
// # Quick start
//
// Create a [Router], register machines, feed it contacts, and drive it
// once per frame:
//
//	router := tactile.NewRouter(hitTester)
//	button := tactile.NewButton()
//	router.Register(button)
//
//	// Producer side (any goroutine):
//	router.Notify(tactile.EventAdded, tactile.Contact{ID: 1, X: 40, Y: 40})
//
//	// Consumer side (game loop, once per tick):
//	if err := router.Update(); err != nil { ... }
//
// The producer and the tick loop are the only two roles; the double-
// buffered inbound queue is the only structure shared between them, and
// it is locked only for the duration of an append or a buffer swap.
// Hit-testing and dispatch run lock-free on a private snapshot.
//
// # Capture
//
// A machine may capture a contact, pinning itself as the exclusive
// routing target for that contact regardless of subsequent hit tests,
// until it releases the contact or the contact is removed. At most one
// machine holds a given contact at a time; see [Router.Capture].
//
// # Machines
//
// Every routable element implements [Machine], usually by embedding
// [MachineBase], which tracks the captured and over contact sets and
// dispatches each tick's queue to Down/Up/Changed/Enter/Leave handler
// registries. [Button] and [Scrollbar] are ready-made machines built
// this way.
//
// # Producers
//
// Any code can call [Router.Notify]. [PointerSource] adapts Ebitengine
// mouse and touch input into contact notifications; the
// examples/terminal demo does the same with tcell mouse events.
package tactile
