package tactile

import "sync"

// DefaultQueueCeiling is the maximum number of events the back buffer
// holds between ticks — roughly one minute of input at typical digitizer
// event rates. Enqueues past the ceiling fail with ErrQueueOverflow.
const DefaultQueueCeiling = 200_000

// queuedEvent is a raw producer notification awaiting the next tick.
// Synthetic kinds (Enter/Leave) never appear here.
type queuedEvent struct {
	typ     EventType
	contact Contact
}

// inboundQueue is the double-buffered hand-off point between producers
// and the router. Producers append to the back buffer; the router swaps
// buffers once per tick and then drains the front buffer without any
// lock held. The mutex guards only the O(1) append and the pointer
// swap — never hit-testing or dispatch.
type inboundQueue struct {
	mu      sync.Mutex
	back    []queuedEvent
	front   []queuedEvent
	ceiling int
}

func newInboundQueue() *inboundQueue {
	return &inboundQueue{ceiling: DefaultQueueCeiling}
}

// enqueue appends a producer notification. Safe to call from any
// goroutine, concurrently with router activity.
func (q *inboundQueue) enqueue(typ EventType, c Contact) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.back) >= q.ceiling {
		return ErrQueueOverflow
	}
	q.back = append(q.back, queuedEvent{typ: typ, contact: c})
	return nil
}

// swap exchanges the front and back buffers and returns the new front:
// the batch for this tick. The returned slice is owned exclusively by
// the router until the next swap, at which point its storage becomes
// the back buffer again. A batch's array is recycled one swap after it
// was handed out, once the router is done draining it.
func (q *inboundQueue) swap() []queuedEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.front, q.back = q.back, q.front[:0]
	return q.front
}

// pending returns the current back-buffer length. Diagnostic only; the
// value is stale the moment the lock is released.
func (q *inboundQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.back)
}
