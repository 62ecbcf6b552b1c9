package progress

import "sync"

// QueuePolicy selects what a bounded event queue does when full.
type QueuePolicy int

const (
	// BlockProducer makes the stream pumps wait for the consumer,
	// applying backpressure to the pipe readers.
	BlockProducer QueuePolicy = iota

	// DropOldest discards the oldest undelivered event to make room,
	// trading completeness for bounded memory.
	DropOldest
)

// eventQueue is the per-operation FIFO between the two stream pumps
// and the single consumer. A zero bound means unbounded: slow
// consumers grow memory instead of stalling the pumps.
type eventQueue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []Event

	bound  int
	policy QueuePolicy

	closed bool
	fault  error
}

func newEventQueue(bound int, policy QueuePolicy) *eventQueue {
	q := &eventQueue{bound: bound, policy: policy}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues one event, honoring the bound policy. Events pushed
// after close are dropped.
func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.policy == BlockProducer {
		for q.bound > 0 && len(q.items) >= q.bound && !q.closed {
			q.cond.Wait()
		}
	}
	if q.closed {
		return
	}
	if q.bound > 0 && len(q.items) >= q.bound && q.policy == DropOldest {
		q.items = q.items[1:]
	}
	q.items = append(q.items, ev)
	q.cond.Broadcast()
}

// next blocks for the next event. ok is false once the queue is closed
// and drained; the error is then the operation's terminal fault, if
// one was recorded.
func (q *eventQueue) next() (ev Event, ok bool, fault error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) > 0 {
		ev = q.items[0]
		q.items = q.items[1:]
		q.cond.Broadcast()
		return ev, true, nil
	}
	return nil, false, q.fault
}

// close seals the queue with the operation's terminal fault (nil for a
// clean finish). The first recorded fault wins.
func (q *eventQueue) close(fault error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fault == nil {
		q.fault = fault
	}
	q.closed = true
	q.cond.Broadcast()
}

// depth reports how many events are waiting.
func (q *eventQueue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
