package engine

import (
	"sync"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/reducer"
)

// EventType distinguishes between event kinds.
type EventType int

const (
	// EventTypeCommand applies a single reducer command.
	EventTypeCommand EventType = iota + 1
	// EventTypeTick runs one simulation step.
	EventTypeTick
	// EventTypeInject feeds an external reading through the evaluator.
	EventTypeInject
	// EventTypeAlertAction handles an alert by hand (dispatch or monitor).
	EventTypeAlertAction
)

func (t EventType) String() string {
	switch t {
	case EventTypeCommand:
		return "command"
	case EventTypeTick:
		return "tick"
	case EventTypeInject:
		return "inject"
	case EventTypeAlertAction:
		return "alert_action"
	default:
		return "unknown"
	}
}

// Reading is an injected device temperature.
type Reading struct {
	DeviceID    string
	Temperature float64
}

// AlertAction is a manual response to an alert. An empty JobType means
// monitor only.
type AlertAction struct {
	AlertID string
	JobType domain.JobType
}

// Event is one unit of work for the Run loop.
type Event struct {
	Type    EventType
	Command reducer.Command
	Reading *Reading
	Alert   *AlertAction

	// generation identifies the timer that produced a tick. Zero marks a
	// manual tick, which always runs.
	generation uint64

	// done receives the outcome when the caller waits for it.
	done chan Result
}

// Result is the outcome of one processed event.
type Result struct {
	// Commands is how many reducer commands the event produced.
	Commands int
	// Applied is how many of them changed the snapshot.
	Applied int
	// Err is set when the event could not be turned into commands.
	Err error
}

// eventQueue is a thread-safe FIFO queue for events.
//
// The queue is unbounded so that callers never block on the Run loop.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop (prevents goroutine hangs on context cancellation).
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{} // Signals event availability (buffered, size 1)
}

// newEventQueue creates an empty event queue.
func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, e)

	// Non-blocking; the buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (Event{}, false) if queue is empty.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]

	// Nil out the slot so the backing array does not retain commands
	q.events[0] = Event{}

	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Wait returns a channel that signals when events may be available.
// Use with select for context-aware waiting:
//
//	select {
//	case <-ctx.Done():
//	    return ctx.Err()
//	case <-q.Wait():
//	    // Try TryDequeue
//	}
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close signals that no more events will be enqueued.
// Wakes any blocked waiters by closing the signal channel.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}

// Drain removes and returns every queued event.
func (q *eventQueue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.events
	q.events = nil
	return out
}
