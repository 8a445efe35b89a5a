package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/evaluator"
	"github.com/roach88/thermoguard/internal/journal"
	"github.com/roach88/thermoguard/internal/reducer"
	"github.com/roach88/thermoguard/internal/simulation"
)

// DefaultInterval is the simulation tick period.
const DefaultInterval = 3 * time.Second

// Stepper computes the commands for one simulation tick.
// Implemented by *simulation.Simulator.
type Stepper interface {
	Step(s domain.Snapshot, now time.Time) []reducer.Command
}

// Rearmer is implemented by steppers whose scripted sequence can restart.
type Rearmer interface {
	Rearm()
}

// Journal records processed commands.
// Implemented by *journal.Journal.
type Journal interface {
	Append(ctx context.Context, e journal.Entry) error
}

// Engine is the single-writer session event loop.
//
// CRITICAL: All snapshot replacements happen in the Run goroutine.
// External callers submit events and read snapshots.
//
// Thread-safety model:
//   - Submit(), Dispatch(), Tick(), Inject(), Login(), HandleAlert():
//     safe from any goroutine
//   - Snapshot(), Subscribe(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
type Engine struct {
	mu    sync.RWMutex
	state domain.Snapshot

	env       reducer.Env
	sim       Stepper
	journal   Journal
	sessions  SessionIDGenerator
	sessionID string
	clock     *Clock
	queue     *eventQueue
	interval  time.Duration

	rearmOnReset bool

	// Timer state. Only the Run goroutine touches these.
	timerGen    uint64
	timerCancel context.CancelFunc
	tickPending atomic.Bool

	subMu   sync.Mutex
	subs    map[int]chan domain.Snapshot
	nextSub int
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithInterval sets the tick period.
//
// Default: 3s (DefaultInterval)
func WithInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.interval = d
	}
}

// WithJournal records every processed command.
func WithJournal(j Journal) EngineOption {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithStepper replaces the default simulator.
func WithStepper(s Stepper) EngineOption {
	return func(e *Engine) {
		e.sim = s
	}
}

// WithNow sets the wall clock used for timestamps.
func WithNow(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.env.Now = now
	}
}

// WithIDs sets the entity ID generator.
func WithIDs(ids reducer.IDGenerator) EngineOption {
	return func(e *Engine) {
		e.env.IDs = ids
	}
}

// WithSessionIDs sets the journal session ID generator.
func WithSessionIDs(g SessionIDGenerator) EngineOption {
	return func(e *Engine) {
		e.sessions = g
	}
}

// WithRearmOnReset restarts the scripted failure sequence on ResetDemo, so
// a second trigger climbs from step one. Off by default.
func WithRearmOnReset(enabled bool) EngineOption {
	return func(e *Engine) {
		e.rearmOnReset = enabled
	}
}

// New creates an Engine that starts from initial. ResetDemo restores
// initial as well.
func New(initial domain.Snapshot, opts ...EngineOption) *Engine {
	e := &Engine{
		state: initial.Clone(),
		env: reducer.Env{
			IDs:  reducer.NewCounterIDs(reducer.DefaultIDStart),
			Now:  time.Now,
			Seed: initial.Clone(),
		},
		sessions: UUIDv7Generator{},
		clock:    NewClock(),
		queue:    newEventQueue(),
		interval: DefaultInterval,
		subs:     make(map[int]chan domain.Snapshot),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.sim == nil {
		e.sim = simulation.New()
	}
	if e.interval <= 0 {
		e.interval = DefaultInterval
	}
	e.sessionID = e.sessions.Generate()

	return e
}

// SessionID returns the journal session ID of this engine.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Seq returns the seq of the last processed command.
func (e *Engine) Seq() int64 {
	return e.clock.Current()
}

// Snapshot returns the current state. The result is immutable: the engine
// never edits a published snapshot in place.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Run starts the single-writer event loop.
// Blocks until context is cancelled or Stop() is called.
//
// CRITICAL: Must be called from exactly ONE goroutine.
//
// ERROR HANDLING: On event processing failure, the error is logged with full
// event context and processing continues.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting", "session", e.sessionID, "interval", e.interval)

	defer e.stopTimer()
	defer e.closeSubscribers()

	e.syncTimer(ctx, false)

	for {
		event, ok := e.queue.TryDequeue()
		if ok {
			e.handle(ctx, event)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled")
			e.queue.Close()
			e.abandon()
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel closes when the queue is closed,
			// which makes this case fire immediately
			if e.queue.Len() == 0 {
				slog.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop gracefully shuts down the engine.
// Events already queued are still processed before Run returns.
func (e *Engine) Stop() {
	e.queue.Close()
}

// abandon answers waiters whose events will never run.
func (e *Engine) abandon() {
	for _, ev := range e.queue.Drain() {
		if ev.done != nil {
			ev.done <- Result{Err: ErrStopped}
		}
	}
}

// handle processes one event and performs the bookkeeping that follows it.
// CRITICAL: Called only from Run() goroutine - single-writer guarantee.
func (e *Engine) handle(ctx context.Context, event Event) {
	if event.Type == EventTypeTick {
		e.tickPending.Store(false)
	}

	result, rearm := e.processEvent(ctx, event)
	if result.Err != nil {
		logEventError(event, result.Err)
	}

	e.syncTimer(ctx, rearm)
	if result.Applied > 0 {
		e.publish()
	}

	if event.done != nil {
		event.done <- result
	}
}

// processEvent turns an event into commands and applies them.
// rearm reports that the timer must restart even if it is already running.
// CRITICAL: Called only from Run() goroutine - single-writer guarantee.
func (e *Engine) processEvent(ctx context.Context, event Event) (Result, bool) {
	switch event.Type {
	case EventTypeCommand:
		if event.Command == nil {
			return Result{Err: errors.New("command event missing command")}, false
		}
		_, isReset := event.Command.(reducer.ResetDemo)
		result := e.applyAll(ctx, []reducer.Command{event.Command})
		if isReset && result.Applied > 0 {
			if r, ok := e.sim.(Rearmer); ok && e.rearmOnReset {
				r.Rearm()
			}
			return result, true
		}
		return result, false

	case EventTypeTick:
		if event.generation != 0 && event.generation != e.timerGen {
			slog.Debug("dropping stale tick", "generation", event.generation, "current", e.timerGen)
			return Result{}, false
		}
		return e.applyAll(ctx, e.sim.Step(e.state, e.env.Now())), false

	case EventTypeInject:
		if event.Reading == nil {
			return Result{Err: errors.New("inject event missing reading")}, false
		}
		d, _, ok := e.state.Device(event.Reading.DeviceID)
		if !ok {
			return Result{Err: NewUnknownDeviceError(event.Reading.DeviceID)}, false
		}
		return e.applyAll(ctx, simulation.Observe(e.state, d, event.Reading.Temperature, e.env.Now())), false

	case EventTypeAlertAction:
		if event.Alert == nil {
			return Result{Err: errors.New("alert event missing action")}, false
		}
		cmds, err := evaluator.Dispatch(e.state, event.Alert.AlertID, event.Alert.JobType, e.env.Now())
		if err != nil {
			if errors.Is(err, evaluator.ErrUnknownAlert) {
				err = NewUnknownAlertError(event.Alert.AlertID, err)
			}
			return Result{Err: err}, false
		}
		return e.applyAll(ctx, cmds), false

	default:
		return Result{Err: fmt.Errorf("unknown event type: %d", event.Type)}, false
	}
}

// applyAll applies commands in order, each against the result of the last.
func (e *Engine) applyAll(ctx context.Context, cmds []reducer.Command) Result {
	result := Result{Commands: len(cmds)}
	for _, cmd := range cmds {
		if e.apply(ctx, cmd) {
			result.Applied++
		}
	}
	return result
}

// apply runs one command through the reducer, stamps it and journals it.
func (e *Engine) apply(ctx context.Context, cmd reducer.Command) bool {
	next, ok := reducer.Apply(e.state, cmd, e.env)
	seq := e.clock.Next()

	if ok {
		e.mu.Lock()
		e.state = next
		e.mu.Unlock()
	} else {
		slog.Debug("command was a no-op", "kind", cmd.Kind(), "seq", seq)
	}

	e.record(ctx, seq, cmd, ok)
	return ok
}

// record appends a journal entry. Failures are logged, never returned.
func (e *Engine) record(ctx context.Context, seq int64, cmd reducer.Command, applied bool) {
	if e.journal == nil {
		return
	}

	entry, err := journal.NewEntry(e.sessionID, seq, cmd.Kind(), cmd, applied, e.env.Now())
	if err == nil {
		err = e.journal.Append(ctx, entry)
	}
	if err != nil {
		slog.Error("journal write failed",
			"error", err,
			"session", e.sessionID,
			"seq", seq,
			"kind", cmd.Kind(),
		)
	}
}

func logEventError(event Event, err error) {
	attrs := []any{"error", err, "event_type", event.Type.String()}
	switch {
	case event.Command != nil:
		attrs = append(attrs, "kind", event.Command.Kind())
	case event.Reading != nil:
		attrs = append(attrs, "device_id", event.Reading.DeviceID, "temperature", event.Reading.Temperature)
	case event.Alert != nil:
		attrs = append(attrs, "alert_id", event.Alert.AlertID, "job_type", event.Alert.JobType)
	}
	slog.Error("event processing failed", attrs...)
}
