package engine

import (
	"context"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/reducer"
)

// LoginResult reports the outcome of Login.
type LoginResult struct {
	OK   bool
	User domain.User
}

// Submit enqueues a command without waiting.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the engine has been stopped.
func (e *Engine) Submit(cmd reducer.Command) bool {
	return e.queue.Enqueue(Event{Type: EventTypeCommand, Command: cmd})
}

// Dispatch applies a command and waits for it.
// Returns whether the command changed the snapshot.
func (e *Engine) Dispatch(ctx context.Context, cmd reducer.Command) (bool, error) {
	r, err := e.call(ctx, Event{Type: EventTypeCommand, Command: cmd})
	if err != nil {
		return false, err
	}
	return r.Applied > 0, nil
}

// Tick runs one simulation step now, whether or not the timer is armed,
// and waits for it.
func (e *Engine) Tick(ctx context.Context) (Result, error) {
	return e.call(ctx, Event{Type: EventTypeTick})
}

// Inject feeds an external reading for a device. The ambient status rule
// classifies it, and a status change raises an alert through the
// evaluator exactly as a simulated transition would.
func (e *Engine) Inject(ctx context.Context, deviceID string, temperature float64) (Result, error) {
	return e.call(ctx, Event{Type: EventTypeInject, Reading: &Reading{DeviceID: deviceID, Temperature: temperature}})
}

// HandleAlert dispatches a repair or rental job for an alert and
// acknowledges it. An empty jobType only acknowledges.
func (e *Engine) HandleAlert(ctx context.Context, alertID string, jobType domain.JobType) (Result, error) {
	return e.call(ctx, Event{Type: EventTypeAlertAction, Alert: &AlertAction{AlertID: alertID, JobType: jobType}})
}

// Login authenticates a seed user and starts the simulation.
// Returns ErrInvalidCredentials with an unchanged snapshot on failure.
func (e *Engine) Login(ctx context.Context, email, password string) (LoginResult, error) {
	r, err := e.call(ctx, Event{Type: EventTypeCommand, Command: reducer.Login{Email: email, Password: password}})
	if err != nil {
		return LoginResult{}, err
	}
	if r.Applied == 0 {
		return LoginResult{}, ErrInvalidCredentials
	}

	s := e.Snapshot()
	if s.CurrentUser == nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	return LoginResult{OK: true, User: *s.CurrentUser}, nil
}

// call enqueues an event and waits for its result.
func (e *Engine) call(ctx context.Context, ev Event) (Result, error) {
	ev.done = make(chan Result, 1)
	if !e.queue.Enqueue(ev) {
		return Result{}, ErrStopped
	}

	select {
	case r := <-ev.done:
		return r, r.Err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
