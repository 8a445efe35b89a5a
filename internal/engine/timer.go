package engine

import (
	"context"
	"log/slog"
	"time"
)

// syncTimer arms or disarms the tick timer to match the snapshot.
// When rearm is set a running timer is replaced by a fresh one.
// CRITICAL: Called only from Run() goroutine.
func (e *Engine) syncTimer(ctx context.Context, rearm bool) {
	want := e.state.SimulationRunning && e.state.Authenticated
	running := e.timerCancel != nil

	switch {
	case want && (!running || rearm):
		e.stopTimer()
		e.startTimer(ctx)
	case !want && running:
		e.stopTimer()
	}
}

func (e *Engine) startTimer(ctx context.Context) {
	e.timerGen++
	gen := e.timerGen
	tctx, cancel := context.WithCancel(ctx)
	e.timerCancel = cancel

	slog.Debug("simulation timer started", "generation", gen, "interval", e.interval)

	go func() {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		for {
			select {
			case <-tctx.Done():
				return
			case <-ticker.C:
				// At most one tick waits in the queue at a time
				if !e.tickPending.CompareAndSwap(false, true) {
					continue
				}
				if !e.queue.Enqueue(Event{Type: EventTypeTick, generation: gen}) {
					return
				}
			}
		}
	}()
}

// stopTimer cancels the ticker and bumps the generation, so ticks it
// already queued are dropped.
func (e *Engine) stopTimer() {
	if e.timerCancel == nil {
		return
	}
	e.timerCancel()
	e.timerCancel = nil
	slog.Debug("simulation timer stopped", "generation", e.timerGen)
	e.timerGen++
}
