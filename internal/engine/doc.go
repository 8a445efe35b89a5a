// Package engine runs a ThermoGuard session.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// The engine owns the current domain.Snapshot and is the only code that
// replaces it. Commands, timer ticks, injected readings and manual alert
// dispatches are enqueued as events; Run() dequeues them one at a time and
// applies the resulting reducer commands in order. This ensures:
// - No lost updates between the timer and user commands
// - Evaluator output lands right after the reading that caused it
// - A reproducible command order for the journal
//
// Event Processing Flow:
// 1. Callers enqueue events (Submit, Dispatch, Tick, Inject, Login, ...)
// 2. Run() dequeues events in FIFO order
// 3. processEvent() turns the event into reducer commands
// 4. Each command is applied, stamped with the next seq and journalled
// 5. The timer is armed or disarmed to match the new snapshot
// 6. Subscribers receive the snapshot
//
// Timer:
// While the snapshot says the simulation is running and a user is
// authenticated, a ticker goroutine enqueues tick events. It never touches
// state. At most one tick is pending at a time, and each tick carries the
// generation of the timer that produced it so ticks from a stopped timer
// are dropped.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Every processed command is stamped with a monotonic seq from Clock.Next(),
// applied or not. Journal reads order by seq, never by wall time.
//
// Log and Continue:
// Journal failures are logged and never stop the loop.
package engine
