// Package reducer implements the command reducer of the ThermoGuard engine.
//
// Apply maps (snapshot, command) to the next snapshot. It is synchronous and
// has no side effects: identity generation and wall-clock time arrive through
// Env as side inputs, so identical (snapshot, command, env) triples always
// produce identical results.
//
// Commands that reference an unknown device, alert, job, rule or user, and
// job transitions the lifecycle does not allow, are absorbed: Apply returns
// the input snapshot unchanged and applied=false. Nothing in this package
// returns an error.
//
// The input snapshot is never modified. Slices are copied before they are
// changed, so snapshots already handed to readers stay valid.
package reducer
