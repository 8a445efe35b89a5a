// Package harness runs YAML scenarios against a real engine and checks the
// resulting command trace and final snapshot.
//
// Each scenario gets a fresh engine over the seed dataset, an in-memory
// SQLite journal, a frozen wall clock and a seeded simulator, so two runs of
// the same scenario produce the same trace. Ticks are driven by hand; the
// engine's timer never fires during a scenario.
//
// Scenario format:
//
//	name: manual_dispatch
//	description: Operator dispatches a rental unit for a store alert
//	seed: 7
//	steps:
//	  - login: {email: admin@demo.com, password: password123}
//	  - inject: {device: d4, temperature: 27.5}
//	  - handle_alert: {alert: alert-101, job: rental}
//	  - job_status: {job: job-105, status: accepted}
//	  - tick: 3
//	  - command: logout
//	assertions:
//	  - type: trace_count
//	    kind: CreateJob
//	    count: 2
//	  - type: final_state
//	    entity: alert
//	    id: alert-101
//	    expect: {acknowledged: true}
//
// The trace is read back from the journal after the last step, which makes
// every scenario an end-to-end check of the journal as well.
package harness
