// Package stats derives read models from a snapshot: the dashboard
// counters shown to every role and the spreadsheet report export.
//
// Nothing here mutates state. Compute and WriteWorkbook take a snapshot
// (typically Engine.Snapshot or a role-scoped view of it) and the wall
// clock used for the "last 24 hours" window.
package stats
