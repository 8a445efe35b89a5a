// Package evaluator turns a device status transition into the commands that
// record it: the alert, its SMS and email notifications, and whatever the
// device's automation rules ask for.
//
// The evaluator never touches state. It reads a snapshot and returns
// reducer commands; the caller applies them in order.
package evaluator
