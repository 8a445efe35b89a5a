// Package domain provides the entity types of the ThermoGuard simulation.
//
// This package contains data definitions and pure derivations only. Every
// other internal package imports domain; domain imports nothing internal.
//
// Key design constraints:
//   - Snapshots are values. Writers copy a slice before changing it, so a
//     published Snapshot can be read from any goroutine without locking.
//   - All JSON and YAML tags use snake_case
//   - Alerts and jobs carry denormalised device/customer names captured at
//     creation time; they are never re-joined against live records.
package domain
