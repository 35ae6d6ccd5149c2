// Package domain contains the core types for the practice picker: routines,
// the persisted snapshot, and the sentinel errors shared by the application
// and its adapters.
//
// These types carry no I/O. Adapters in internal/adapters translate them to
// and from files, HTTP payloads, and SQL rows.
package domain
