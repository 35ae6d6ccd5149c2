// Package app holds the practice picker's application core: the routine
// Store, which owns the in-memory collection and flushes a full snapshot
// after every mutation, and the Session, which owns a Store together with
// the transient selections a UI needs between interactions.
package app
