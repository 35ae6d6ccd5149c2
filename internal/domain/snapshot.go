package domain

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the complete durable state. Every mutation persists a full
// snapshot; there is no partial write.
type Snapshot struct {
	Routines []Routine `json:"routines"`
	NextID   int       `json:"next_id"`
}

// DefaultSnapshot returns the bootstrap state: the default routines and a
// next id one past the highest of them.
func DefaultSnapshot() Snapshot {
	routines := DefaultRoutines()
	return Snapshot{Routines: routines, NextID: maxID(routines) + 1}
}

// DecodeSnapshot parses data and checks its shape. The payload must be a
// JSON object holding both "routines" and "next_id"; anything else wraps
// ErrMalformedSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if raw == nil {
		return Snapshot{}, fmt.Errorf("%w: not an object", ErrMalformedSnapshot)
	}
	routines, ok := raw["routines"]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: missing routines", ErrMalformedSnapshot)
	}
	nextID, ok := raw["next_id"]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: missing next_id", ErrMalformedSnapshot)
	}

	var s Snapshot
	if err := json.Unmarshal(routines, &s.Routines); err != nil {
		return Snapshot{}, fmt.Errorf("%w: routines: %v", ErrMalformedSnapshot, err)
	}
	if err := json.Unmarshal(nextID, &s.NextID); err != nil {
		return Snapshot{}, fmt.Errorf("%w: next_id: %v", ErrMalformedSnapshot, err)
	}
	return s, nil
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{NextID: s.NextID}
	if s.Routines != nil {
		out.Routines = make([]Routine, len(s.Routines))
		copy(out.Routines, s.Routines)
	}
	return out
}

// Repair enforces the stored invariants on hydrated data: categories are
// never blank and NextID exceeds every id present.
func (s Snapshot) Repair() Snapshot {
	out := s.Clone()
	if out.Routines == nil {
		out.Routines = []Routine{}
	}
	for i := range out.Routines {
		out.Routines[i].Category = NormalizeCategory(out.Routines[i].Category)
	}
	if floor := maxID(out.Routines) + 1; out.NextID < floor {
		out.NextID = floor
	}
	return out
}

func maxID(routines []Routine) int {
	highest := 0
	for _, r := range routines {
		if r.ID > highest {
			highest = r.ID
		}
	}
	return highest
}
