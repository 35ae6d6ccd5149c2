package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/internal/ports"
)

// PersistError reports a failed snapshot write. The in-memory mutation that
// triggered it has already been applied and is kept.
type PersistError struct {
	Backend string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save to %s: %v", e.Backend, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Store is the in-memory routine collection. It is not safe for concurrent
// use; Session serialises access.
type Store struct {
	repo     ports.SnapshotRepository
	intn     func(n int) int
	routines []domain.Routine
	nextID   int
}

// NewStore hydrates a Store from snapshot. The snapshot is repaired so that
// categories are never blank and the id counter exceeds every stored id.
func NewStore(repo ports.SnapshotRepository, snapshot domain.Snapshot) *Store {
	s := snapshot.Repair()
	return &Store{
		repo:     repo,
		intn:     rand.IntN,
		routines: s.Routines,
		nextID:   s.NextID,
	}
}

// Snapshot returns a copy of the durable state.
func (s *Store) Snapshot() domain.Snapshot {
	return domain.Snapshot{Routines: s.List(), NextID: s.nextID}
}

// NextID returns the id the next created routine will receive.
func (s *Store) NextID() int { return s.nextID }

// List returns every routine in insertion order.
func (s *Store) List() []domain.Routine {
	out := make([]domain.Routine, len(s.routines))
	copy(out, s.routines)
	return out
}

// Categories returns the AllCategories sentinel followed by the distinct
// categories in use, sorted.
func (s *Store) Categories() []string {
	seen := make(map[string]struct{}, len(s.routines))
	var cats []string
	for _, r := range s.routines {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		cats = append(cats, r.Category)
	}
	sort.Strings(cats)
	return append([]string{domain.AllCategories}, cats...)
}

// Get returns the routine with the given id.
func (s *Store) Get(id int) (domain.Routine, bool) {
	if i := s.index(id); i >= 0 {
		return s.routines[i], true
	}
	return domain.Routine{}, false
}

// Create appends a new routine and persists. A blank name returns
// domain.ErrNameRequired and changes nothing. A *PersistError is returned
// alongside the created routine when only the write failed.
func (s *Store) Create(ctx context.Context, in domain.RoutineInput) (domain.Routine, error) {
	in, err := in.Normalize()
	if err != nil {
		return domain.Routine{}, err
	}
	r := domain.Routine{
		ID:          s.nextID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		InDraw:      in.InDraw,
	}
	s.routines = append(s.routines, r)
	s.nextID++
	return r, s.persist(ctx)
}

// Update replaces the editable fields of routine id, keeping its id and done
// flag. An unknown id is a silent no-op and reports false.
func (s *Store) Update(ctx context.Context, id int, in domain.RoutineInput) (bool, error) {
	in, err := in.Normalize()
	if err != nil {
		return false, err
	}
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	r := &s.routines[i]
	r.Name = in.Name
	r.Description = in.Description
	r.Category = in.Category
	r.InDraw = in.InDraw
	return true, s.persist(ctx)
}

// Delete removes routine id if present and persists either way. It reports
// whether a routine was removed.
func (s *Store) Delete(ctx context.Context, id int) (bool, error) {
	removed := false
	kept := s.routines[:0]
	for _, r := range s.routines {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	s.routines = kept
	return removed, s.persist(ctx)
}

// MarkDone sets the done flag of routine id. It persists only when the
// value changes and reports whether it did.
func (s *Store) MarkDone(ctx context.Context, id int, value bool) (bool, error) {
	i := s.index(id)
	if i < 0 || s.routines[i].Done == value {
		return false, nil
	}
	s.routines[i].Done = value
	return true, s.persist(ctx)
}

// ResetDone clears every done flag and persists unconditionally.
func (s *Store) ResetDone(ctx context.Context) error {
	for i := range s.routines {
		s.routines[i].Done = false
	}
	return s.persist(ctx)
}

// Eligible returns the draw pool for filter.
func (s *Store) Eligible(filter string) []domain.Routine {
	var pool []domain.Routine
	for _, r := range s.routines {
		if r.Eligible(filter) {
			pool = append(pool, r)
		}
	}
	return pool
}

// DrawRandom picks one routine uniformly from the eligible pool. It reports
// false when the pool is empty. Drawing never persists.
func (s *Store) DrawRandom(filter string) (domain.Routine, bool) {
	pool := s.Eligible(filter)
	if len(pool) == 0 {
		return domain.Routine{}, false
	}
	return pool[s.intn(len(pool))], true
}

func (s *Store) index(id int) int {
	for i, r := range s.routines {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.Snapshot()); err != nil {
		return &PersistError{Backend: s.repo.Name(), Err: err}
	}
	return nil
}
