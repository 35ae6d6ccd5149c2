package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/internal/ports"
	"github.com/bft-labs/practicepicker/pkg/log"
)

// Session owns one Store plus the transient selections of a single user
// session. All methods are safe for concurrent use; calls are serialised.
type Session struct {
	mu sync.Mutex

	id       string
	store    *Store
	repo     ports.SnapshotRepository
	logger   log.Logger
	observer ports.DrawObserver

	selectedID *int
	drawnID    *int
	notices    []Notice
}

// NewSession loads the snapshot from repo and hydrates a Store from it. When
// no usable snapshot exists the default routines are installed and persisted
// immediately. Load and save problems become notices, never errors.
func NewSession(ctx context.Context, repo ports.SnapshotRepository, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		id:       o.id,
		repo:     repo,
		logger:   log.With(o.logger, log.String("session_id", o.id), log.String("backend", repo.Name())),
		observer: o.observer,
	}

	res := repo.Load(ctx)
	switch res.Outcome {
	case ports.LoadFound:
		s.store = NewStore(repo, res.Snapshot)
		s.logger.Info("loaded routines", log.Int("routines", len(res.Snapshot.Routines)))
	case ports.LoadAbsent:
		s.logger.Info("no saved routines, using defaults")
		s.bootstrap(ctx)
	default:
		s.logger.Warn("could not read saved routines", log.String("outcome", res.Outcome.String()), log.Err(res.Err))
		s.warn(fmt.Sprintf("Could not read saved routines from %s: %v. Using defaults.", repo.Name(), res.Err))
		s.bootstrap(ctx)
	}
	if o.intn != nil {
		s.store.intn = o.intn
	}
	return s
}

func (s *Session) bootstrap(ctx context.Context) {
	s.store = NewStore(s.repo, domain.DefaultSnapshot())
	s.report(s.store.persist(ctx))
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Backend names the active persistence backend.
func (s *Session) Backend() string { return s.repo.Name() }

// Notices returns pending notices and clears them.
func (s *Session) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// List returns every routine in insertion order.
func (s *Session) List() []domain.Routine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// Categories returns the draw filter choices.
func (s *Session) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Categories()
}

// Get returns the routine with the given id.
func (s *Session) Get(id int) (domain.Routine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(id)
}

// Snapshot returns a copy of the durable state.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Create adds a routine. Only validation failures are returned; a failed
// write is kept in memory and reported as a notice.
func (s *Session) Create(ctx context.Context, in domain.RoutineInput) (domain.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.store.Create(ctx, in)
	if errors.Is(err, domain.ErrNameRequired) {
		return domain.Routine{}, err
	}
	s.report(err)
	s.logger.Info("routine created", log.Int("routine_id", r.ID), log.String("category", r.Category))
	return r, nil
}

// Update edits routine id. An unknown id is a silent no-op.
func (s *Session) Update(ctx context.Context, id int, in domain.RoutineInput) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.store.Update(ctx, id, in)
	if errors.Is(err, domain.ErrNameRequired) {
		return false, err
	}
	s.report(err)
	if ok {
		s.logger.Info("routine updated", log.Int("routine_id", id))
	}
	return ok, nil
}

// Delete removes routine id and clears any selection pointing at it.
func (s *Session) Delete(ctx context.Context, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.store.Delete(ctx, id)
	if s.drawnID != nil && *s.drawnID == id {
		s.drawnID = nil
	}
	if s.selectedID != nil && *s.selectedID == id {
		s.selectedID = nil
	}
	s.report(err)
	if ok {
		s.logger.Info("routine deleted", log.Int("routine_id", id))
	}
	return ok
}

// MarkDone sets the done flag of routine id, writing only on change.
func (s *Session) MarkDone(ctx context.Context, id int, value bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed, err := s.store.MarkDone(ctx, id, value)
	s.report(err)
	return changed
}

// ResetDone clears every done flag and the drawn selection.
func (s *Session) ResetDone(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawnID = nil
	s.report(s.store.ResetDone(ctx))
	s.logger.Info("done flags reset")
}

// DrawRandom picks an eligible routine for filter and records it as the
// drawn selection. With an empty pool it reports false and leaves the drawn
// selection unchanged.
func (s *Session) DrawRandom(filter string) (domain.Routine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.store.DrawRandom(filter)
	if s.observer != nil {
		s.observer.ObserveDraw(filter, ok)
	}
	if !ok {
		s.logger.Debug("draw found no eligible routines", log.String("category", filter))
		return domain.Routine{}, false
	}
	id := r.ID
	s.drawnID = &id
	s.logger.Debug("routine drawn", log.Int("routine_id", id), log.String("category", filter))
	return r, true
}

// Drawn returns the currently drawn routine, if any.
func (s *Session) Drawn() (domain.Routine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve(s.drawnID)
}

// Select records routine id as the selection for editing. Selecting an
// unknown id clears the selection.
func (s *Session) Select(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store.Get(id); !ok {
		s.selectedID = nil
		return false
	}
	s.selectedID = &id
	return true
}

// Selected returns the routine selected for editing, if any.
func (s *Session) Selected() (domain.Routine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve(s.selectedID)
}

func (s *Session) resolve(id *int) (domain.Routine, bool) {
	if id == nil {
		return domain.Routine{}, false
	}
	return s.store.Get(*id)
}

func (s *Session) warn(msg string) {
	s.notices = append(s.notices, Notice{Level: NoticeWarning, Message: msg})
}

// report turns a failed write into an error notice.
func (s *Session) report(err error) {
	if err == nil {
		return
	}
	s.logger.Error("failed to save routines", log.Err(err))
	s.notices = append(s.notices, Notice{Level: NoticeError, Message: fmt.Sprintf("Failed to save routines: %v", err)})
}
