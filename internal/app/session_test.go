package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/internal/ports"
)

func TestNewSessionBootstrapsDefaults(t *testing.T) {
	repo := newMemRepo()
	s := NewSession(context.Background(), repo)

	if got := len(s.List()); got != 3 {
		t.Fatalf("expected 3 default routines, got %d", got)
	}
	if got := s.Snapshot().NextID; got != 4 {
		t.Fatalf("expected next_id 4, got %d", got)
	}
	if len(repo.saves) != 1 {
		t.Fatalf("expected bootstrap to persist once, got %d", len(repo.saves))
	}
	if got := repo.last(); len(got.Routines) != 3 || got.NextID != 4 {
		t.Fatalf("unexpected bootstrap snapshot: %+v", got)
	}
	if n := s.Notices(); len(n) != 0 {
		t.Fatalf("absent snapshot should be silent, got %+v", n)
	}
}

func TestNewSessionHydratesSnapshot(t *testing.T) {
	repo := newMemRepoWith(drawFixture())
	s := NewSession(context.Background(), repo)

	if got := len(s.List()); got != 3 {
		t.Fatalf("expected 3 routines, got %d", got)
	}
	if len(repo.saves) != 0 {
		t.Fatalf("hydration must not persist, got %d saves", len(repo.saves))
	}
	if _, ok := s.Drawn(); ok {
		t.Fatal("drawn selection starts empty")
	}
}

func TestNewSessionMalformedFallsBackWithWarning(t *testing.T) {
	tests := []struct {
		name   string
		result ports.LoadResult
	}{
		{"malformed", ports.Malformed(domain.ErrMalformedSnapshot)},
		{"failed", ports.Failed(errors.New("connection refused"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memRepo{load: tt.result}
			s := NewSession(context.Background(), repo)

			if got := s.Snapshot(); len(got.Routines) != 3 || got.NextID != 4 {
				t.Fatalf("expected default bootstrap, got %+v", got)
			}
			if len(repo.saves) != 1 {
				t.Fatalf("expected bootstrap save, got %d", len(repo.saves))
			}
			notices := s.Notices()
			if len(notices) != 1 || notices[0].Level != NoticeWarning {
				t.Fatalf("expected a single warning, got %+v", notices)
			}
			if len(s.Notices()) != 0 {
				t.Fatal("notices must be drained after reading")
			}
		})
	}
}

func TestSessionDrawAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewSession(ctx, newMemRepoWith(drawFixture()))

	r, ok := s.DrawRandom("A")
	if !ok || r.ID != 1 {
		t.Fatalf("expected routine 1, got %+v", r)
	}
	if d, ok := s.Drawn(); !ok || d.ID != 1 {
		t.Fatalf("expected drawn routine 1, got %+v ok=%v", d, ok)
	}

	if _, ok := s.DrawRandom("B"); ok {
		t.Fatal("expected empty pool")
	}
	if d, ok := s.Drawn(); !ok || d.ID != 1 {
		t.Fatal("empty draw must leave the drawn selection unchanged")
	}

	s.Delete(ctx, 1)
	if _, ok := s.Drawn(); ok {
		t.Fatal("deleting the drawn routine must clear the selection")
	}
}

func TestSessionDeleteOtherKeepsDrawn(t *testing.T) {
	ctx := context.Background()
	s := NewSession(ctx, newMemRepoWith(drawFixture()))
	s.DrawRandom("A")
	s.Delete(ctx, 3)
	if d, ok := s.Drawn(); !ok || d.ID != 1 {
		t.Fatal("deleting another routine must keep the drawn selection")
	}
}

func TestSessionResetClearsDrawn(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepoWith(drawFixture())
	s := NewSession(ctx, repo)
	s.DrawRandom(domain.AllCategories)
	s.MarkDone(ctx, 1, true)

	s.ResetDone(ctx)
	if _, ok := s.Drawn(); ok {
		t.Fatal("reset must clear the drawn selection")
	}
	for _, r := range s.List() {
		if r.Done {
			t.Fatalf("routine %d still done", r.ID)
		}
	}
	if len(repo.saves) != 2 {
		t.Fatalf("expected mark + reset saves, got %d", len(repo.saves))
	}
}

func TestSessionMarkDoneWritesOnce(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepoWith(drawFixture())
	s := NewSession(ctx, repo)

	s.MarkDone(ctx, 1, true)
	s.MarkDone(ctx, 1, true)
	if len(repo.saves) != 1 {
		t.Fatalf("expected exactly one save, got %d", len(repo.saves))
	}
}

func TestSessionSaveFailureBecomesNotice(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepoWith(drawFixture())
	repo.saveErr = errWriteRejected
	s := NewSession(ctx, repo)

	r, err := s.Create(ctx, domain.RoutineInput{Name: "Tapping", Category: "Technique"})
	if err != nil {
		t.Fatalf("save failures must not be returned: %v", err)
	}
	if _, ok := s.Get(r.ID); !ok {
		t.Fatal("created routine must stay in memory")
	}
	notices := s.Notices()
	if len(notices) != 1 || notices[0].Level != NoticeError {
		t.Fatalf("expected one error notice, got %+v", notices)
	}
	if !strings.Contains(notices[0].Message, "write rejected") {
		t.Fatalf("expected cause in notice, got %q", notices[0].Message)
	}
}

func TestSessionValidationErrors(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepoWith(drawFixture())
	s := NewSession(ctx, repo)

	if _, err := s.Create(ctx, domain.RoutineInput{Name: " "}); !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := s.Update(ctx, 1, domain.RoutineInput{}); !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if len(repo.saves) != 0 {
		t.Fatal("validation failures must not persist")
	}
}

func TestSessionSelection(t *testing.T) {
	ctx := context.Background()
	s := NewSession(ctx, newMemRepoWith(drawFixture()))

	if !s.Select(2) {
		t.Fatal("expected routine 2 selectable")
	}
	if r, ok := s.Selected(); !ok || r.ID != 2 {
		t.Fatalf("expected selected routine 2, got %+v", r)
	}
	s.Delete(ctx, 2)
	if _, ok := s.Selected(); ok {
		t.Fatal("deleting the selected routine must clear the selection")
	}
	if s.Select(99) {
		t.Fatal("unknown id must not be selectable")
	}
}

type countingObserver struct {
	hits, misses int
}

func (c *countingObserver) ObserveDraw(category string, found bool) {
	if found {
		c.hits++
		return
	}
	c.misses++
}

func TestSessionOptions(t *testing.T) {
	obs := &countingObserver{}
	s := NewSession(context.Background(), newMemRepoWith(drawFixture()),
		WithSessionID("fixed"),
		WithDrawObserver(obs),
		WithRandom(func(n int) int { return n - 1 }),
	)
	if s.ID() != "fixed" {
		t.Fatalf("expected session id fixed, got %s", s.ID())
	}
	if s.Backend() != "memory" {
		t.Fatalf("expected memory backend, got %s", s.Backend())
	}
	s.DrawRandom(domain.AllCategories)
	s.DrawRandom("B")
	if obs.hits != 1 || obs.misses != 1 {
		t.Fatalf("expected one hit and one miss, got %+v", obs)
	}
}
