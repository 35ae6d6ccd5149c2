package app

import (
	"context"
	"errors"

	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/internal/ports"
)

// memRepo is an in-memory SnapshotRepository that records every save.
type memRepo struct {
	load    ports.LoadResult
	saves   []domain.Snapshot
	saveErr error
}

func newMemRepo() *memRepo {
	return &memRepo{load: ports.Absent()}
}

func newMemRepoWith(s domain.Snapshot) *memRepo {
	return &memRepo{load: ports.Found(s)}
}

func (m *memRepo) Name() string { return "memory" }

func (m *memRepo) Load(ctx context.Context) ports.LoadResult { return m.load }

func (m *memRepo) Save(ctx context.Context, s domain.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves = append(m.saves, s.Clone())
	return nil
}

func (m *memRepo) last() domain.Snapshot {
	if len(m.saves) == 0 {
		return domain.Snapshot{}
	}
	return m.saves[len(m.saves)-1]
}

var errWriteRejected = errors.New("write rejected")

func drawFixture() domain.Snapshot {
	return domain.Snapshot{
		Routines: []domain.Routine{
			{ID: 1, Name: "one", Category: "A", InDraw: true},
			{ID: 2, Name: "two", Category: "A"},
			{ID: 3, Name: "three", Category: "B", InDraw: true, Done: true},
		},
		NextID: 4,
	}
}
