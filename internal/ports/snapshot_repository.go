package ports

import (
	"context"

	"github.com/bft-labs/practicepicker/internal/domain"
)

// LoadOutcome classifies the result of a snapshot load.
type LoadOutcome int

const (
	// LoadFound means a well-formed snapshot was read.
	LoadFound LoadOutcome = iota
	// LoadAbsent means the store holds no snapshot yet.
	LoadAbsent
	// LoadMalformed means data was read but failed the shape check.
	LoadMalformed
	// LoadFailed means the store could not be read.
	LoadFailed
)

// String returns a lowercase label suitable for logs and metric labels.
func (o LoadOutcome) String() string {
	switch o {
	case LoadFound:
		return "found"
	case LoadAbsent:
		return "absent"
	case LoadMalformed:
		return "malformed"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadResult is returned by SnapshotRepository.Load. Only LoadFound carries
// a usable Snapshot; LoadMalformed and LoadFailed carry Err.
type LoadResult struct {
	Snapshot domain.Snapshot
	Outcome  LoadOutcome
	Err      error
}

// Found wraps a successfully loaded snapshot.
func Found(s domain.Snapshot) LoadResult {
	return LoadResult{Snapshot: s, Outcome: LoadFound}
}

// Absent reports that no snapshot exists.
func Absent() LoadResult {
	return LoadResult{Outcome: LoadAbsent}
}

// Malformed reports a snapshot that failed the shape check.
func Malformed(err error) LoadResult {
	return LoadResult{Outcome: LoadMalformed, Err: err}
}

// Failed reports a read error.
func Failed(err error) LoadResult {
	return LoadResult{Outcome: LoadFailed, Err: err}
}

// Ok reports whether the result holds a snapshot.
func (r LoadResult) Ok() bool { return r.Outcome == LoadFound }

// SnapshotRepository durably stores exactly one snapshot.
type SnapshotRepository interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Load fetches the stored snapshot. It never returns an error value;
	// failures are reported through the result's Outcome and Err.
	Load(ctx context.Context) LoadResult

	// Save replaces the stored snapshot with s.
	Save(ctx context.Context, s domain.Snapshot) error
}

// DrawObserver receives the outcome of every random draw.
type DrawObserver interface {
	ObserveDraw(category string, found bool)
}
