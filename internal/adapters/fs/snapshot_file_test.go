package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/internal/ports"
)

func TestSnapshotFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotFileRepository(filepath.Join(t.TempDir(), "nested", "routines.json"))

	expected := domain.Snapshot{
		Routines: []domain.Routine{
			{ID: 1, Name: "Chromatics", Description: "1-2-3-4", Category: "Warm-up", InDraw: true},
			{ID: 5, Name: "Sweeps", Category: "Technique", Done: true},
		},
		NextID: 6,
	}
	if err := repo.Save(ctx, expected); err != nil {
		t.Fatalf("save: %v", err)
	}

	res := repo.Load(ctx)
	if !res.Ok() {
		t.Fatalf("expected found, got %s: %v", res.Outcome, res.Err)
	}
	if !reflect.DeepEqual(res.Snapshot, expected) {
		t.Fatalf("expected %+v, got %+v", expected, res.Snapshot)
	}
}

func TestSnapshotFileIsIndented(t *testing.T) {
	repo := NewSnapshotFileRepository(filepath.Join(t.TempDir(), "routines.json"))
	if err := repo.Save(context.Background(), domain.Snapshot{NextID: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(repo.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"routines\": []") {
		t.Fatalf("expected indented output with empty routines, got %s", data)
	}
	if _, err := os.Stat(repo.Path() + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("temp file must not remain after save")
	}
}

func TestSnapshotFileLoadOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    ports.LoadOutcome
	}{
		{name: "missing file", content: nil, want: ports.LoadAbsent},
		{name: "missing next_id", content: strPtr(`{"routines": []}`), want: ports.LoadMalformed},
		{name: "garbage", content: strPtr(`{not json`), want: ports.LoadMalformed},
		{name: "valid", content: strPtr(`{"routines": [], "next_id": 1}`), want: ports.LoadFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "routines.json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o644); err != nil {
					t.Fatalf("write: %v", err)
				}
			}
			res := NewSnapshotFileRepository(path).Load(context.Background())
			if res.Outcome != tt.want {
				t.Fatalf("expected %s, got %s (%v)", tt.want, res.Outcome, res.Err)
			}
			if tt.want == ports.LoadMalformed && !errors.Is(res.Err, domain.ErrMalformedSnapshot) {
				t.Fatalf("expected ErrMalformedSnapshot, got %v", res.Err)
			}
		})
	}
}

func TestSnapshotFileReadFailure(t *testing.T) {
	dir := t.TempDir()
	res := NewSnapshotFileRepository(dir).Load(context.Background())
	if res.Outcome != ports.LoadFailed {
		t.Fatalf("reading a directory should fail, got %s", res.Outcome)
	}
}

func strPtr(s string) *string { return &s }
