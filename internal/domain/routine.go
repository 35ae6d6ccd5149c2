package domain

import "strings"

const (
	// DefaultCategory replaces a blank category.
	DefaultCategory = "General"

	// AllCategories is the draw filter sentinel matching every category.
	AllCategories = "All categories"
)

// Routine is a single practice item.
type Routine struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	InDraw      bool   `json:"in_draw"`
	Done        bool   `json:"done"`
}

// RoutineInput holds the caller-editable fields of a routine.
type RoutineInput struct {
	Name        string
	Description string
	Category    string
	InDraw      bool
}

// Normalize trims every text field and applies the default category.
// It returns ErrNameRequired when the trimmed name is empty.
func (in RoutineInput) Normalize() (RoutineInput, error) {
	out := RoutineInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    NormalizeCategory(in.Category),
		InDraw:      in.InDraw,
	}
	if out.Name == "" {
		return RoutineInput{}, ErrNameRequired
	}
	return out, nil
}

// NormalizeCategory trims c and maps blank values to DefaultCategory.
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultCategory
	}
	return c
}

// Eligible reports whether r can be drawn under the given category filter.
func (r Routine) Eligible(filter string) bool {
	if !r.InDraw || r.Done {
		return false
	}
	return filter == AllCategories || r.Category == filter
}

// DefaultRoutines returns the starter set used when no snapshot exists.
func DefaultRoutines() []Routine {
	return []Routine{
		{
			ID:          1,
			Name:        "Warm-up Chromatics",
			Description: "5 minutes of 1-2-3-4 chromatic patterns up and down the neck",
			Category:    "Warm-up",
			InDraw:      true,
		},
		{
			ID:          2,
			Name:        "Major Scale Positions",
			Description: "Play two-octave major scale in 5 positions with a metronome",
			Category:    "Scales",
			InDraw:      true,
		},
		{
			ID:          3,
			Name:        "Chord Changes",
			Description: "Practice G-C-D clean switches for 3 minutes",
			Category:    "Rhythm",
			InDraw:      true,
		},
	}
}
