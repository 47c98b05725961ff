package model

import "time"

// Course is the subset of course metadata this pipeline cares about.
type Course struct {
	ID   int64
	Name string

	// SyllabusBody is the inline course description (HTML). When non-blank
	// it is the highest-priority material source.
	SyllabusBody string
}

// Assignment is a known assignment from the course backend. The pipeline
// enriches it in place; it is never deleted here.
type Assignment struct {
	ID   int64
	Name string

	// DueAt is the resolved due instant, always UTC. Nil means no due date
	// is known yet. Once set by any stage it is never overwritten by a
	// lower-priority stage.
	DueAt *time.Time

	Description string
}

// HasDueDate reports whether the assignment already carries a due instant.
func (a *Assignment) HasDueDate() bool {
	return a.DueAt != nil && !a.DueAt.IsZero()
}

// Candidate is an unverified assignment-like record extracted from gathered
// course text. It lives only for the duration of one reconciliation pass.
type Candidate struct {
	Name        string `json:"name"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
	Points      string `json:"points"`
}

// Usable reports whether the candidate can affect any assignment at all.
// Records without a name cannot match; records without a date cannot
// resolve to an instant.
func (c Candidate) Usable() bool {
	return c.Name != "" && c.DueDate != ""
}
