// Package match cross-references extracted candidates against known
// assignments and applies resolved due dates in place.
package match

import (
	"time"

	"syllacal/internal/dates"
	appLog "syllacal/internal/log"
	"syllacal/internal/model"
)

// Reconciler matches assignments to candidates by name similarity.
type Reconciler struct {
	sim Similarity
	loc *time.Location
}

// NewReconciler builds a Reconciler that resolves date-only strings in loc.
// A nil similarity falls back to the lexical default.
func NewReconciler(sim Similarity, loc *time.Location) *Reconciler {
	if sim == nil {
		sim = DiceSimilarity{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Reconciler{sim: sim, loc: loc}
}

// Reconcile updates assignments in place from the best-matching candidates.
//
// Rules, in order:
//   - assignments that already carry a due instant are never touched;
//   - the best candidate is the highest-scoring one under strict >, so an
//     equal later score never displaces an earlier match;
//   - a non-positive best score leaves the assignment untouched;
//   - the candidate's description is copied only when non-empty;
//   - the candidate's due date goes through the date resolver, and an
//     unparseable date skips only that assignment's date application.
//
// Candidates are not consumed: one candidate may match several assignments.
func (r *Reconciler) Reconcile(assignments []model.Assignment, candidates []model.Candidate) {
	for i := range assignments {
		a := &assignments[i]
		if a.HasDueDate() {
			continue
		}

		best := r.bestCandidate(a.Name, candidates)
		if best == nil {
			continue
		}

		if best.Description != "" {
			a.Description = best.Description
		}
		if best.DueDate == "" {
			continue
		}

		due, err := dates.Resolve(best.DueDate, r.loc)
		if err != nil {
			appLog.Warn("candidate has unusable due date",
				"assignment", a.Name, "candidate", best.Name, "due_date", best.DueDate, "reason", err)
			continue
		}
		a.DueAt = &due
		appLog.Info("due date applied",
			"assignment", a.Name, "candidate", best.Name, "due", dates.FormatUTC(due))
	}
}

// bestCandidate folds over candidates keeping the strictly highest score.
// Nameless candidates (or a nameless assignment) can never match.
func (r *Reconciler) bestCandidate(name string, candidates []model.Candidate) *model.Candidate {
	var best *model.Candidate
	bestScore := 0.0

	for i := range candidates {
		c := &candidates[i]
		if name == "" || c.Name == "" {
			continue
		}
		score := r.sim.Score(name, c.Name)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}
