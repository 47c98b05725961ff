// Package pipeline processes one course end-to-end: fetch assignments,
// gather source material, extract candidates, reconcile, optionally fill
// gaps interactively, and emit the calendar. Courses are strictly
// sequential; nothing here may terminate the session, only fail the course.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"syllacal/internal/gather"
	"syllacal/internal/ics"
	appLog "syllacal/internal/log"
	"syllacal/internal/match"
	"syllacal/internal/model"
	"syllacal/internal/ui"
)

// AssignmentLister is the slice of the course backend the pipeline itself
// needs; the gatherer carries its own backend view.
type AssignmentLister interface {
	ListAssignments(ctx context.Context, courseID int64) ([]model.Assignment, error)
}

// CandidateExtractor produces structured candidates from a corpus.
type CandidateExtractor interface {
	Extract(ctx context.Context, corpus string) []model.Candidate
}

// Pipeline wires the stages together for a single session.
type Pipeline struct {
	Backend    AssignmentLister
	Gatherer   *gather.Gatherer
	Extractor  CandidateExtractor
	Reconciler *match.Reconciler
	Emitter    *ics.Emitter
	Session    *ui.Session
	Similarity match.Similarity
}

// ProcessCourse runs all stages for one course. The returned error means
// the course could not be processed at all (no usable course data); every
// smaller failure is logged and contained.
func (p *Pipeline) ProcessCourse(ctx context.Context, course model.Course) error {
	p.Session.Printf("\nCourse: %s\n", course.Name)

	assignments, err := p.Backend.ListAssignments(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("fetch assignments for %q: %w", course.Name, err)
	}
	if len(assignments) == 0 {
		return fmt.Errorf("course %q has no assignments to process", course.Name)
	}
	p.Session.Printf("%d total assignments found.\n", len(assignments))

	corpus := p.Gatherer.Corpus(ctx, course)

	var candidates []model.Candidate
	if strings.TrimSpace(corpus) == "" {
		// Empty corpus is terminal for extraction: the backend is never
		// invoked with nothing to read.
		p.Session.Printf("No textual materials found. Skipping extraction.\n")
		appLog.Info("empty corpus, extraction skipped", "course", course.Name)
	} else {
		candidates = p.Extractor.Extract(ctx, corpus)
	}

	p.Reconciler.Reconcile(assignments, candidates)

	if missing := countMissing(assignments); missing > 0 {
		p.Session.Printf("\n%d assignments are still missing due dates.\n", missing)
		manual, err := p.Session.Confirm("Enter 'y' to type them in manually, anything else to skip: ")
		if err == nil && manual {
			p.Session.ManualDates(assignments)
		}
	}

	path, events, err := p.Emitter.Write(assignments, course.Name)
	if err != nil {
		return err
	}
	p.Session.Printf("Calendar saved as %s (%d events).\n", path, events)

	if countMissing(assignments) > 0 {
		p.syllabusSweep(ctx, course, assignments)
	}

	return nil
}

// syllabusSweep is the supplementary pass: locate a syllabus-labeled
// document and report candidate work that matches no known assignment.
// Findings are reported only; nothing is persisted back.
func (p *Pipeline) syllabusSweep(ctx context.Context, course model.Course, assignments []model.Assignment) {
	doc, found := p.Gatherer.FindSyllabusDoc(ctx, course)
	if !found {
		appLog.Info("no syllabus-labeled document found", "course", course.Name)
		return
	}

	text := p.Gatherer.SyllabusText(ctx, doc)
	if strings.TrimSpace(text) == "" {
		return
	}

	sim := p.Similarity
	if sim == nil {
		sim = match.DiceSimilarity{}
	}

	extras := 0
	for _, c := range p.Extractor.Extract(ctx, text) {
		if !c.Usable() {
			continue
		}
		if bestScore(sim, c.Name, assignments) >= 0.5 {
			continue
		}
		extras++
		p.Session.Printf("Syllabus mentions %q (due %s) which matches no known assignment.\n", c.Name, c.DueDate)
	}
	if extras > 0 {
		appLog.Info("syllabus sweep found unmatched items", "course", course.Name, "count", extras)
	}
}

func bestScore(sim match.Similarity, name string, assignments []model.Assignment) float64 {
	best := 0.0
	for _, a := range assignments {
		if s := sim.Score(name, a.Name); s > best {
			best = s
		}
	}
	return best
}

func countMissing(assignments []model.Assignment) int {
	n := 0
	for i := range assignments {
		if !assignments[i].HasDueDate() {
			n++
		}
	}
	return n
}
