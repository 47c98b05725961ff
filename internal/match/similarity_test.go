package match

import "testing"

func TestDiceSimilarityBounds(t *testing.T) {
	sim := DiceSimilarity{}
	pairs := [][2]string{
		{"Assignment 1", "Assignment 2"},
		{"Project", "Final Project"},
		{"Homework 3", "Quiz 1"},
		{"", "Anything"},
		{"x", "y"},
	}
	for _, p := range pairs {
		score := sim.Score(p[0], p[1])
		if score < 0 || score > 1 {
			t.Errorf("Score(%q, %q) = %f, out of [0,1]", p[0], p[1], score)
		}
	}
}

func TestDiceSimilaritySymmetric(t *testing.T) {
	sim := DiceSimilarity{}
	a, b := "Midterm Essay", "Essay (midterm)"
	if sim.Score(a, b) != sim.Score(b, a) {
		t.Errorf("Score is not symmetric for %q / %q", a, b)
	}
}

func TestDiceSimilarityExactMatch(t *testing.T) {
	sim := DiceSimilarity{}
	if got := sim.Score("Project", "Project"); got != 1 {
		t.Errorf("exact match scored %f, want 1", got)
	}
	// Case and whitespace folding still count as exact.
	if got := sim.Score("Project  One", "project one"); got != 1 {
		t.Errorf("folded match scored %f, want 1", got)
	}
}

func TestDiceSimilarityOrdering(t *testing.T) {
	sim := DiceSimilarity{}
	target := "Assignment 1"
	close := sim.Score(target, "Assignment 1 - Intro")
	far := sim.Score(target, "Final Exam")
	if close <= far {
		t.Errorf("expected %q to score closer than %q (%f vs %f)", "Assignment 1 - Intro", "Final Exam", close, far)
	}
}

func TestDiceSimilarityEmptyNames(t *testing.T) {
	sim := DiceSimilarity{}
	if got := sim.Score("", ""); got != 0 {
		t.Errorf("empty names scored %f, want 0", got)
	}
}
