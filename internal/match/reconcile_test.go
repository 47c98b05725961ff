package match

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appLog "syllacal/internal/log"
	"syllacal/internal/model"
)

func TestMain(m *testing.M) {
	appLog.SetOutput(io.Discard)
	m.Run()
}

func ts(t *testing.T, s string) *time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	v = v.UTC()
	return &v
}

func TestReconcileSkipsDatedAssignments(t *testing.T) {
	r := NewReconciler(nil, time.UTC)

	existing := ts(t, "2025-01-15T10:00:00Z")
	assignments := []model.Assignment{
		{Name: "Project", DueAt: existing, Description: "original"},
	}
	candidates := []model.Candidate{
		{Name: "Project", DueDate: "2025-10-05", Description: "replacement"},
	}

	r.Reconcile(assignments, candidates)

	assert.True(t, assignments[0].DueAt.Equal(*existing), "due instant must not change")
	assert.Equal(t, "original", assignments[0].Description, "description must not change")
}

func TestReconcileAppliesBestCandidate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	r := NewReconciler(nil, ny)

	assignments := []model.Assignment{
		{Name: "Project"},
	}
	candidates := []model.Candidate{
		{Name: "Project", DueDate: "2025-10-05", Description: "", Points: "10"},
	}

	r.Reconcile(assignments, candidates)

	require.NotNil(t, assignments[0].DueAt)
	// 2025-10-05 23:59 New York = 2025-10-06 03:59 UTC (DST).
	want := time.Date(2025, 10, 6, 3, 59, 0, 0, time.UTC)
	assert.True(t, assignments[0].DueAt.Equal(want), "got %s", assignments[0].DueAt)
	// Empty candidate description never overwrites.
	assert.Equal(t, "", assignments[0].Description)
}

func TestReconcileStrictGreaterTieBreak(t *testing.T) {
	r := NewReconciler(nil, time.UTC)

	assignments := []model.Assignment{{Name: "Essay"}}
	// Both candidates score identically against "Essay"; the earlier one
	// must win because a later equal score never displaces the best.
	candidates := []model.Candidate{
		{Name: "Essay", DueDate: "2025-03-01"},
		{Name: "Essay", DueDate: "2025-04-01"},
	}

	r.Reconcile(assignments, candidates)

	require.NotNil(t, assignments[0].DueAt)
	assert.Equal(t, time.March, assignments[0].DueAt.Month())
}

func TestReconcileNoUsableCandidates(t *testing.T) {
	r := NewReconciler(nil, time.UTC)

	assignments := []model.Assignment{
		{Name: "Lab Report"},
		{Name: ""},
	}
	candidates := []model.Candidate{
		{Name: "", DueDate: "2025-05-01", Description: "nameless"},
	}

	r.Reconcile(assignments, candidates)

	for i := range assignments {
		assert.Nil(t, assignments[i].DueAt, "assignment %d must stay untouched", i)
		assert.Equal(t, "", assignments[i].Description)
	}
}

func TestReconcileInvalidDateSkipsDateOnly(t *testing.T) {
	r := NewReconciler(nil, time.UTC)

	assignments := []model.Assignment{{Name: "Quiz 1"}}
	candidates := []model.Candidate{
		{Name: "Quiz 1", DueDate: "sometime soon", Description: "weekly quiz"},
	}

	r.Reconcile(assignments, candidates)

	assert.Nil(t, assignments[0].DueAt, "unparseable date must not set an instant")
	assert.Equal(t, "weekly quiz", assignments[0].Description, "description still applies")
}

func TestReconcileCandidateReuse(t *testing.T) {
	r := NewReconciler(nil, time.UTC)

	assignments := []model.Assignment{
		{Name: "Reading Response"},
		{Name: "Reading Response Draft"},
	}
	candidates := []model.Candidate{
		{Name: "Reading Response", DueDate: "2025-02-10"},
	}

	r.Reconcile(assignments, candidates)

	// One candidate may serve several assignments; it is not consumed.
	require.NotNil(t, assignments[0].DueAt)
	require.NotNil(t, assignments[1].DueAt)
}

// The end-to-end scenario pinned by the gathering pipeline: a single
// extracted "Project" record dates the matching undated assignment.
func TestReconcileProjectScenario(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	r := NewReconciler(nil, ny)

	assignments := []model.Assignment{{Name: "Project", Description: "keep me"}}
	candidates := []model.Candidate{
		{Name: "Project", DueDate: "2025-10-05", Description: "", Points: "10"},
	}

	r.Reconcile(assignments, candidates)

	require.NotNil(t, assignments[0].DueAt)
	local := assignments[0].DueAt.In(ny)
	assert.Equal(t, "2025-10-05 23:59", local.Format("2006-01-02 15:04"))
	assert.Equal(t, "keep me", assignments[0].Description, "empty description must not overwrite")
}
