package parse

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appLog "syllacal/internal/log"
)

func TestMain(m *testing.M) {
	appLog.SetOutput(io.Discard)
	m.Run()
}

type stubGenerator struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.response, s.err
}

func TestExtractWellFormedResponse(t *testing.T) {
	stub := &stubGenerator{
		response: `[{"name":"Project","due_date":"2025-10-05","description":"","points":"10"}]`,
	}
	e := &Extractor{gen: stub}

	got := e.Extract(context.Background(), "Project due 2025-10-05")

	require.Len(t, got, 1)
	assert.Equal(t, "Project", got[0].Name)
	assert.Equal(t, "2025-10-05", got[0].DueDate)
	assert.Equal(t, "10", got[0].Points)
	assert.Contains(t, stub.prompt, "Project due 2025-10-05", "the corpus is embedded in the prompt")
	assert.Contains(t, stub.prompt, "clearly have a date", "the backend is told to drop ambiguous items")
}

func TestExtractMarkdownFencedResponse(t *testing.T) {
	stub := &stubGenerator{
		response: "```json\n[{\"name\":\"Quiz 1\",\"due_date\":\"2025-09-12\"}]\n```",
	}
	e := &Extractor{gen: stub}

	got := e.Extract(context.Background(), "corpus")
	require.Len(t, got, 1)
	assert.Equal(t, "Quiz 1", got[0].Name)
}

func TestExtractNumericPoints(t *testing.T) {
	// Some responses use a bare number for points despite the instructions.
	stub := &stubGenerator{
		response: `[{"name":"Lab","due_date":"2025-09-20","points":25}]`,
	}
	e := &Extractor{gen: stub}

	got := e.Extract(context.Background(), "corpus")
	require.Len(t, got, 1)
	assert.Equal(t, "25", got[0].Points)
}

func TestExtractBackendFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("backend unreachable")}
	e := &Extractor{gen: stub}

	got := e.Extract(context.Background(), "corpus")
	assert.Empty(t, got, "backend failure degrades to zero candidates")
}

func TestExtractMalformedResponse(t *testing.T) {
	stub := &stubGenerator{response: "I could not find any assignments, sorry!"}
	e := &Extractor{gen: stub}

	got := e.Extract(context.Background(), "corpus")
	assert.Empty(t, got, "non-JSON output degrades to zero candidates")
}

func TestExtractNoRetry(t *testing.T) {
	stub := &stubGenerator{err: errors.New("boom")}
	e := &Extractor{gen: stub}

	e.Extract(context.Background(), "corpus")
	assert.Equal(t, 1, stub.calls, "no automatic retry at this layer")
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"[]":                      "[]",
		"```json\n[]\n```":        "[]",
		"```\n[1]\n```":           "[1]",
		"  ```json\n[\n1\n]\n``` ": "[\n1\n]",
	}
	for in, want := range cases {
		assert.Equal(t, want, stripFences(in), "input %q", in)
	}
}

func TestNewExtractorRequiresKey(t *testing.T) {
	_, err := NewExtractor(context.Background(), "", "gemini-2.0-flash")
	assert.Error(t, err)
}
