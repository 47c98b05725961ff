// Package parse turns a gathered text corpus into structured assignment
// candidates using the Gemini API. The backend's output is treated as
// untrusted: anything that does not decode as the expected JSON array
// degrades to zero candidates so the pipeline can continue with whatever
// due dates are already known.
package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	appLog "syllacal/internal/log"
	"syllacal/internal/model"
)

const promptTemplate = `Extract assignment details from the course material below. Return a JSON array:
[
  { "name": <string>, "due_date": <YYYY-MM-DD>, "description": <string>, "points": <string> },
  ...
]
Only include items that clearly have a date.

TEXT:
%s`

// generator abstracts the text-generation backend so tests can stub it.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor sends one corpus per call to the extraction backend and decodes
// its response.
type Extractor struct {
	gen generator
}

// NewExtractor builds an Extractor over the Gemini API.
func NewExtractor(ctx context.Context, apiKey, model string) (*Extractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Extractor{gen: &geminiGenerator{client: client, model: model}}, nil
}

// Extract parses assignment candidates out of the corpus. The caller must
// not invoke it with an empty corpus. Backend or decode failures yield an
// empty slice, never an error: partial data keeps the pipeline usable.
func (e *Extractor) Extract(ctx context.Context, corpus string) []model.Candidate {
	raw, err := e.gen.Generate(ctx, fmt.Sprintf(promptTemplate, corpus))
	if err != nil {
		appLog.Warn("extraction backend call failed", "reason", err)
		return nil
	}

	candidates, err := decodeCandidates(raw)
	if err != nil {
		appLog.Warn("extraction response did not decode", "reason", err)
		return nil
	}
	appLog.Info("extraction complete", "candidates", len(candidates))
	return candidates
}

// decodeCandidates parses the backend response, tolerating markdown fences
// and loosely-typed fields (a numeric "points", a missing "description").
func decodeCandidates(raw string) ([]model.Candidate, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	// Strict decode first: the instructed shape.
	var strict []model.Candidate
	if err := json.Unmarshal([]byte(cleaned), &strict); err == nil {
		return strict, nil
	}

	// Tolerant pass: accept any array of objects and coerce field values.
	var loose []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &loose); err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(loose))
	for _, item := range loose {
		candidates = append(candidates, model.Candidate{
			Name:        asString(item["name"]),
			DueDate:     asString(item["due_date"]),
			Description: asString(item["description"]),
			Points:      asString(item["points"]),
		})
	}
	return candidates, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// Drop a trailing .0 so "10" round-trips as "10".
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, that models sometimes wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// geminiGenerator is the production generator over google.golang.org/genai.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
