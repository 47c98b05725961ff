package creds

import (
	"bufio"
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCanvasURL(t *testing.T) {
	cases := map[string]string{
		"https://canvas.school.edu":              "https://canvas.school.edu",
		"https://canvas.school.edu/":             "https://canvas.school.edu",
		"https://canvas.school.edu/api/v1":       "https://canvas.school.edu",
		"https://canvas.school.edu/api/v1/":      "https://canvas.school.edu",
		"https://canvas.school.edu/API/V1":       "https://canvas.school.edu",
		"  https://canvas.school.edu/api/v1  ":   "https://canvas.school.edu",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeCanvasURL(in), "input %q", in)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	in := Credentials{
		CanvasURL: "https://canvas.school.edu/api/v1",
		CanvasKey: "canvas-token",
		GeminiKey: "gemini-key",
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://canvas.school.edu", out.CanvasURL)
	assert.Equal(t, "canvas-token", out.CanvasKey)
	assert.Equal(t, "gemini-key", out.GeminiKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestLoadIncompleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, Save(path, Credentials{CanvasURL: "https://x.edu", CanvasKey: "k"}))

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrNotConfigured), "partial credentials count as not configured")
}

func TestDeleteMissingFile(t *testing.T) {
	err := Delete(filepath.Join(t.TempDir(), "nope.env"))
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestPromptWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	input := bufio.NewReader(strings.NewReader(
		"https://canvas.school.edu/api/v1\ncanvas-token\ngemini-key\n"))
	var out bytes.Buffer

	require.NoError(t, Prompt(input, &out, path))
	assert.Contains(t, out.String(), "Stripped '/api/v1'")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://canvas.school.edu", c.CanvasURL)
}
