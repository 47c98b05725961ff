// Package creds manages the key=value credentials file (Canvas endpoint,
// Canvas token, Gemini API key). Absence of the file is a recoverable
// condition: dependent flows abort with ErrNotConfigured and the user is
// pointed at the setup command.
package creds

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

const (
	KeyCanvasURL = "CANVAS_API_URL"
	KeyCanvasKey = "CANVAS_API_KEY"
	KeyGeminiKey = "GEMINI_API_KEY"
)

// ErrNotConfigured indicates the credentials file does not exist yet.
var ErrNotConfigured = errors.New("credentials not configured")

// Credentials holds the three secrets the pipeline depends on.
type Credentials struct {
	CanvasURL string
	CanvasKey string
	GeminiKey string
}

var apiSuffixRe = regexp.MustCompile(`(?i)/api/v1/?$`)

// NormalizeCanvasURL strips a trailing /api/v1 and any trailing slash from
// a user-entered Canvas base URL.
func NormalizeCanvasURL(raw string) string {
	return strings.TrimRight(apiSuffixRe.ReplaceAllString(strings.TrimSpace(raw), ""), "/")
}

// Load reads credentials from the env file at path.
func Load(path string) (Credentials, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, ErrNotConfigured
		}
		return Credentials{}, err
	}

	vals, err := godotenv.Read(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read env file: %w", err)
	}

	c := Credentials{
		CanvasURL: vals[KeyCanvasURL],
		CanvasKey: vals[KeyCanvasKey],
		GeminiKey: vals[KeyGeminiKey],
	}
	if c.CanvasURL == "" || c.CanvasKey == "" || c.GeminiKey == "" {
		return c, fmt.Errorf("%w: env file %s is missing one of %s, %s, %s",
			ErrNotConfigured, path, KeyCanvasURL, KeyCanvasKey, KeyGeminiKey)
	}
	return c, nil
}

// Save writes credentials to the env file at path with 0600 permissions.
func Save(path string, c Credentials) error {
	vals := map[string]string{
		KeyCanvasURL: NormalizeCanvasURL(c.CanvasURL),
		KeyCanvasKey: strings.TrimSpace(c.CanvasKey),
		KeyGeminiKey: strings.TrimSpace(c.GeminiKey),
	}
	if err := godotenv.Write(vals, path); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// Delete removes the env file. Deleting a file that does not exist is an
// error so the caller can tell the user nothing was stored.
func Delete(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotConfigured
		}
		return err
	}
	return os.Remove(path)
}

// Prompt interactively collects credentials from in and saves them to path.
func Prompt(in *bufio.Reader, out io.Writer, path string) error {
	fmt.Fprintln(out, "Canvas API URL is typically https://<domain>.instructure.com (no /api/v1).")
	fmt.Fprintln(out, "Canvas token: Account > Settings > New Access Token.")
	fmt.Fprintln(out, "Gemini API key: https://aistudio.google.com/apikey")
	fmt.Fprintln(out)

	url, err := ask(in, out, "Canvas API URL: ")
	if err != nil {
		return err
	}
	clean := NormalizeCanvasURL(url)
	if clean != strings.TrimSpace(url) {
		fmt.Fprintf(out, "Stripped '/api/v1' from the URL: %s\n", clean)
	}

	key, err := ask(in, out, "Canvas API key: ")
	if err != nil {
		return err
	}
	gemini, err := ask(in, out, "Gemini API key: ")
	if err != nil {
		return err
	}

	c := Credentials{CanvasURL: clean, CanvasKey: key, GeminiKey: gemini}
	if err := Save(path, c); err != nil {
		return err
	}
	fmt.Fprintf(out, "Credentials saved to %s\n", path)
	return nil
}

func ask(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
