// Package extract converts raw document blobs into plain text. Extraction is
// best-effort: a page or paragraph yielding nothing contributes an empty
// string, and only structurally broken containers are reported as corrupt.
package extract

import (
	"fmt"
	"strings"
)

// ErrorKind classifies extraction failures.
type ErrorKind string

const (
	KindUnsupported ErrorKind = "unsupported"
	KindCorrupt     ErrorKind = "corrupt"
	KindEmpty       ErrorKind = "empty"
)

// Error is a single-document extraction failure. The cascade logs it and
// moves on to the next source.
type Error struct {
	Kind ErrorKind
	Name string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Name, e.Kind, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.Name, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Text extracts plain text from data based on the filename's extension.
// Unsupported extensions yield empty text and no error: the file simply
// contributes nothing to the corpus.
func Text(filename string, data []byte) (string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".txt"):
		return FromPlainText(data), nil
	case strings.HasSuffix(name, ".pdf"):
		return FromPDF(filename, data)
	case strings.HasSuffix(name, ".docx"):
		return FromDocx(filename, data)
	default:
		return "", nil
	}
}

// FromPlainText decodes data permissively, dropping undecodable byte
// sequences instead of failing.
func FromPlainText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}
