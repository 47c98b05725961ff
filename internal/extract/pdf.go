package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	appLog "syllacal/internal/log"
)

// FromPDF extracts per-page text from a PDF blob and joins pages with a
// newline. A page that yields no text contributes an empty string; only a
// document that cannot be opened at all is reported as corrupt.
func FromPDF(name string, data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs; a broken document is
	// a corrupt-document error like any other.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &Error{Kind: KindCorrupt, Name: name, Err: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Kind: KindCorrupt, Name: name, Err: err}
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			appLog.Warn("pdf page yielded no text", "file", name, "page", i, "reason", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}
