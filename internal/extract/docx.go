package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// FromDocx extracts paragraph text from a DOCX blob. The container is
// validated as a ZIP archive before any structural parse; an invalid
// container is a corrupt-document error, not a generic failure. Paragraphs
// are joined with a newline.
func FromDocx(name string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Kind: KindCorrupt, Name: name, Err: err}
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", &Error{Kind: KindCorrupt, Name: name, Err: errors.New("missing word/document.xml")}
	}

	rc, err := doc.Open()
	if err != nil {
		return "", &Error{Kind: KindCorrupt, Name: name, Err: err}
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return "", &Error{Kind: KindCorrupt, Name: name, Err: err}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs streams word/document.xml and collects the text runs of
// each <w:p> element in document order.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = inPara
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					paragraphs = append(paragraphs, current.String())
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
