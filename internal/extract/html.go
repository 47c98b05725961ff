package extract

import (
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"

	appLog "syllacal/internal/log"
)

var (
	tagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
	blankRe = regexp.MustCompile(`\n{3,}`)
)

// FromHTML turns an HTML page body (syllabus description, front page) into
// plain text. Readability extraction is tried first; when it finds nothing
// usable a plain tag-stripping pass is used instead, so a short page still
// contributes its text.
func FromHTML(data []byte) string {
	if len(strings.TrimSpace(string(data))) == 0 {
		return ""
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text
		}
	} else {
		appLog.Debug("readability extraction failed, falling back to tag strip", "reason", err)
	}

	return stripTags(string(data))
}

// stripTags is the fallback HTML-to-text pass: drop tags, decode nothing,
// collapse excess blank lines.
func stripTags(s string) string {
	s = tagRe.ReplaceAllString(s, "\n")
	s = blankRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
