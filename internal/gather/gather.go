// Package gather builds one text corpus per course by walking material
// sources in priority order: inline syllabus body, landing page, course
// files, module-linked files. Individual source failures are logged and
// skipped; only the ordering and join rules are strict so that identical
// source content always yields an identical corpus.
package gather

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"syllacal/internal/canvas"
	"syllacal/internal/extract"
	appLog "syllacal/internal/log"
	"syllacal/internal/model"
)

// errRetriesExhausted marks a source that stayed unavailable through every
// retry attempt.
var errRetriesExhausted = errors.New("retries exhausted")

// Backend is the slice of the course backend the cascade needs.
type Backend interface {
	GetFrontPage(ctx context.Context, courseID int64) (string, error)
	ListFiles(ctx context.Context, courseID int64) ([]canvas.File, error)
	ListModules(ctx context.Context, courseID int64) ([]canvas.Module, error)
	ListModuleItems(ctx context.Context, courseID, moduleID int64) ([]canvas.ModuleItem, error)
	GetFile(ctx context.Context, courseID, fileID int64) (canvas.File, error)
	Download(ctx context.Context, f canvas.File) ([]byte, error)
}

// Options tune the cascade. Zero values are replaced by defaults matching
// internal/config.
type Options struct {
	// Retries is the attempt count for each file download+extract.
	Retries int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
	// Extensions are the text-bearing filename suffixes, lowercase.
	Extensions []string
	// SyllabusKeywords spot syllabus-like file names and module titles.
	SyllabusKeywords []string
	// FilterModulesByKeyword restricts the module sweep to modules whose
	// name contains a syllabus keyword.
	FilterModulesByKeyword bool
	// ShortCircuitInline stops the cascade when the inline course
	// description is non-blank. Inline text is never displaced by weaker
	// sources either way.
	ShortCircuitInline bool
	// WorkDir is where downloaded files are written under their source
	// filename before extraction.
	WorkDir string
}

func (o *Options) normalize() {
	if o.Retries <= 0 {
		o.Retries = 3
	}
	if o.Delay <= 0 {
		o.Delay = 2 * time.Second
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{".txt", ".pdf", ".docx"}
	}
	if len(o.SyllabusKeywords) == 0 {
		o.SyllabusKeywords = []string{"syllabus"}
	}
	if o.WorkDir == "" {
		o.WorkDir = "."
	}
}

// Gatherer walks material sources for one course at a time.
type Gatherer struct {
	backend Backend
	opts    Options
}

// NewGatherer creates a Gatherer over the given backend.
func NewGatherer(backend Backend, opts Options) *Gatherer {
	opts.normalize()
	return &Gatherer{backend: backend, opts: opts}
}

// Corpus builds the combined plain-text material for a course. Non-empty
// fragments are joined with a blank-line separator in source order. An empty
// result is a valid terminal state meaning "nothing to extract from".
func (g *Gatherer) Corpus(ctx context.Context, course model.Course) string {
	// Stage 1: inline course description. When present it is authoritative;
	// with the short-circuit policy on it is also the entire corpus.
	inline := extract.FromHTML([]byte(course.SyllabusBody))
	if inline != "" && g.opts.ShortCircuitInline {
		appLog.Info("using inline syllabus body", "course", course.Name)
		return inline
	}

	fragments := make([]string, 0, 4)
	if inline != "" {
		fragments = append(fragments, inline)
	}

	// Stage 2: landing page.
	if text := g.frontPageText(ctx, course); text != "" {
		fragments = append(fragments, text)
	}

	// Stage 3: course files with recognized extensions.
	fragments = append(fragments, g.fileTexts(ctx, course)...)

	// Stage 4: module-linked files passing the same filter.
	fragments = append(fragments, g.moduleTexts(ctx, course)...)

	return joinFragments(fragments)
}

func (g *Gatherer) frontPageText(ctx context.Context, course model.Course) string {
	body, err := g.backend.GetFrontPage(ctx, course.ID)
	if err != nil {
		if canvas.IsNotFound(err) {
			appLog.Debug("course has no front page", "course", course.Name)
		} else {
			appLog.Warn("front page unavailable", "course", course.Name, "reason", err)
		}
		return ""
	}
	return extract.FromHTML([]byte(body))
}

func (g *Gatherer) fileTexts(ctx context.Context, course model.Course) []string {
	files, err := g.backend.ListFiles(ctx, course.ID)
	if err != nil {
		appLog.Warn("course files unavailable", "course", course.Name, "reason", err)
		return nil
	}

	var texts []string
	for _, f := range files {
		if !g.relevantName(f.Name()) {
			continue
		}
		if text := g.downloadAndExtract(ctx, f); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

func (g *Gatherer) moduleTexts(ctx context.Context, course model.Course) []string {
	modules, err := g.backend.ListModules(ctx, course.ID)
	if err != nil {
		appLog.Warn("course modules unavailable", "course", course.Name, "reason", err)
		return nil
	}

	var texts []string
	for _, mod := range modules {
		if g.opts.FilterModulesByKeyword && !g.syllabusLike(mod.Name) {
			continue
		}
		items, err := g.backend.ListModuleItems(ctx, course.ID, mod.ID)
		if err != nil {
			appLog.Warn("module items unavailable", "module", mod.Name, "reason", err)
			continue
		}
		for _, it := range items {
			if it.Type != "File" {
				continue
			}
			f, err := g.backend.GetFile(ctx, course.ID, it.ContentID)
			if err != nil {
				appLog.Warn("module file unavailable", "item", it.Title, "reason", err)
				continue
			}
			if !g.relevantName(f.Name()) {
				continue
			}
			if text := g.downloadAndExtract(ctx, f); text != "" {
				texts = append(texts, text)
			}
		}
	}
	return texts
}

// downloadAndExtract fetches one file with bounded retries and returns its
// extracted text. A persistent failure contributes nothing; the cascade
// continues with the next source.
func (g *Gatherer) downloadAndExtract(ctx context.Context, f canvas.File) string {
	for attempt := 1; attempt <= g.opts.Retries; attempt++ {
		appLog.Info("downloading file", "file", f.Name(), "attempt", attempt)

		text, err := g.tryOne(ctx, f)
		if err == nil {
			return text
		}

		appLog.Warn("download/extract failed", "file", f.Name(), "attempt", attempt, "reason", err)
		if attempt < g.opts.Retries {
			if !sleepCtx(ctx, g.opts.Delay) {
				return ""
			}
		}
	}
	appLog.Error("giving up on file", errRetriesExhausted, "file", f.Name(), "attempts", g.opts.Retries)
	return ""
}

func (g *Gatherer) tryOne(ctx context.Context, f canvas.File) (string, error) {
	data, err := g.backend.Download(ctx, f)
	if err != nil {
		return "", err
	}

	// Keep a local copy under the source filename, as the manual workflow
	// expects to find downloads next to the generated calendar.
	local := filepath.Join(g.opts.WorkDir, filepath.Base(f.Name()))
	if werr := os.WriteFile(local, data, 0o644); werr != nil {
		appLog.Warn("could not keep local copy", "file", f.Name(), "reason", werr)
	}

	return extract.Text(f.Name(), data)
}

func (g *Gatherer) relevantName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range g.opts.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (g *Gatherer) syllabusLike(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range g.opts.SyllabusKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FindSyllabusDoc locates the syllabus-labeled document for the
// supplementary sweep: first course file whose name contains a syllabus
// keyword, else the first module file item with a keyword in its title.
// Absence is not an error.
func (g *Gatherer) FindSyllabusDoc(ctx context.Context, course model.Course) (canvas.File, bool) {
	files, err := g.backend.ListFiles(ctx, course.ID)
	if err != nil {
		appLog.Warn("syllabus search: files unavailable", "course", course.Name, "reason", err)
	} else {
		for _, f := range files {
			if g.syllabusLike(f.Name()) {
				return f, true
			}
		}
	}

	modules, err := g.backend.ListModules(ctx, course.ID)
	if err != nil {
		appLog.Warn("syllabus search: modules unavailable", "course", course.Name, "reason", err)
		return canvas.File{}, false
	}
	for _, mod := range modules {
		items, err := g.backend.ListModuleItems(ctx, course.ID, mod.ID)
		if err != nil {
			appLog.Warn("syllabus search: module items unavailable", "module", mod.Name, "reason", err)
			continue
		}
		for _, it := range items {
			if it.Type != "File" || !g.syllabusLike(it.Title) {
				continue
			}
			f, err := g.backend.GetFile(ctx, course.ID, it.ContentID)
			if err != nil {
				appLog.Warn("syllabus search: module file unavailable", "item", it.Title, "reason", err)
				continue
			}
			return f, true
		}
	}
	return canvas.File{}, false
}

// SyllabusText downloads and extracts the located syllabus document with
// the same retry policy as the cascade.
func (g *Gatherer) SyllabusText(ctx context.Context, f canvas.File) string {
	if !g.relevantName(f.Name()) {
		appLog.Warn("syllabus document has unsupported format", "file", f.Name())
		return ""
	}
	return g.downloadAndExtract(ctx, f)
}

func joinFragments(fragments []string) string {
	nonEmpty := fragments[:0]
	for _, f := range fragments {
		if strings.TrimSpace(f) != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

// sleepCtx pauses for d unless ctx is canceled first. Returns false on
// cancellation so retry loops can stop promptly.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
