// Package canvas is a minimal REST client for the Canvas LMS endpoints this
// pipeline consumes: course, assignment, page, file and module listings plus
// raw file downloads. Any transport failure is reported to the caller as a
// plain error; the cascade decides whether that means "source unavailable"
// or "course unusable".
package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appLog "syllacal/internal/log"
	"syllacal/internal/model"
)

// Client talks to a single Canvas instance with a fixed access token.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a Canvas client for the given base URL (without /api/v1)
// and access token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// File is a course file reference with enough metadata to decide relevance
// and fetch content.
type File struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Filename    string `json:"filename"`
	URL         string `json:"url"`
}

// Name returns the display name, falling back to the raw filename.
func (f File) Name() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Filename
}

// Module is a course module with a display name.
type Module struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ModuleItem is a single entry inside a module. Only items of type "File"
// can be resolved to downloadable content.
type ModuleItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	ContentID int64  `json:"content_id"`
}

type courseJSON struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SyllabusBody string `json:"syllabus_body"`
}

type assignmentJSON struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	DueAt       *time.Time `json:"due_at"`
	Description string     `json:"description"`
}

type pageJSON struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ListCourses returns the user's active courses, syllabus body included.
func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	q := url.Values{}
	q.Set("enrollment_state", "active")
	q.Add("include[]", "syllabus_body")

	raw, err := listPages[courseJSON](ctx, c, "/api/v1/courses", q)
	if err != nil {
		return nil, err
	}

	courses := make([]model.Course, 0, len(raw))
	for _, cj := range raw {
		// Courses from unpublished terms can come back without a name.
		if cj.Name == "" {
			continue
		}
		courses = append(courses, model.Course{
			ID:           cj.ID,
			Name:         cj.Name,
			SyllabusBody: cj.SyllabusBody,
		})
	}
	return courses, nil
}

// ListAssignments returns all assignments of a course. Due instants come
// back already UTC-anchored from the backend.
func (c *Client) ListAssignments(ctx context.Context, courseID int64) ([]model.Assignment, error) {
	raw, err := listPages[assignmentJSON](ctx, c, fmt.Sprintf("/api/v1/courses/%d/assignments", courseID), nil)
	if err != nil {
		return nil, err
	}

	assignments := make([]model.Assignment, 0, len(raw))
	for _, aj := range raw {
		assignments = append(assignments, model.Assignment{
			ID:          aj.ID,
			Name:        aj.Name,
			DueAt:       aj.DueAt,
			Description: aj.Description,
		})
	}
	return assignments, nil
}

// GetFrontPage returns the HTML body of the course landing page, or an
// error when the course has none.
func (c *Client) GetFrontPage(ctx context.Context, courseID int64) (string, error) {
	var page pageJSON
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/courses/%d/front_page", courseID), nil, &page); err != nil {
		return "", err
	}
	return page.Body, nil
}

// ListFiles returns all files of a course.
func (c *Client) ListFiles(ctx context.Context, courseID int64) ([]File, error) {
	return listPages[File](ctx, c, fmt.Sprintf("/api/v1/courses/%d/files", courseID), nil)
}

// ListModules returns all modules of a course.
func (c *Client) ListModules(ctx context.Context, courseID int64) ([]Module, error) {
	return listPages[Module](ctx, c, fmt.Sprintf("/api/v1/courses/%d/modules", courseID), nil)
}

// ListModuleItems returns the items of one module.
func (c *Client) ListModuleItems(ctx context.Context, courseID, moduleID int64) ([]ModuleItem, error) {
	return listPages[ModuleItem](ctx, c, fmt.Sprintf("/api/v1/courses/%d/modules/%d/items", courseID, moduleID), nil)
}

// GetFile resolves a file id (e.g. a module item's content id) to a File.
func (c *Client) GetFile(ctx context.Context, courseID, fileID int64) (File, error) {
	var f File
	err := c.getJSON(ctx, fmt.Sprintf("/api/v1/courses/%d/files/%d", courseID, fileID), nil, &f)
	return f, err
}

// Download fetches the raw bytes of a file via its download URL.
func (c *Client) Download(ctx context.Context, f File) ([]byte, error) {
	if f.URL == "" {
		return nil, fmt.Errorf("file %q has no download URL", f.Name())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %q: %s", f.Name(), resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// getJSON performs a single authenticated GET and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, into any) error {
	_, err := c.getPage(ctx, c.pageURL(path, query), into)
	return err
}

func (c *Client) pageURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// getPage fetches one URL, decodes into `into`, and returns the rel="next"
// pagination link (empty when this was the last page).
func (c *Client) getPage(ctx context.Context, pageURL string, into any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for a useful error line.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", &APIError{
			StatusCode: resp.StatusCode,
			URL:        redactURL(pageURL),
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return "", fmt.Errorf("GET %s: decode: %w", redactURL(pageURL), err)
	}
	return nextLink(resp.Header.Get("Link")), nil
}

// listPages follows Canvas Link-header pagination and accumulates every page.
func listPages[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", "100")

	var all []T
	pageURL := c.pageURL(path, query)
	for pageURL != "" {
		var page []T
		next, err := c.getPage(ctx, pageURL, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		pageURL = next
	}
	appLog.Debug("canvas list complete", "path", path, "count", len(all))
	return all, nil
}

// nextLink extracts the rel="next" URL from a Canvas Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		if !strings.Contains(section[1], `rel="next"`) {
			continue
		}
		u := strings.TrimSpace(section[0])
		u = strings.TrimPrefix(u, "<")
		u = strings.TrimSuffix(u, ">")
		return u
	}
	return ""
}

// redactURL hides query strings (tokens, signatures) when URLs are logged
// or embedded in errors.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable url)"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// APIError is a non-200 response from the backend.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// IsNotFound reports whether the error is a 404 from the backend. A missing
// front page is an expected condition, not a failure.
func IsNotFound(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}
