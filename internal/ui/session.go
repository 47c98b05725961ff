// Package ui holds the interactive console session. All prompts go through
// an explicit Session value (no process-global console state), so tests can
// drive the flow with scripted input.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"syllacal/internal/dates"
	"syllacal/internal/model"
)

// Session is the per-run console state: input, output and the local
// timezone chosen for this session.
type Session struct {
	in  *bufio.Reader
	out io.Writer

	// Location is the session's local display timezone.
	Location *time.Location
}

// NewSession wraps the given streams. Location defaults to UTC until
// PromptTimezone (or the caller) sets it.
func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{
		in:       bufio.NewReader(in),
		out:      out,
		Location: time.UTC,
	}
}

// Printf writes formatted output to the session console.
func (s *Session) Printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// ReadLine reads one trimmed line, showing prompt first.
func (s *Session) ReadLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptTimezone asks for an IANA timezone name. Blank input keeps the
// current session location (the configured default); an unknown name is
// re-prompted.
func (s *Session) PromptTimezone() error {
	for {
		s.Printf("Enter local time zone (e.g. America/New_York, UTC, Europe/London)\n")
		name, err := s.ReadLine(fmt.Sprintf("Time Zone [%s]: ", s.Location))
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			s.Printf("Unknown time zone %q, try again.\n", name)
			continue
		}
		s.Location = loc
		return nil
	}
}

// PickCourse shows a numbered course table and reads a selection. Returns
// (nil, nil) when the user enters 0 to exit.
func (s *Session) PickCourse(courses []model.Course) (*model.Course, error) {
	s.Printf("\nYour courses:\n")
	for i, c := range courses {
		s.Printf("  %2d) %s (id %d)\n", i+1, c.Name, c.ID)
	}

	for {
		pick, err := s.ReadLine("\nPick a course number or 0 to exit: ")
		if err != nil {
			return nil, err
		}
		idx, err := strconv.Atoi(pick)
		if err != nil {
			s.Printf("Please enter a number.\n")
			continue
		}
		if idx == 0 {
			return nil, nil
		}
		if idx < 1 || idx > len(courses) {
			s.Printf("Invalid selection.\n")
			continue
		}
		return &courses[idx-1], nil
	}
}

// Confirm asks a yes/no question; only an explicit 'y' answers true.
func (s *Session) Confirm(prompt string) (bool, error) {
	answer, err := s.ReadLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

// ManualDates walks assignments still missing due dates and lets the user
// type them in. Blank date input skips an assignment; out-of-range hour or
// minute values re-prompt; blank hour/minute accept the 23:59 default.
func (s *Session) ManualDates(assignments []model.Assignment) []model.Assignment {
	for i := range assignments {
		a := &assignments[i]
		if a.HasDueDate() {
			continue
		}

		for {
			dateStr, err := s.ReadLine(fmt.Sprintf("Enter due date for %q (YYYY-MM-DD or blank to skip): ", a.Name))
			if err != nil || dateStr == "" {
				break
			}

			hour, minute, ok := s.promptClock()
			if !ok {
				s.Printf("Invalid hour/minute.\n")
				continue
			}

			due, err := dates.ResolveAt(dateStr, s.Location, hour, minute)
			if err != nil {
				s.Printf("Invalid date format.\n")
				continue
			}

			a.DueAt = &due
			s.Printf("Due date set for %q.\n", a.Name)
			break
		}
	}
	return assignments
}

// promptClock reads hour and minute overrides. Blank input accepts the
// defaults; a non-numeric or out-of-range value fails the attempt.
func (s *Session) promptClock() (hour, minute int, ok bool) {
	hour, minute = 23, 59

	hrStr, err := s.ReadLine("Hour [0-23, default 23]: ")
	if err != nil {
		return 0, 0, false
	}
	if hrStr != "" {
		hour, err = strconv.Atoi(hrStr)
		if err != nil || hour < 0 || hour > 23 {
			return 0, 0, false
		}
	}

	mnStr, err := s.ReadLine("Minute [0-59, default 59]: ")
	if err != nil {
		return 0, 0, false
	}
	if mnStr != "" {
		minute, err = strconv.Atoi(mnStr)
		if err != nil || minute < 0 || minute > 59 {
			return 0, 0, false
		}
	}
	return hour, minute, true
}
