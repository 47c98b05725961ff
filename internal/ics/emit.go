// Package ics renders dated assignments into an iCalendar file. Instants
// are stored UTC-anchored throughout the pipeline; here they are converted
// once into the configured display zone and written with a TZID parameter.
package ics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "syllacal/internal/log"
	"syllacal/internal/model"
)

const (
	prodID = "-//Syllacal//EN"

	// localLayout is the ICS floating local-time format used together with
	// a TZID parameter.
	localLayout = "20060102T150405"

	eventDuration = time.Hour
)

// Emitter writes one calendar file per course.
type Emitter struct {
	loc    *time.Location
	outDir string
}

// NewEmitter creates an Emitter rendering times in loc and writing files
// under outDir.
func NewEmitter(loc *time.Location, outDir string) *Emitter {
	if loc == nil {
		loc = time.UTC
	}
	if outDir == "" {
		outDir = "."
	}
	return &Emitter{loc: loc, outDir: outDir}
}

// Build assembles the calendar for a course. Assignments without a due
// instant are silently excluded; every dated assignment becomes one event
// titled "<course> - <assignment>" lasting exactly one hour.
func (e *Emitter) Build(assignments []model.Assignment, courseName string) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetVersion("2.0")

	tzid := e.loc.String()
	for _, a := range assignments {
		if !a.HasDueDate() {
			continue
		}

		start := a.DueAt.In(e.loc)
		end := start.Add(eventDuration)

		ev := cal.AddEvent(fmt.Sprintf("assignment-%d@syllacal", a.ID))
		ev.SetSummary(fmt.Sprintf("%s - %s", courseName, a.Name))
		ev.SetDescription(a.Description)
		ev.SetDtStampTime(time.Now().UTC())
		ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(localLayout),
			&ical.KeyValues{Key: "TZID", Value: []string{tzid}})
		ev.SetProperty(ical.ComponentPropertyDtEnd, end.Format(localLayout),
			&ical.KeyValues{Key: "TZID", Value: []string{tzid}})
	}
	return cal
}

// Write builds and saves the course calendar, returning the file path and
// the number of events written. An existing file is silently overwritten.
func (e *Emitter) Write(assignments []model.Assignment, courseName string) (string, int, error) {
	cal := e.Build(assignments, courseName)
	events := len(cal.Events())

	path := filepath.Join(e.outDir, Filename(courseName))
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return "", 0, fmt.Errorf("write calendar %s: %w", path, err)
	}

	appLog.Info("calendar written", "path", path, "events", events)
	return path, events, nil
}

// Filename derives the calendar file name from the course name: spaces
// become underscores and the fixed suffix is appended.
func Filename(courseName string) string {
	return strings.ReplaceAll(courseName, " ", "_") + "_calendar.ics"
}
