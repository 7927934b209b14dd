// Package export writes reviewed events to files and calendars.
//
// Only events flagged for export are written. Events no column claimed
// cannot be placed in time: the file exporters skip them and the Google
// Calendar exporter reports them as failed.
//
// Formats:
//
// - JSON: the editable events file, also the input of the push command
// - iCalendar: a PUBLISH calendar, optionally repeated weekly
// - XLSX: one row per event on the "Events" sheet
// - Google Calendar: inserted through the Calendar API
package export

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/teambition/rrule-go"

	"github.com/gardar/planscan/pkg/schedule"
)

// ErrUnassigned is reported for a selected event that has no day.
var ErrUnassigned = errors.New("event has no day")

const localLayout = "2006-01-02T15:04"

// span returns the start and end of an event in loc.
// An end before the start is moved to the next day.
func span(e schedule.Event, loc *time.Location) (time.Time, time.Time, error) {
	if !e.Assigned() {
		return time.Time{}, time.Time{}, fmt.Errorf("%q: %w", e.Title(), ErrUnassigned)
	}
	start, err := time.ParseInLocation(localLayout, e.Day+"T"+e.Beg, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start of %q: %w", e.Title(), err)
	}
	end, err := time.ParseInLocation(localLayout, e.Day+"T"+e.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end of %q: %w", e.Title(), err)
	}
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// weeklyRule returns the RRULE value repeating an event weeks times in
// total, or "" when it happens once.
func weeklyRule(start time.Time, weeks int) (string, error) {
	if weeks <= 1 {
		return "", nil
	}
	r, err := rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Count: weeks, Dtstart: start})
	if err != nil {
		return "", fmt.Errorf("failed to build weekly rule: %w", err)
	}
	return r.OrigOptions.RRuleString(), nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}
