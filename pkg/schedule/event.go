package schedule

import (
	"sort"
	"strings"

	"github.com/gardar/planscan/pkg/layout"
)

// UnassignedDay is the Day of an event that no column claimed.
const UnassignedDay = ""

// Event is a scheduled activity read from the planning.
type Event struct {
	Name string     `json:"name"`
	Day  string     `json:"day"` // YYYY-MM-DD, UnassignedDay until resolved
	Beg  string     `json:"beg"` // HH:MM
	End  string     `json:"end"` // HH:MM
	Box  layout.Box `json:"box"`
	Flag bool       `json:"flag"` // Selected for export
}

// NewEvent creates a selected, unassigned event from a block's text and box.
func NewEvent(name string, box layout.Box) Event {
	return Event{Name: name, Day: UnassignedDay, Box: box, Flag: true}
}

// Assigned reports whether the event has been placed on a day.
func (e Event) Assigned() bool {
	return e.Day != UnassignedDay
}

// SetTimes stores begin and end times keeping only digits and ':'.
func (e *Event) SetTimes(beg, end string) {
	e.Beg = sanitizeTime(beg)
	e.End = sanitizeTime(end)
}

func sanitizeTime(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ':' {
			return r
		}
		return -1
	}, s)
}

// AssignDay places the event in the column whose band covers the largest
// part of its width, provided that part is more than half the width.
// Columns are tried Monday first, so an exact tie goes to the earlier day.
// Returns false when no column qualifies; the day is then left unchanged.
func (e *Event) AssignDay(week Week) bool {
	best, bestOverlap := -1, 0
	for i, d := range week {
		if !d.Found {
			continue
		}
		if ov := d.Band.Overlap(e.Box.X, e.Box.Right()); ov > bestOverlap {
			best, bestOverlap = i, ov
		}
	}
	if best < 0 || 2*bestOverlap <= e.Box.W || week[best].Date == "" {
		return false
	}
	e.Day = week[best].Date
	return true
}

// SplitName splits "09:00 - 09:45 Réunion équipe" into its begin time,
// end time and title. The title keeps a trailing space after every word.
func (e *Event) SplitName() {
	tokens := strings.Fields(e.Name)
	if len(tokens) < 3 {
		return
	}
	e.SetTimes(tokens[0], tokens[2])

	var title strings.Builder
	for _, tok := range tokens[3:] {
		title.WriteString(tok)
		title.WriteString(" ")
	}
	e.Name = title.String()
}

// Title returns the name without surrounding spaces.
func (e Event) Title() string {
	return strings.TrimSpace(e.Name)
}

// SortEvents orders events by day and then begin time. Unassigned events
// come first.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Day != events[j].Day {
			return events[i].Day < events[j].Day
		}
		return events[i].Beg < events[j].Beg
	})
}

// Selected returns the events flagged for export.
func Selected(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if e.Flag {
			out = append(out, e)
		}
	}
	return out
}
