package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "github.com/gardar/planscan/internal/log"
	"github.com/gardar/planscan/pkg/schedule"
)

// ICSOptions configures the iCalendar export.
type ICSOptions struct {
	Name        string // X-WR-CALNAME
	Timezone    string // Zone the event times are written in
	RepeatWeeks int    // Total weekly occurrences, 0 or 1 for none
	// Now stamps every event; time.Now when zero.
	Now time.Time
}

// ICS builds a calendar of the selected, assigned events.
func ICS(events []schedule.Event, opts ICSOptions) (*ical.Calendar, error) {
	loc, err := loadLocation(opts.Timezone)
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//planscan//planscan//FR")
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}
	if opts.Timezone != "" {
		cal.SetXWRTimezone(opts.Timezone)
	}

	for i, e := range schedule.Selected(events) {
		start, end, err := span(e, loc)
		if err != nil {
			appLog.Warn("event skipped", "title", e.Title(), "error", err)
			continue
		}

		ev := cal.AddEvent(eventUID(e, i))
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(e.Title())
		ev.SetStatus(ical.ObjectStatusConfirmed)

		rule, err := weeklyRule(start, opts.RepeatWeeks)
		if err != nil {
			return nil, err
		}
		if rule != "" {
			ev.AddRrule(rule)
		}
	}
	return cal, nil
}

// WriteICS serializes the calendar of events to w.
func WriteICS(w io.Writer, events []schedule.Event, opts ICSOptions) error {
	cal, err := ICS(events, opts)
	if err != nil {
		return err
	}
	return cal.SerializeTo(w)
}

func eventUID(e schedule.Event, i int) string {
	return fmt.Sprintf("%s-%s-%d@planscan", e.Day, e.Beg, i)
}
