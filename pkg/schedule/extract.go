package schedule

import (
	"regexp"

	"github.com/gardar/planscan/pkg/layout"
)

var timeRangePattern = regexp.MustCompile(`\d{2}:\d{2} - \d{2}:\d{2}`)

// IsEvent reports whether a block's text contains a time range.
func IsEvent(text string) bool {
	return timeRangePattern.MatchString(text)
}

// ExtractEvents builds an event from every block containing a time range,
// assigns its day from week and splits its text into times and title.
// Events keep the order of their blocks.
func ExtractEvents(blocks []layout.Fragment, week Week) []Event {
	var events []Event
	for _, b := range blocks {
		if !IsEvent(b.Text) {
			continue
		}
		e := NewEvent(b.Text, b.Box)
		e.AssignDay(week)
		e.SplitName()
		events = append(events, e)
	}
	return events
}
