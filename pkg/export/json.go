package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gardar/planscan/pkg/schedule"
)

// WriteEvents writes events as an indented JSON array.
func WriteEvents(w io.Writer, events []schedule.Event) error {
	if events == nil {
		events = []schedule.Event{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(events)
}

// ReadEvents reads a JSON array written by WriteEvents.
func ReadEvents(r io.Reader) ([]schedule.Event, error) {
	var events []schedule.Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// SaveEvents writes the events file at path.
func SaveEvents(path string, events []schedule.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create events file: %w", err)
	}
	if err := WriteEvents(f, events); err != nil {
		f.Close()
		return fmt.Errorf("failed to write events file: %w", err)
	}
	return f.Close()
}

// LoadEvents reads the events file at path.
func LoadEvents(path string) ([]schedule.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()
	return ReadEvents(f)
}
