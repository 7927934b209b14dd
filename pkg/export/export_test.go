package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/gardar/planscan/pkg/layout"
	"github.com/gardar/planscan/pkg/schedule"
)

func sampleEvents() []schedule.Event {
	return []schedule.Event{
		{Name: "Réunion équipe ", Day: "2026-01-07", Beg: "09:00", End: "09:45", Flag: true,
			Box: layout.Box{X: 310, Y: 200, W: 138, H: 50}},
		{Name: "Boom ", Day: "2026-01-08", Beg: "10:00", End: "11:00", Flag: true},
		{Name: "Atelier ", Day: schedule.UnassignedDay, Beg: "10:00", End: "11:00", Flag: true},
		{Name: "Sport ", Day: "2026-01-09", Beg: "14:00", End: "15:30", Flag: false},
	}
}

func TestSpan(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		event     schedule.Event
		wantStart time.Time
		wantEnd   time.Time
		wantErr   error
	}{
		{
			name:      "same day",
			event:     schedule.Event{Day: "2026-01-07", Beg: "09:00", End: "09:45"},
			wantStart: time.Date(2026, 1, 7, 9, 0, 0, 0, paris),
			wantEnd:   time.Date(2026, 1, 7, 9, 45, 0, 0, paris),
		},
		{
			name:      "single digit hour",
			event:     schedule.Event{Day: "2026-01-07", Beg: "9:00", End: "10:00"},
			wantStart: time.Date(2026, 1, 7, 9, 0, 0, 0, paris),
			wantEnd:   time.Date(2026, 1, 7, 10, 0, 0, 0, paris),
		},
		{
			name:      "past midnight",
			event:     schedule.Event{Day: "2026-01-07", Beg: "22:00", End: "01:00"},
			wantStart: time.Date(2026, 1, 7, 22, 0, 0, 0, paris),
			wantEnd:   time.Date(2026, 1, 8, 1, 0, 0, 0, paris),
		},
		{
			name:    "unassigned",
			event:   schedule.Event{Beg: "09:00", End: "10:00"},
			wantErr: ErrUnassigned,
		},
		{
			name:  "garbled time",
			event: schedule.Event{Day: "2026-01-07", Beg: "", End: "10:00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := span(tt.event, paris)
			if tt.wantStart.IsZero() {
				if err == nil {
					t.Fatal("Expected an error")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("span failed: %v", err)
			}
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("span() = %v, %v; want %v, %v", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestWeeklyRule(t *testing.T) {
	start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		weeks int
		want  string
	}{
		{0, ""},
		{1, ""},
		{4, "FREQ=WEEKLY;COUNT=4"},
	}
	for _, tt := range tests {
		got, err := weeklyRule(start, tt.weeks)
		if err != nil {
			t.Fatalf("weeklyRule(%d) failed: %v", tt.weeks, err)
		}
		if got != tt.want {
			t.Errorf("weeklyRule(%d) = %q, want %q", tt.weeks, got, tt.want)
		}
	}
}

func TestSaveLoadEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.events.json")
	events := sampleEvents()

	if err := SaveEvents(path, events); err != nil {
		t.Fatalf("SaveEvents failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name": "Réunion équipe "`) {
		t.Errorf("Expected readable names in the file, got:\n%s", data)
	}

	got, err := LoadEvents(path)
	if err != nil {
		t.Fatalf("LoadEvents failed: %v", err)
	}
	if !reflect.DeepEqual(got, events) {
		t.Errorf("Expected %+v, got %+v", events, got)
	}

	if _, err := LoadEvents(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestWriteEventsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvents(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Expected an empty array, got %q", buf.String())
	}
}

func TestICS(t *testing.T) {
	var buf bytes.Buffer
	opts := ICSOptions{
		Name:        "Planning",
		Timezone:    "Europe/Paris",
		RepeatWeeks: 4,
		Now:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := WriteICS(&buf, sampleEvents(), opts); err != nil {
		t.Fatalf("WriteICS failed: %v", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("Output does not parse: %v", err)
	}
	events := cal.Events()
	// The unassigned and the unselected events are left out.
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	ev := events[0]
	if got := ev.GetProperty(ical.ComponentPropertySummary).Value; got != "Réunion équipe" {
		t.Errorf("Unexpected summary %q", got)
	}
	start, err := ev.GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt failed: %v", err)
	}
	if want := time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("Expected start %v, got %v", want, start)
	}
	if rule := ev.GetProperty(ical.ComponentPropertyRrule); rule == nil || rule.Value != "FREQ=WEEKLY;COUNT=4" {
		t.Errorf("Unexpected rule %+v", rule)
	}
	if !strings.Contains(buf.String(), "RRULE:FREQ=WEEKLY;COUNT=4") {
		t.Errorf("Expected an unescaped rule, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "X-WR-CALNAME:Planning") {
		t.Error("Expected the calendar name")
	}
}

func TestICSUnknownZone(t *testing.T) {
	if _, err := ICS(sampleEvents(), ICSOptions{Timezone: "Mars/Olympus"}); err == nil {
		t.Error("Expected an error for an unknown time zone")
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleEvents()); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Output is not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	want := [][]string{
		{"Jour", "Début", "Fin", "Titre", "Exporté"},
		{"", "10:00", "11:00", "Atelier", "non"},
		{"2026-01-07", "09:00", "09:45", "Réunion équipe", "oui"},
		{"2026-01-08", "10:00", "11:00", "Boom", "oui"},
		{"2026-01-09", "14:00", "15:30", "Sport", "non"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Expected rows %v, got %v", want, rows)
	}
}

type fakeCalendarAPI struct {
	mu       sync.Mutex
	inserted []calendar.Event
	paths    []string
}

func (f *fakeCalendarAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"id": "perso@example.com", "summary": "Perso"},
				{"id": "team@example.com"},
			},
		})
	})
	mux.HandleFunc("/calendars/", func(w http.ResponseWriter, r *http.Request) {
		var ev calendar.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			t.Errorf("Invalid request body: %v", err)
		}
		f.mu.Lock()
		f.inserted = append(f.inserted, ev)
		f.paths = append(f.paths, r.URL.Path)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if ev.Summary == "Boom" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"invalid event"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "evt1", "htmlLink": "https://calendar.example/evt1"})
	})
	return mux
}

func newTestCalendar(t *testing.T, api *fakeCalendarAPI) *GoogleCalendar {
	ts := httptest.NewServer(api.handler(t))
	t.Cleanup(ts.Close)

	g, err := NewGoogleCalendar(context.Background(), ts.Client(), "Europe/Paris", option.WithEndpoint(ts.URL+"/"))
	if err != nil {
		t.Fatalf("NewGoogleCalendar failed: %v", err)
	}
	return g
}

func TestGoogleCalendarExport(t *testing.T) {
	api := &fakeCalendarAPI{}
	g := newTestCalendar(t, api)
	g.RepeatWeeks = 2

	failed, err := g.Export(context.Background(), sampleEvents(), "primary")
	if err == nil {
		t.Fatal("Expected an error for the failed events")
	}
	if !errors.Is(err, ErrUnassigned) {
		t.Errorf("Expected ErrUnassigned among the errors, got %v", err)
	}

	var failedNames []string
	for _, e := range failed {
		failedNames = append(failedNames, e.Title())
	}
	if want := []string{"Boom", "Atelier"}; !reflect.DeepEqual(failedNames, want) {
		t.Errorf("Expected failed %v, got %v", want, failedNames)
	}

	// The unassigned and unselected events never reach the API.
	if len(api.inserted) != 2 {
		t.Fatalf("Expected 2 insert calls, got %d", len(api.inserted))
	}
	if api.paths[0] != "/calendars/primary/events" {
		t.Errorf("Unexpected path %q", api.paths[0])
	}

	ev := api.inserted[0]
	if ev.Summary != "Réunion équipe" {
		t.Errorf("Unexpected summary %q", ev.Summary)
	}
	if ev.Start.DateTime != "2026-01-07T09:00:00" || ev.Start.TimeZone != "Europe/Paris" {
		t.Errorf("Unexpected start %+v", ev.Start)
	}
	if ev.End.DateTime != "2026-01-07T09:45:00" {
		t.Errorf("Unexpected end %+v", ev.End)
	}
	if ev.Reminders == nil || !ev.Reminders.UseDefault {
		t.Error("Expected default reminders")
	}
	if !reflect.DeepEqual(ev.Recurrence, []string{"RRULE:FREQ=WEEKLY;COUNT=2"}) {
		t.Errorf("Unexpected recurrence %v", ev.Recurrence)
	}
}

func TestGoogleCalendarExportCancelled(t *testing.T) {
	api := &fakeCalendarAPI{}
	g := newTestCalendar(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failed, err := g.Export(ctx, sampleEvents(), "primary")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(failed) != 3 {
		t.Errorf("Expected every selected event to fail, got %d", len(failed))
	}
	if len(api.inserted) != 0 {
		t.Errorf("Expected no API call, got %d", len(api.inserted))
	}
}

func TestGoogleCalendarCalendars(t *testing.T) {
	g := newTestCalendar(t, &fakeCalendarAPI{})

	got, err := g.Calendars(context.Background())
	if err != nil {
		t.Fatalf("Calendars failed: %v", err)
	}
	want := []CalendarInfo{
		{ID: "perso@example.com", Name: "Perso"},
		{ID: "team@example.com", Name: "team@example.com"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

const testCredentials = `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"secret",` +
	`"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",` +
	`"redirect_uris":["urn:ietf:wg:oauth:2.0:oob"]}}`

func TestAuthorize(t *testing.T) {
	dir := t.TempDir()
	creds := filepath.Join(dir, "credentials.json")
	token := filepath.Join(dir, "token.json")
	if err := os.WriteFile(creds, []byte(testCredentials), 0600); err != nil {
		t.Fatal(err)
	}

	t.Run("missing credentials", func(t *testing.T) {
		_, err := Authorize(context.Background(), filepath.Join(dir, "nope.json"), token, strings.NewReader(""), &bytes.Buffer{})
		if err == nil {
			t.Error("Expected an error")
		}
	})

	t.Run("no code given", func(t *testing.T) {
		var out bytes.Buffer
		_, err := Authorize(context.Background(), creds, token, strings.NewReader(""), &out)
		if err == nil {
			t.Error("Expected an error without an authorization code")
		}
		if !strings.Contains(out.String(), "accounts.google.com") {
			t.Errorf("Expected the consent URL, got %q", out.String())
		}
	})

	t.Run("cached token", func(t *testing.T) {
		tok := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", TokenType: "Bearer"}
		if err := saveToken(token, tok); err != nil {
			t.Fatalf("saveToken failed: %v", err)
		}
		info, err := os.Stat(token)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
		}

		client, err := Authorize(context.Background(), creds, token, strings.NewReader(""), &bytes.Buffer{})
		if err != nil {
			t.Fatalf("Authorize failed: %v", err)
		}
		if client == nil {
			t.Error("Expected a client")
		}
	})
}
