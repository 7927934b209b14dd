package export

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	appLog "github.com/gardar/planscan/internal/log"
	"github.com/gardar/planscan/pkg/schedule"
)

// CalendarInfo is an entry of the user's calendar list.
type CalendarInfo struct {
	ID   string
	Name string
}

// GoogleCalendar inserts events through the Google Calendar API.
type GoogleCalendar struct {
	srv         *calendar.Service
	Timezone    string
	RepeatWeeks int
}

// NewGoogleCalendar returns an exporter using an authorized HTTP client.
// Extra options are passed to the Calendar service.
func NewGoogleCalendar(ctx context.Context, client *http.Client, timezone string, opts ...option.ClientOption) (*GoogleCalendar, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar client: %w", err)
	}
	return &GoogleCalendar{srv: srv, Timezone: timezone}, nil
}

// Calendars lists the calendars of the account.
func (g *GoogleCalendar) Calendars(ctx context.Context) ([]CalendarInfo, error) {
	var out []CalendarInfo
	err := g.srv.CalendarList.List().Pages(ctx, func(list *calendar.CalendarList) error {
		for _, item := range list.Items {
			name := item.Summary
			if name == "" {
				name = item.Id
			}
			out = append(out, CalendarInfo{ID: item.Id, Name: name})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return out, nil
}

// Export inserts every selected event into the calendar and returns the
// ones that could not be created along with the joined reasons.
// Unassigned events fail with ErrUnassigned without an API call.
func (g *GoogleCalendar) Export(ctx context.Context, events []schedule.Event, calendarID string) ([]schedule.Event, error) {
	var failed []schedule.Event
	var errs []error

	for _, e := range schedule.Selected(events) {
		if err := ctx.Err(); err != nil {
			failed = append(failed, e)
			errs = append(errs, err)
			continue
		}

		ev, err := g.calendarEvent(e)
		if err == nil {
			var created *calendar.Event
			created, err = g.srv.Events.Insert(calendarID, ev).Context(ctx).Do()
			if err == nil {
				appLog.Info("event created", "title", e.Title(), "link", created.HtmlLink)
				continue
			}
			err = fmt.Errorf("failed to create event %q: %w", e.Title(), err)
		}
		appLog.Error("export failed", err, "title", e.Title(), "day", e.Day)
		failed = append(failed, e)
		errs = append(errs, err)
	}
	return failed, errors.Join(errs...)
}

// calendarEvent converts an event to the API representation. Times are
// sent as wall-clock values in the exporter's time zone.
func (g *GoogleCalendar) calendarEvent(e schedule.Event) (*calendar.Event, error) {
	loc, err := loadLocation(g.Timezone)
	if err != nil {
		return nil, err
	}
	start, end, err := span(e, loc)
	if err != nil {
		return nil, err
	}

	const wallClock = "2006-01-02T15:04:05"
	ev := &calendar.Event{
		Summary:   e.Title(),
		Start:     &calendar.EventDateTime{DateTime: start.Format(wallClock), TimeZone: g.Timezone},
		End:       &calendar.EventDateTime{DateTime: end.Format(wallClock), TimeZone: g.Timezone},
		Reminders: &calendar.EventReminders{UseDefault: true},
	}
	rule, err := weeklyRule(start, g.RepeatWeeks)
	if err != nil {
		return nil, err
	}
	if rule != "" {
		ev.Recurrence = []string{"RRULE:" + rule}
	}
	return ev, nil
}

// Authorize returns an HTTP client authorized for the Calendar API.
// The token cached at tokenPath is used when present. Otherwise the
// installed-app flow runs: the consent URL is printed to out, the code is
// read from in and the new token is saved to tokenPath.
func Authorize(ctx context.Context, credentialsPath, tokenPath string, in io.Reader, out io.Writer) (*http.Client, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}

	tok, err := loadToken(tokenPath)
	if err != nil {
		appLog.Debug("no cached token", "path", tokenPath, "error", err)
		tok, err = tokenFromWeb(ctx, config, in, out)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(ctx, tok), nil
}

func tokenFromWeb(ctx context.Context, config *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Ouvrez ce lien dans un navigateur puis collez le code d'autorisation :\n%v\n", authURL)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("unable to read authorization code: %w", err)
		}
		return nil, errors.New("no authorization code given")
	}
	code := strings.TrimSpace(scanner.Text())

	tok, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		f.Close()
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	return f.Close()
}
