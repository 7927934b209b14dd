package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gardar/planscan/internal/config"
	"github.com/gardar/planscan/pkg/export"
	"github.com/gardar/planscan/pkg/schedule"
)

func newPushCmd(a *app) *cobra.Command {
	var calendarID string

	cmd := &cobra.Command{
		Use:   "push <events.json>",
		Short: "Create the selected events in Google Calendar",
		Long: `Creates every event whose "flag" is true. Events that could not be
created are written to <events>.failed.json so they can be pushed again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			events, err := export.LoadEvents(path)
			if err != nil {
				return err
			}
			if calendarID == "" {
				calendarID = a.cfg.Calendar.ID
			}

			g, err := newGoogleCalendar(cmd, a.cfg)
			if err != nil {
				return err
			}

			failed, exportErr := g.Export(cmd.Context(), events, calendarID)
			failedFile := failedPath(path)
			if len(failed) == 0 {
				if err := os.Remove(failedFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d events exported to %s\n", len(schedule.Selected(events)), calendarID)
				return nil
			}

			if err := export.SaveEvents(failedFile, failed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d events could not be exported, saved to %s\n", len(failed), failedFile)
			return fmt.Errorf("export incomplete: %w", exportErr)
		},
	}

	cmd.Flags().StringVar(&calendarID, "calendar", "", "Target calendar id (overrides config)")
	return cmd
}

func newCalendarsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "List the calendars of the Google account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGoogleCalendar(cmd, a.cfg)
			if err != nil {
				return err
			}
			cals, err := g.Calendars(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cals {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func newGoogleCalendar(cmd *cobra.Command, cfg *config.Config) (*export.GoogleCalendar, error) {
	ctx := cmd.Context()
	client, err := export.Authorize(ctx, cfg.Calendar.Credentials, cfg.Calendar.Token, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	g, err := export.NewGoogleCalendar(ctx, client, cfg.Calendar.Timezone)
	if err != nil {
		return nil, err
	}
	g.RepeatWeeks = cfg.Calendar.RepeatWeeks
	return g, nil
}

// failedPath returns "<events>.failed.json" for "<events>.json".
func failedPath(path string) string {
	return strings.TrimSuffix(path, ".json") + ".failed.json"
}

