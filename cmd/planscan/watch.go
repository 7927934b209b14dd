package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/gardar/planscan/internal/config"
	appLog "github.com/gardar/planscan/internal/log"
	"github.com/gardar/planscan/pkg/ocr"
	"github.com/gardar/planscan/pkg/raster"
)

func newWatchCmd(a *app) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scan the files dropped in the inbox on a schedule",
		Long: `Every run scans each supported file of the inbox, writes its events
file, iCalendar file and review PDF to the outbox and moves the input to
outbox/processed (or outbox/failed when it could not be read).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			engine, err := newEngine(a.cfg, nil)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if once {
				return processInbox(ctx, a.cfg, engine)
			}
			return runWatch(ctx, a.cfg, engine)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Process the inbox once and exit")
	return cmd
}

// runWatch processes the inbox on the configured cron schedule until ctx
// is done. A run still in progress makes the next tick skip.
func runWatch(ctx context.Context, cfg *config.Config, engine ocr.Engine) error {
	logger := appLog.CronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := c.AddFunc(cfg.Watch.Schedule, func() {
		if err := processInbox(ctx, cfg, engine); err != nil {
			appLog.Error("inbox run failed", err, "inbox", cfg.Watch.Inbox)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", cfg.Watch.Schedule, err)
	}

	appLog.Info("watching inbox", "inbox", cfg.Watch.Inbox, "outbox", cfg.Watch.Outbox, "schedule", cfg.Watch.Schedule)
	c.Start()
	<-ctx.Done()
	appLog.Info("signal received, shutting down")
	<-c.Stop().Done()
	return nil
}

// processInbox scans every supported file of the inbox once.
func processInbox(ctx context.Context, cfg *config.Config, engine ocr.Engine) error {
	files, err := inboxFiles(cfg.Watch.Inbox)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		appLog.Debug("inbox empty", "inbox", cfg.Watch.Inbox)
		return nil
	}

	processed := filepath.Join(cfg.Watch.Outbox, "processed")
	failed := filepath.Join(cfg.Watch.Outbox, "failed")
	for _, dir := range []string{processed, failed} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		out := outputsFor(path, cfg.Watch.Outbox, true, false, true, false, false)
		res, err := scanFile(ctx, cfg, engine, path, out)
		dest := processed
		switch {
		case err != nil:
			appLog.Error("scan failed", err, "path", path)
			dest = failed
		case res.MapErr != nil:
			appLog.Warn("week incomplete", "path", path, "unassigned", len(res.Unassigned()))
		default:
			appLog.Info("scan done", "path", path, "events", len(res.Events))
		}

		if err := moveInput(path, dest); err != nil {
			return err
		}
	}
	return nil
}

// inboxFiles returns the supported inputs of dir in name order.
func inboxFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, os.MkdirAll(dir, 0o755)
		}
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := raster.Detect(e.Name()); err != nil {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// moveInput moves path, and its hOCR sidecar if any, into dir.
func moveInput(path, dir string) error {
	for _, p := range []string{path, path + ".hocr"} {
		err := os.Rename(p, filepath.Join(dir, filepath.Base(p)))
		if err != nil && !(p != path && errors.Is(err, fs.ErrNotExist)) {
			return fmt.Errorf("failed to move %s: %w", p, err)
		}
	}
	return nil
}
