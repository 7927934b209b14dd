// planscan reads a weekly schedule from a screenshot, photo or PDF and
// exports its events.
//
// The page is recognized by an OCR engine, the grid rules are detected, the
// words are merged into blocks and every block holding a time range becomes
// an event placed under its weekday column.
//
// Usage:
//
//	planscan [--config planscan.yaml] [--verbose] <command>
//
// Commands:
//
//	scan <input>       Read a schedule and write the events file (+ ICS, XLSX, review)
//	push <events>      Send the selected events of an events file to Google Calendar
//	calendars          List the calendars of the Google account
//	watch              Scan every file dropped in the inbox on a cron schedule
//	hocr <input>       Run OCR only and write the hOCR document
//
// Examples:
//
// Scan a screenshot, review it, then export:
//
//	planscan scan week.png --review --ics
//	planscan push week.events.json
//
// Replay a saved recognition without running OCR:
//
//	planscan scan week.png --engine hocr
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
