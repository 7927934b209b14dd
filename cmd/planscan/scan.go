package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gardar/planscan/pkg/schedule"
)

type scanFlags struct {
	outDir   string
	engine   string
	year     int
	ics      bool
	xlsx     bool
	review   bool
	preview  bool
	saveHOCR bool
	debugAPI bool
}

func newScanCmd(a *app) *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "scan <input>",
		Short: "Read a schedule and write its events",
		Long: `Reads the first page of an image or PDF schedule and writes
<input>.events.json. Edit the "flag" field of an event to leave it out of the
export, then send the file with "planscan push".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.engine != "" {
				a.cfg.OCR.Engine = f.engine
			}
			if f.year != 0 {
				a.cfg.Schedule.Year = f.year
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			var debug io.Writer
			if f.debugAPI {
				debug = cmd.ErrOrStderr()
			}
			engine, err := newEngine(a.cfg, debug)
			if err != nil {
				return err
			}

			input := args[0]
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("file not found: %s", input)
			}
			out := outputsFor(input, f.outDir, f.ics, f.xlsx, f.review, f.preview, f.saveHOCR)

			res, err := scanFile(cmd.Context(), a.cfg, engine, input, out)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), res, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", "Directory for output files (default: next to the input)")
	cmd.Flags().StringVar(&f.engine, "engine", "", "OCR engine: tesseract, hocr or documentai (overrides config)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Year of the schedule (overrides config)")
	cmd.Flags().BoolVar(&f.ics, "ics", false, "Also write an iCalendar file")
	cmd.Flags().BoolVar(&f.xlsx, "xlsx", false, "Also write an XLSX workbook")
	cmd.Flags().BoolVar(&f.review, "review", false, "Also write an annotated review PDF")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "Also write a PNG preview with the event boxes")
	cmd.Flags().BoolVar(&f.saveHOCR, "save-hocr", false, "Save the recognition as <input>.hocr for replay with --engine hocr")
	cmd.Flags().BoolVar(&f.debugAPI, "debug-api", false, "Dump the raw Document AI response to stderr")
	return cmd
}

func printSummary(w io.Writer, res *schedule.Result, out outputs) {
	if res.MapErr != nil {
		fmt.Fprintln(w, schedule.Diagnostic)
		fmt.Fprintf(w, "  %v\n", res.MapErr)
	}

	for i, d := range res.Week {
		if d.Found {
			fmt.Fprintf(w, "%d. %s (%s)\n", i+1, d.Header, d.Date)
		}
	}

	events := append([]schedule.Event(nil), res.Events...)
	schedule.SortEvents(events)
	for _, e := range events {
		day := e.Day
		if !e.Assigned() {
			day = "??????????"
		}
		fmt.Fprintf(w, "  %s %s-%s %s\n", day, e.Beg, e.End, e.Title())
	}

	fmt.Fprintf(w, "%d events, %d without a day, written to %s\n",
		len(res.Events), len(res.Unassigned()), out.Events)
}
