package schedule

import (
	"context"
	"errors"
	"fmt"

	appLog "github.com/gardar/planscan/internal/log"
	"github.com/gardar/planscan/pkg/layout"
	"github.com/gardar/planscan/pkg/ocr"
	"github.com/gardar/planscan/pkg/raster"
)

// Reader runs the page-to-events pipeline.
type Reader struct {
	Engine  ocr.Engine
	Merger  layout.Merger
	Options MapOptions
}

// NewReader returns a Reader with the default merge thresholds.
func NewReader(engine ocr.Engine, year int) *Reader {
	return &Reader{
		Engine:  engine,
		Merger:  layout.DefaultMerger(),
		Options: MapOptions{Year: year},
	}
}

// Result holds the output of every pipeline stage for one page.
type Result struct {
	Page       *raster.Page
	Fragments  []layout.Fragment
	Separators layout.Separators
	Blocks     []layout.Fragment
	Week       Week
	Events     []Event
	// MapErr is the non-fatal column mapping error, nil when all five
	// weekdays were resolved.
	MapErr error
}

// Unassigned returns the events no column claimed.
func (r *Result) Unassigned() []Event {
	var out []Event
	for _, e := range r.Events {
		if !e.Assigned() {
			out = append(out, e)
		}
	}
	return out
}

// Read recognizes page and reconstructs its events.
// Only OCR failures are returned as errors; an incomplete week is reported
// through Result.MapErr and the diagnostic log.
func (r *Reader) Read(ctx context.Context, page *raster.Page) (*Result, error) {
	if r.Engine == nil {
		return nil, errors.New("no OCR engine configured")
	}
	if page == nil || page.Image == nil {
		return nil, errors.New("page has no image")
	}

	frags, err := r.Engine.Recognize(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	return r.Process(page, frags), nil
}

// Process runs every stage after OCR on already recognized fragments.
func (r *Reader) Process(page *raster.Page, frags []layout.Fragment) *Result {
	res := &Result{Page: page, Fragments: frags}

	res.Separators = layout.DetectSeparators(page.Image)
	appLog.Debug("separators detected",
		"columns", len(res.Separators.Columns), "lines", len(res.Separators.Lines))

	res.Blocks = r.Merger.Merge(frags, res.Separators)
	appLog.Debug("fragments merged", "fragments", len(frags), "blocks", len(res.Blocks))

	opts := r.Options
	if opts.PageWidth == 0 {
		opts.PageWidth = page.Width()
	}
	res.Week, res.MapErr = MapColumns(res.Blocks, res.Separators.Columns, opts)
	if res.MapErr != nil {
		appLog.Warn(Diagnostic, "path", page.Path, "cause", res.MapErr)
	}

	res.Events = ExtractEvents(res.Blocks, res.Week)
	appLog.Info("events extracted",
		"path", page.Path, "events", len(res.Events), "unassigned", len(res.Unassigned()))

	return res
}
