package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gardar/planscan/internal/config"
	appLog "github.com/gardar/planscan/internal/log"
	"github.com/gardar/planscan/pkg/export"
	"github.com/gardar/planscan/pkg/gdocai"
	"github.com/gardar/planscan/pkg/hocr"
	"github.com/gardar/planscan/pkg/layout"
	"github.com/gardar/planscan/pkg/ocr"
	"github.com/gardar/planscan/pkg/raster"
	"github.com/gardar/planscan/pkg/review"
	"github.com/gardar/planscan/pkg/schedule"
)

// previewSize bounds the PNG preview.
const previewSize = 1600

// newEngine builds the OCR engine selected in cfg. debug receives the raw
// Document AI response when not nil.
func newEngine(cfg *config.Config, debug io.Writer) (ocr.Engine, error) {
	opts := ocr.Options{
		Language: cfg.OCR.Language,
		HOCRPath: cfg.OCR.HOCRPath,
	}
	if cfg.OCR.Engine == "documentai" {
		opts.DocumentAI = &gdocai.Config{
			ProjectID:       cfg.DocumentAI.ProjectID,
			Location:        cfg.DocumentAI.Location,
			ProcessorID:     cfg.DocumentAI.ProcessorID,
			CredentialsFile: cfg.DocumentAI.Credentials,
		}
	}

	engine, err := ocr.New(cfg.OCR.Engine, opts)
	if err != nil {
		return nil, err
	}
	if g, ok := engine.(*gdocai.Engine); ok && debug != nil {
		g.Debug = debug
	}
	return engine, nil
}

func newReader(cfg *config.Config, engine ocr.Engine) *schedule.Reader {
	return &schedule.Reader{
		Engine: engine,
		Merger: layout.Merger{
			LineX: cfg.Merge.LineX,
			LineY: cfg.Merge.LineY,
			AreaX: cfg.Merge.AreaX,
			AreaY: cfg.Merge.AreaY,
		},
		Options: schedule.MapOptions{Year: cfg.Schedule.Year},
	}
}

// outputs lists the files a scan writes. Empty paths are skipped.
type outputs struct {
	Events    string
	ICS       string
	XLSX      string
	ReviewPDF string
	Preview   string
	HOCR      string
}

// outputsFor derives output paths from the input name inside dir.
func outputsFor(input, dir string, ics, xlsx, reviewPDF, preview, saveHOCR bool) outputs {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	name := filepath.Base(input)
	base := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name)))

	out := outputs{Events: base + ".events.json"}
	if ics {
		out.ICS = base + ".ics"
	}
	if xlsx {
		out.XLSX = base + ".xlsx"
	}
	if reviewPDF {
		out.ReviewPDF = base + ".review.pdf"
	}
	if preview {
		out.Preview = base + ".preview.png"
	}
	if saveHOCR {
		// Same name the hocr engine looks for next to the input.
		out.HOCR = filepath.Join(dir, name+".hocr")
	}
	return out
}

// recognize runs OCR and the layout pipeline. Engines that return hOCR are
// asked for it so the recognition can be saved without a second OCR pass.
func recognize(ctx context.Context, reader *schedule.Reader, page *raster.Page) (*schedule.Result, *hocr.Page, error) {
	hr, ok := reader.Engine.(ocr.HOCRRecognizer)
	if !ok {
		res, err := reader.Read(ctx, page)
		return res, nil, err
	}
	p, err := hr.RecognizeHOCR(ctx, page)
	if err != nil {
		return nil, nil, fmt.Errorf("OCR failed: %w", err)
	}
	return reader.Process(page, hocr.Fragments(p)), &p, nil
}

// scanFile reads one input and writes the requested outputs.
func scanFile(ctx context.Context, cfg *config.Config, engine ocr.Engine, input string, out outputs) (*schedule.Result, error) {
	page, err := raster.Load(ctx, input, cfg.Raster.DPI)
	if err != nil {
		return nil, err
	}
	appLog.Info("page loaded", "path", input, "format", page.Format, "width", page.Width(), "height", page.Height())

	res, hp, err := recognize(ctx, newReader(cfg, engine), page)
	if err != nil {
		return nil, err
	}
	if err := writeOutputs(cfg, res, hp, out); err != nil {
		return res, err
	}
	return res, nil
}

func writeOutputs(cfg *config.Config, res *schedule.Result, hp *hocr.Page, out outputs) error {
	if out.Events != "" {
		if err := export.SaveEvents(out.Events, res.Events); err != nil {
			return err
		}
		appLog.Info("events written", "path", out.Events, "count", len(res.Events))
	}

	if out.ICS != "" {
		var buf bytes.Buffer
		err := export.WriteICS(&buf, res.Events, export.ICSOptions{
			Name:        cfg.Calendar.Name,
			Timezone:    cfg.Calendar.Timezone,
			RepeatWeeks: cfg.Calendar.RepeatWeeks,
		})
		if err != nil {
			return err
		}
		if err := writeFile(out.ICS, buf.Bytes()); err != nil {
			return err
		}
	}

	if out.XLSX != "" {
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, res.Events); err != nil {
			return err
		}
		if err := writeFile(out.XLSX, buf.Bytes()); err != nil {
			return err
		}
	}

	if out.ReviewPDF != "" {
		pdf, err := review.RenderPDF(res.Page, res, review.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to render review PDF: %w", err)
		}
		if err := writeFile(out.ReviewPDF, pdf); err != nil {
			return err
		}
	}

	if out.Preview != "" {
		var buf bytes.Buffer
		if err := review.RenderPNG(&buf, res.Page.Image, res.Events, previewSize, previewSize); err != nil {
			return err
		}
		if err := writeFile(out.Preview, buf.Bytes()); err != nil {
			return err
		}
	}

	if out.HOCR != "" {
		if hp == nil {
			p := hocr.FromFragments(res.Fragments, res.Page.Width(), res.Page.Height(), filepath.Base(res.Page.Path))
			hp = &p
		}
		doc := hocr.NewDocument("planscan "+cfg.OCR.Engine, cfg.OCR.Language, *hp)
		html, err := hocr.GenerateHOCRDocument(doc)
		if err != nil {
			return fmt.Errorf("failed to generate hOCR: %w", err)
		}
		if err := writeFile(out.HOCR, []byte(html)); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	appLog.Debug("file written", "path", path, "bytes", len(data))
	return nil
}
