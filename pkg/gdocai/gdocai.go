// Package gdocai recognizes schedule pages with Google Document AI.
//
// Document AI returns tokens whose positions are normalized to the page
// size. This package converts them to hOCR words in the pixel space of the
// locally decoded page, so the layout stage sees the same coordinates it
// would get from tesseract.
//
// Key Features:
//
// - Send images or PDF pages to a Document AI OCR processor
// - Convert Document AI lines and tokens to hOCR pages
// - Dump the raw API response as JSON for debugging
//
// Main Functions:
//
// - ProcessDocument: Sends a document to Google Document AI for processing
// - CreateHOCRPage: Converts a Document AI page to an hOCR page
// - Engine.Recognize: Runs the whole conversion for a raster page
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - A service account file, from the config or GOOGLE_APPLICATION_CREDENTIALS
package gdocai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/planscan/pkg/hocr"
	"github.com/gardar/planscan/pkg/layout"
	"github.com/gardar/planscan/pkg/raster"
)

// ProcessFunc sends content to Document AI and returns the parsed document.
type ProcessFunc func(ctx context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, error)

// Engine is an OCR engine backed by Document AI.
type Engine struct {
	Config *Config
	// Debug, when set, receives the raw API response as JSON.
	Debug io.Writer
	// Process defaults to ProcessDocument.
	Process ProcessFunc
}

// NewEngine returns an engine for the given processor.
func NewEngine(cfg *Config) *Engine {
	return &Engine{Config: cfg}
}

// Recognize implements ocr.Engine
func (e *Engine) Recognize(ctx context.Context, page *raster.Page) ([]layout.Fragment, error) {
	p, err := e.RecognizeHOCR(ctx, page)
	if err != nil {
		return nil, err
	}
	return hocr.Fragments(p), nil
}

// RecognizeHOCR implements ocr.HOCRRecognizer
func (e *Engine) RecognizeHOCR(ctx context.Context, page *raster.Page) (hocr.Page, error) {
	if e.Config == nil {
		return hocr.Page{}, errors.New("document AI config is nil")
	}
	if page == nil || page.Image == nil {
		return hocr.Page{}, errors.New("page has no image")
	}

	content, mimeType := page.Data, page.Format.MimeType()
	if len(content) == 0 || page.Format == raster.Unknown {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page.Image); err != nil {
			return hocr.Page{}, fmt.Errorf("failed to encode page: %w", err)
		}
		content, mimeType = buf.Bytes(), raster.PNG.MimeType()
	}

	process := e.Process
	if process == nil {
		process = ProcessDocument
	}
	doc, err := process(ctx, content, mimeType, e.Config)
	if err != nil {
		return hocr.Page{}, err
	}

	if e.Debug != nil {
		if js, err := ToJSON(doc); err == nil {
			fmt.Fprintln(e.Debug, js)
		}
	}

	if len(doc.GetPages()) == 0 {
		return hocr.Page{}, errors.New("document AI returned no pages")
	}

	return CreateHOCRPage(doc.Pages[0], doc.GetText(), 1, page.Width(), page.Height())
}
