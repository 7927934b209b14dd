// Package ocr defines the OCR engine boundary of the pipeline and its
// local implementations.
//
// An Engine turns a decoded page into word fragments whose coordinates are
// in the page image's pixel space. Empty words are dropped by every engine.
//
// Engines:
//
// - Tesseract: Runs tesseract through gosseract (build tag "ocr")
// - HOCRFile: Replays a previously saved hOCR file
//
// Google Document AI lives in package gdocai and satisfies the same
// interface; New selects it under the name "documentai".
package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gardar/planscan/pkg/gdocai"
	"github.com/gardar/planscan/pkg/hocr"
	"github.com/gardar/planscan/pkg/layout"
	"github.com/gardar/planscan/pkg/raster"
)

// ErrOCRNotEnabled is returned by the tesseract engine when the binary was
// built without the "ocr" build tag.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// ErrUnknownEngine is returned for an engine name that is not supported.
var ErrUnknownEngine = errors.New("unknown OCR engine")

// Engine recognizes the words of a page.
type Engine interface {
	Recognize(ctx context.Context, page *raster.Page) ([]layout.Fragment, error)
}

// HOCRRecognizer is implemented by engines that can also return the
// recognition as an hOCR page, for saving and later replay.
type HOCRRecognizer interface {
	RecognizeHOCR(ctx context.Context, page *raster.Page) (hocr.Page, error)
}

// HOCRFile reads fragments from an hOCR file instead of running OCR.
type HOCRFile struct {
	// Path is the hOCR file. When empty, "<page path>.hocr" is used.
	Path string
}

// Recognize implements Engine
func (h HOCRFile) Recognize(ctx context.Context, page *raster.Page) ([]layout.Fragment, error) {
	p, err := h.RecognizeHOCR(ctx, page)
	if err != nil {
		return nil, err
	}
	return hocr.Fragments(p), nil
}

// RecognizeHOCR implements HOCRRecognizer
func (h HOCRFile) RecognizeHOCR(_ context.Context, page *raster.Page) (hocr.Page, error) {
	path := h.Path
	if path == "" {
		path = page.Path + ".hocr"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return hocr.Page{}, fmt.Errorf("failed to read hOCR file: %w", err)
	}
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		return hocr.Page{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc.Pages[0], nil
}

// Options configures the local engines.
type Options struct {
	Language string // Tesseract languages, e.g. "fra+eng"
	HOCRPath string // hOCR file for the "hocr" engine

	DocumentAI *gdocai.Config
}

// New returns the engine registered under name.
func New(name string, opts Options) (Engine, error) {
	switch strings.ToLower(name) {
	case "tesseract", "":
		t, err := NewTesseract(opts.Language)
		if err != nil {
			return nil, err
		}
		return t, nil
	case "hocr":
		return HOCRFile{Path: opts.HOCRPath}, nil
	case "documentai":
		if opts.DocumentAI == nil || opts.DocumentAI.ProcessorID == "" {
			return nil, errors.New("documentai engine needs a project and processor id")
		}
		return gdocai.NewEngine(opts.DocumentAI), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}
