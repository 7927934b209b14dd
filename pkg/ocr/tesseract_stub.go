//go:build !ocr

package ocr

import (
	"context"

	"github.com/gardar/planscan/pkg/hocr"
	"github.com/gardar/planscan/pkg/layout"
	"github.com/gardar/planscan/pkg/raster"
)

// Tesseract is the stub engine used when the "ocr" build tag is not set.
// To enable it, rebuild with: go build -tags ocr
type Tesseract struct{}

// NewTesseract returns ErrOCRNotEnabled.
func NewTesseract(string) (*Tesseract, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub engine.
func (t *Tesseract) Close() error { return nil }

// Recognize returns ErrOCRNotEnabled.
func (t *Tesseract) Recognize(context.Context, *raster.Page) ([]layout.Fragment, error) {
	return nil, ErrOCRNotEnabled
}

// RecognizeHOCR returns ErrOCRNotEnabled.
func (t *Tesseract) RecognizeHOCR(context.Context, *raster.Page) (hocr.Page, error) {
	return hocr.Page{}, ErrOCRNotEnabled
}
