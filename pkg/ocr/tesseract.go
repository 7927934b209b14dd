//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/planscan/pkg/hocr"
	"github.com/gardar/planscan/pkg/layout"
	"github.com/gardar/planscan/pkg/raster"
)

// Tesseract runs the tesseract engine through gosseract.
// A Tesseract is not safe for concurrent use.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates an engine for the given "+" separated languages.
// The engine should be closed when no longer needed.
func NewTesseract(lang string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set language %q: %w", lang, err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, err
	}
	return &Tesseract{client: client}, nil
}

// Close releases the tesseract resources.
func (t *Tesseract) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// Recognize implements Engine
func (t *Tesseract) Recognize(ctx context.Context, page *raster.Page) ([]layout.Fragment, error) {
	p, err := t.RecognizeHOCR(ctx, page)
	if err != nil {
		return nil, err
	}
	return hocr.Fragments(p), nil
}

// RecognizeHOCR implements HOCRRecognizer
func (t *Tesseract) RecognizeHOCR(ctx context.Context, page *raster.Page) (hocr.Page, error) {
	if err := ctx.Err(); err != nil {
		return hocr.Page{}, err
	}

	// Always hand tesseract the decoded pixels so coordinates match the
	// rendered PDF page as well as plain images.
	var buf bytes.Buffer
	if err := png.Encode(&buf, page.Image); err != nil {
		return hocr.Page{}, fmt.Errorf("failed to encode page: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return hocr.Page{}, fmt.Errorf("failed to set image: %w", err)
	}

	out, err := t.client.HOCRText()
	if err != nil {
		return hocr.Page{}, fmt.Errorf("OCR failed: %w", err)
	}
	doc, err := hocr.ParseHOCR([]byte(out))
	if err != nil {
		return hocr.Page{}, fmt.Errorf("failed to parse tesseract output: %w", err)
	}
	return doc.Pages[0], nil
}
