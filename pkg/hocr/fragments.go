package hocr

import (
	"fmt"
	"strings"

	"github.com/gardar/planscan/pkg/layout"
)

// Fragments flattens a page into positioned words in document order.
// Words without text are dropped.
func Fragments(page Page) []layout.Fragment {
	words := page.Words()
	frags := make([]layout.Fragment, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		x1, y1, x2, y2 := w.BBox.Ints()
		frags = append(frags, layout.NewFragment(x1, y1, x2-x1, y2-y1, text))
	}
	return frags
}

// FromFragments builds a single page holding one line per fragment.
// width and height give the page bbox in pixels.
func FromFragments(frags []layout.Fragment, width, height int, imageName string) Page {
	page := Page{
		ID:         "page_1",
		PageNumber: 1,
		ImageName:  imageName,
		BBox:       NewBoundingBox(0, 0, float64(width), float64(height)),
		Metadata:   make(map[string]string),
	}
	for i, f := range frags {
		bbox := NewBoundingBox(float64(f.X), float64(f.Y), float64(f.Right()), float64(f.Bottom()))
		page.Lines = append(page.Lines, Line{
			ID:   fmt.Sprintf("line_1_%d", i+1),
			BBox: bbox,
			Words: []Word{{
				ID:         fmt.Sprintf("word_1_%d", i+1),
				Text:       f.Text,
				BBox:       bbox,
				Confidence: 100,
			}},
		})
	}
	return page
}

// NewDocument wraps pages into a document with the usual ocr-* metadata.
func NewDocument(system, lang string, pages ...Page) *HOCR {
	return &HOCR{
		Title:    "planscan OCR",
		Language: lang,
		Metadata: map[string]string{
			"ocr-system":          system,
			"ocr-number-of-pages": fmt.Sprintf("%d", len(pages)),
			"ocr-capabilities":    "ocr_page ocr_carea ocr_par ocr_line ocrx_word",
		},
		Pages: pages,
	}
}
