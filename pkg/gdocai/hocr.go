package gdocai

import (
	"fmt"
	"math"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/planscan/pkg/hocr"
)

// CreateHOCRPage converts a single Document AI page to an hOCR page whose
// coordinates are in a width x height pixel space.
// Tokens are grouped under the line whose text anchor contains them. When
// the response has no lines every token becomes a line of its own.
func CreateHOCRPage(page *documentaipb.Document_Page, fullText string, pageNumber, width, height int) (hocr.Page, error) {
	if page == nil {
		return hocr.Page{}, fmt.Errorf("no documentai page provided")
	}
	if width <= 0 || height <= 0 {
		width, height = dimensionSize(page.GetDimension())
	}
	if width <= 0 || height <= 0 {
		return hocr.Page{}, fmt.Errorf("page %d has no usable size", pageNumber)
	}

	sc := scaler{width: float64(width), height: float64(height), dim: page.GetDimension()}

	ocrPage := hocr.Page{
		ID:         fmt.Sprintf("page_%d", pageNumber),
		PageNumber: pageNumber,
		BBox:       hocr.NewBoundingBox(0, 0, float64(width), float64(height)),
		Metadata:   make(map[string]string),
	}
	if langs := page.GetDetectedLanguages(); len(langs) > 0 {
		ocrPage.Lang = langs[0].GetLanguageCode()
	}

	used := make([]bool, len(page.GetTokens()))

	for lidx, line := range page.GetLines() {
		ocrLine := hocr.Line{
			ID:       fmt.Sprintf("line_%d_%d", pageNumber, lidx+1),
			BBox:     sc.box(line.GetLayout()),
			Metadata: make(map[string]string),
		}
		for tidx, token := range page.GetTokens() {
			if used[tidx] || !isElementInParent(token.GetLayout(), line.GetLayout()) {
				continue
			}
			used[tidx] = true
			if w, ok := convertToken(token, fullText, sc, pageNumber, tidx); ok {
				ocrLine.Words = append(ocrLine.Words, w)
			}
		}
		if len(ocrLine.Words) == 0 {
			// Lines without tokens still carry their text.
			text := strings.TrimSpace(textFromLayout(line.GetLayout(), fullText))
			if text == "" {
				continue
			}
			ocrLine.Words = append(ocrLine.Words, hocr.Word{
				ID:         fmt.Sprintf("word_%d_l%d", pageNumber, lidx+1),
				Text:       text,
				BBox:       ocrLine.BBox,
				Confidence: confidence(line.GetLayout()),
			})
		}
		ocrPage.Lines = append(ocrPage.Lines, ocrLine)
	}

	for tidx, token := range page.GetTokens() {
		if used[tidx] {
			continue
		}
		w, ok := convertToken(token, fullText, sc, pageNumber, tidx)
		if !ok {
			continue
		}
		ocrPage.Lines = append(ocrPage.Lines, hocr.Line{
			ID:       fmt.Sprintf("line_%d_t%d", pageNumber, tidx+1),
			BBox:     w.BBox,
			Words:    []hocr.Word{w},
			Metadata: make(map[string]string),
		})
	}

	return ocrPage, nil
}

func convertToken(token *documentaipb.Document_Page_Token, fullText string, sc scaler, pageNumber, idx int) (hocr.Word, bool) {
	text := strings.TrimSpace(textFromLayout(token.GetLayout(), fullText))
	if text == "" {
		return hocr.Word{}, false
	}
	w := hocr.Word{
		ID:         fmt.Sprintf("word_%d_%d", pageNumber, idx+1),
		Text:       text,
		BBox:       sc.box(token.GetLayout()),
		Confidence: confidence(token.GetLayout()),
	}
	if langs := token.GetDetectedLanguages(); len(langs) > 0 {
		w.Lang = langs[0].GetLanguageCode()
	}
	return w, true
}

func confidence(layout *documentaipb.Document_Page_Layout) float64 {
	return math.Round(float64(layout.GetConfidence()) * 100)
}

// isElementInParent reports whether the child's first text segment lies
// inside the parent's first text segment.
func isElementInParent(child, parent *documentaipb.Document_Page_Layout) bool {
	cs := child.GetTextAnchor().GetTextSegments()
	ps := parent.GetTextAnchor().GetTextSegments()
	if len(cs) == 0 || len(ps) == 0 {
		return false
	}
	return cs[0].GetStartIndex() >= ps[0].GetStartIndex() && cs[0].GetEndIndex() <= ps[0].GetEndIndex()
}

type scaler struct {
	width, height float64
	dim           *documentaipb.Document_Page_Dimension
}

// box returns the pixel bounding box of a layout. Normalized vertices are
// preferred; absolute vertices are rescaled from the page dimension.
func (s scaler) box(layout *documentaipb.Document_Page_Layout) hocr.BoundingBox {
	poly := layout.GetBoundingPoly()
	var xs, ys []float64
	if nv := poly.GetNormalizedVertices(); len(nv) > 0 {
		for _, v := range nv {
			xs = append(xs, float64(v.GetX())*s.width)
			ys = append(ys, float64(v.GetY())*s.height)
		}
	} else if dw, dh := float64(s.dim.GetWidth()), float64(s.dim.GetHeight()); dw > 0 && dh > 0 {
		for _, v := range poly.GetVertices() {
			xs = append(xs, float64(v.GetX())*s.width/dw)
			ys = append(ys, float64(v.GetY())*s.height/dh)
		}
	}
	if len(xs) == 0 {
		return hocr.BoundingBox{}
	}
	return hocr.NewBoundingBox(
		math.Round(minOf(xs)), math.Round(minOf(ys)),
		math.Round(maxOf(xs)), math.Round(maxOf(ys)),
	)
}

func dimensionSize(dim *documentaipb.Document_Page_Dimension) (int, int) {
	return int(math.Round(float64(dim.GetWidth()))), int(math.Round(float64(dim.GetHeight())))
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Max(m, x)
	}
	return m
}
