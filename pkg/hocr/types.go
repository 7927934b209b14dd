package hocr

import "math"

// HOCR is a parsed hOCR document
type HOCR struct {
	Title       string
	Description string
	Language    string
	Metadata    map[string]string // ocr-system, ocr-capabilities, ...
	Pages       []Page
}

// Page corresponds to an element with class 'ocr_page'
type Page struct {
	ID         string
	Title      string // Raw title attribute
	PageNumber int
	ImageName  string
	Lang       string
	BBox       BoundingBox
	Areas      []Area
	Paragraphs []Paragraph // Paragraphs outside any area
	Lines      []Line      // Lines outside any paragraph
	Metadata   map[string]string
}

func (Page) Class() string { return "ocr_page" }

// Area corresponds to an element with class 'ocr_carea'
type Area struct {
	ID         string
	Lang       string
	BBox       BoundingBox
	Paragraphs []Paragraph
	Lines      []Line
	Words      []Word
	Metadata   map[string]string
}

func (Area) Class() string { return "ocr_carea" }

// Paragraph corresponds to an element with class 'ocr_par'
type Paragraph struct {
	ID       string
	Lang     string
	BBox     BoundingBox
	Lines    []Line
	Words    []Word
	Metadata map[string]string
}

func (Paragraph) Class() string { return "ocr_par" }

// Line corresponds to an element with class 'ocr_line' or one of the
// line-like classes tesseract emits (ocr_header, ocr_caption, ocr_textfloat).
type Line struct {
	ID       string
	Lang     string
	BBox     BoundingBox
	Baseline string
	Words    []Word
	Metadata map[string]string
}

func (Line) Class() string { return "ocr_line" }

// Word corresponds to an element with class 'ocrx_word'
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // x_wconf, 0-100
	Lang       string
	Metadata   map[string]string
}

func (Word) Class() string { return "ocrx_word" }

// BoundingBox holds the corners of a 'bbox' property.
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right one.
type BoundingBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// NewBoundingBox creates a bounding box from its corners
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (b BoundingBox) Width() float64  { return b.X2 - b.X1 }
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// Ints returns the corners rounded to whole pixels.
func (b BoundingBox) Ints() (x1, y1, x2, y2 int) {
	return round(b.X1), round(b.Y1), round(b.X2), round(b.Y2)
}

func round(v float64) int {
	return int(math.Round(v))
}

// Words returns every word of the page in document order.
func (p Page) Words() []Word {
	var words []Word
	for _, area := range p.Areas {
		for _, para := range area.Paragraphs {
			words = para.appendWords(words)
		}
		for _, line := range area.Lines {
			words = append(words, line.Words...)
		}
		words = append(words, area.Words...)
	}
	for _, para := range p.Paragraphs {
		words = para.appendWords(words)
	}
	for _, line := range p.Lines {
		words = append(words, line.Words...)
	}
	return words
}

func (p Paragraph) appendWords(words []Word) []Word {
	for _, line := range p.Lines {
		words = append(words, line.Words...)
	}
	return append(words, p.Words...)
}
