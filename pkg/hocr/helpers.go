package hocr

import (
	"strings"
)

// ExtractHOCRText returns the document text with one line per hOCR line
// and a blank line between pages.
func ExtractHOCRText(doc *HOCR) string {
	var b strings.Builder
	for _, page := range doc.Pages {
		for _, area := range page.Areas {
			for _, para := range area.Paragraphs {
				writeParagraph(&b, para)
			}
			for _, line := range area.Lines {
				writeWords(&b, line.Words)
			}
			writeWords(&b, area.Words)
		}
		for _, para := range page.Paragraphs {
			writeParagraph(&b, para)
		}
		for _, line := range page.Lines {
			writeWords(&b, line.Words)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeParagraph(b *strings.Builder, para Paragraph) {
	for _, line := range para.Lines {
		writeWords(b, line.Words)
	}
	writeWords(b, para.Words)
}

func writeWords(b *strings.Builder, words []Word) {
	if len(words) == 0 {
		return
	}
	for i, w := range words {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(w.Text)
	}
	b.WriteString("\n")
}
