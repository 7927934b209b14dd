package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"strconv"
	"strings"
	"text/template"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"esc":       html.EscapeString,
	"bbox":      formatBBox,
	"conf":      formatConfidence,
	"pageTitle": pageTitle,
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// GenerateHOCRDocument renders doc as an hOCR HTML document
func GenerateHOCRDocument(doc *HOCR) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("hOCR document is nil")
	}

	var buf bytes.Buffer
	if err := hocrTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

func formatBBox(b BoundingBox) string {
	x1, y1, x2, y2 := b.Ints()
	return fmt.Sprintf("bbox %d %d %d %d", x1, y1, x2, y2)
}

func formatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func pageTitle(p Page) string {
	parts := make([]string, 0, 3)
	if p.ImageName != "" {
		parts = append(parts, fmt.Sprintf("image %q", p.ImageName))
	}
	parts = append(parts, formatBBox(p.BBox))
	if p.PageNumber > 0 {
		parts = append(parts, fmt.Sprintf("ppageno %d", p.PageNumber))
	}
	return html.EscapeString(strings.Join(parts, "; "))
}
