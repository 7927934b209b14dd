package review

import (
	"image/color"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/planscan/pkg/layout"
)

// typography maps punctuation outside Latin-1 to its plain form.
var typography = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201c", "\"", "\u201d", "\"",
	"\u2013", "-", "\u2014", "-", "\u2026", "...",
	"\u0152", "OE", "\u0153", "oe", "\u20ac", "EUR",
)

// drawTextLayer writes the text of every block onto its own layer.
func drawTextLayer(
	pdf *fpdf.Fpdf,
	blocks []layout.Fragment,
	debug bool,
	layerName string,
	transform func(x, y float64) (float64, float64),
	fontConfig FontConfig,
) {
	if layerName == "" {
		layerName = DefaultOptions().LayerName
	}
	layer := pdf.AddLayer(layerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(fontConfig.Name, fontConfig.Style, fontConfig.Size)

	if debug {
		pdf.SetTextColor(255, 0, 0)
	} else {
		pdf.SetAlpha(0.0, "Normal")
	}

	for _, b := range blocks {
		drawBlock(pdf, b, transform, fontConfig)
	}

	if !debug {
		pdf.SetAlpha(1.0, "Normal")
	}
	pdf.EndLayer()
}

// drawBlock renders one block with its text stretched to the block width.
func drawBlock(pdf *fpdf.Fpdf, b layout.Fragment, transform func(x, y float64) (float64, float64),
	fontConfig FontConfig) {

	x, y := transform(float64(b.X), float64(b.Y))
	x2, _ := transform(float64(b.Right()), float64(b.Y))
	blockWidth := x2 - x

	latin1 := toLatin1(b.Text)

	if strWidth := pdf.GetStringWidth(latin1); strWidth > 0 {
		pdf.SetFontSize(fontConfig.Size * blockWidth / strWidth)
	}

	fontSize, _ := pdf.GetFontSize()
	pdf.Text(x, y+fontSize*fontConfig.AscentRatio, latin1)
	pdf.SetFontSize(fontConfig.Size)
}

func setDrawColor(pdf *fpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

// toLatin1 encodes s for the core fonts, which only cover Latin-1.
// Characters with no Latin-1 form become the substitute byte.
func toLatin1(s string) string {
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	out, err := enc.String(typography.Replace(s))
	if err != nil {
		return typography.Replace(s)
	}
	return out
}
