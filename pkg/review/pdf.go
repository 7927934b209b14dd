package review

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/gardar/planscan/pkg/raster"
	"github.com/gardar/planscan/pkg/schedule"
)

// RenderPDF builds the review PDF of one page.
// PDF inputs are imported as a template so the original vector page is kept;
// images are embedded as they are.
func RenderPDF(page *raster.Page, res *schedule.Result, opts Options) ([]byte, error) {
	if page == nil || page.Image == nil {
		return nil, errors.New("page has no image")
	}
	if res == nil {
		return nil, errors.New("no result to render")
	}
	if opts.Font.Name == "" {
		opts.Font = DefaultFont
	}

	scale := page.PixelsToPoints()
	w, h := float64(page.Width())*scale, float64(page.Height())*scale

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

	if page.Format == raster.PDF && len(page.Data) > 0 {
		importer := gofpdi.NewImporter()
		rs := io.ReadSeeker(bytes.NewReader(page.Data))
		tpl := importer.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")
		importer.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
	} else {
		data, imageType, err := embeddableImage(page)
		if err != nil {
			return nil, err
		}
		imgOpts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
		pdf.RegisterImageOptionsReader("page", imgOpts, bytes.NewReader(data))
		pdf.ImageOptions("page", 0, 0, w, h, false, imgOpts, 0, "")
	}

	transform := func(x, y float64) (float64, float64) {
		return normalizeCoords(x, y, float64(page.Width()), float64(page.Height()), w, h)
	}

	drawAnnotations(pdf, res, page.Image.Bounds(), transform, opts)

	drawTextLayer(pdf, res.Blocks, opts.Debug, opts.LayerName, transform, opts.Font)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// drawAnnotations strokes the separators and the event boxes.
func drawAnnotations(pdf *fpdf.Fpdf, res *schedule.Result, bounds image.Rectangle, transform func(x, y float64) (float64, float64), opts Options) {
	width := opts.LineWidth
	if width <= 0 {
		width = 1
	}
	pdf.SetLineWidth(width)

	setDrawColor(pdf, separatorColor)
	for _, c := range res.Separators.Columns {
		x1, y1 := transform(float64(c), 0)
		x2, y2 := transform(float64(c), float64(bounds.Dy()))
		pdf.Line(x1, y1, x2, y2)
	}
	for _, l := range res.Separators.Lines {
		x1, y1 := transform(0, float64(l))
		x2, y2 := transform(float64(bounds.Dx()), float64(l))
		pdf.Line(x1, y1, x2, y2)
	}

	for _, e := range res.Events {
		setDrawColor(pdf, eventColor(e))
		x, y := transform(float64(e.Box.X), float64(e.Box.Y))
		x2, y2 := transform(float64(e.Box.Right()), float64(e.Box.Bottom()))
		pdf.Rect(x, y, x2-x, y2-y, "D")
	}
}

// embeddableImage returns image bytes fpdf can embed, re-encoding formats
// it does not read as PNG.
func embeddableImage(page *raster.Page) ([]byte, string, error) {
	switch page.Format {
	case raster.PNG, raster.JPEG, raster.GIF:
		if len(page.Data) > 0 {
			if imageType, err := detectImageType(page.Data); err == nil {
				return page.Data, imageType, nil
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, page.Image); err != nil {
		return nil, "", fmt.Errorf("failed to encode page image: %w", err)
	}
	return buf.Bytes(), "PNG", nil
}

// detectImageType tries to figure out whether the data is PNG, JPEG, etc.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return strings.ToUpper(format), nil
}
