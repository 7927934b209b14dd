// Package raster turns an input file into a decoded page image.
//
// Images are decoded in-process. PDF files are rendered at a configurable
// resolution through poppler's pdftoppm. The file extension decides which
// path is taken; any other extension is rejected with ErrUnsupportedFormat.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultDPI is the render resolution used for PDF pages.
const DefaultDPI = 300

// ErrUnsupportedFormat is returned for files that are neither an image nor a PDF.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	PNG
	JPEG
	GIF
	BMP
	TIFF
	WEBP
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case GIF:
		return "GIF"
	case BMP:
		return "BMP"
	case TIFF:
		return "TIFF"
	case WEBP:
		return "WEBP"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// MimeType returns the media type sent to remote OCR services.
func (f Format) MimeType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	case WEBP:
		return "image/webp"
	case PDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// IsImage reports whether the format is decoded without rendering.
func (f Format) IsImage() bool {
	return f != Unknown && f != PDF
}

// Detect determines the input format from the filename extension.
func Detect(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".gif":
		return GIF, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".webp":
		return WEBP, nil
	case ".pdf":
		return PDF, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(filename))
}

// Page is a single decoded page.
type Page struct {
	Path   string      // Source file
	Format Format      // Source format
	Data   []byte      // Raw source bytes
	DPI    int         // Render resolution for PDF sources, 0 for images
	Image  image.Image // Decoded pixels, shared read-only by every stage
}

// Width returns the page width in pixels.
func (p *Page) Width() int { return p.Image.Bounds().Dx() }

// Height returns the page height in pixels.
func (p *Page) Height() int { return p.Image.Bounds().Dy() }

// PixelsToPoints returns the factor converting page pixels to PDF points.
// Image sources map one pixel to one point.
func (p *Page) PixelsToPoints() float64 {
	if p.Format == PDF && p.DPI > 0 {
		return 72 / float64(p.DPI)
	}
	return 1
}

// Loader decodes pages.
type Loader struct {
	DPI int
	// RenderPDF renders the first page of a PDF. Defaults to pdftoppm.
	RenderPDF func(ctx context.Context, path string, dpi int) (image.Image, error)
}

// Load decodes path with a default Loader at the given DPI.
func Load(ctx context.Context, path string, dpi int) (*Page, error) {
	return Loader{DPI: dpi}.Load(ctx, path)
}

// Load decodes the file at path into a Page.
func (l Loader) Load(ctx context.Context, path string) (*Page, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	page := &Page{Path: path, Format: format, Data: data}

	if format.IsImage() {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
		}
		page.Image = img
		return page, nil
	}

	dpi := l.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	render := l.RenderPDF
	if render == nil {
		render = Pdftoppm
	}
	img, err := render(ctx, path, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	page.Image = img
	page.DPI = dpi

	return page, nil
}
