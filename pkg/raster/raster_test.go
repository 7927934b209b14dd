package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"week.png", PNG, false},
		{"WEEK.JPG", JPEG, false},
		{"scan.jpeg", JPEG, false},
		{"planning.pdf", PDF, false},
		{"photo.tiff", TIFF, false},
		{"shot.webp", WEBP, false},
		{"notes.docx", Unknown, true},
		{"noext", Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := Detect(tt.filename)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
			if tt.wantErr && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestFormatMimeType(t *testing.T) {
	if PDF.MimeType() != "application/pdf" || JPEG.MimeType() != "image/jpeg" {
		t.Error("Unexpected mime types")
	}
	if PDF.IsImage() || Unknown.IsImage() || !PNG.IsImage() {
		t.Error("Unexpected IsImage result")
	}
}

func writeImage(t *testing.T, path string, enc func(*bytes.Buffer, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	img.Set(3, 4, color.Black)
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "week.png")
	jpgPath := filepath.Join(dir, "week.jpg")
	writeImage(t, pngPath, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })
	writeImage(t, jpgPath, func(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) })

	for _, path := range []string{pngPath, jpgPath} {
		page, err := Load(context.Background(), path, 0)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", path, err)
		}
		if page.Width() != 40 || page.Height() != 20 {
			t.Errorf("Unexpected size %dx%d", page.Width(), page.Height())
		}
		if page.DPI != 0 || page.PixelsToPoints() != 1 {
			t.Errorf("Expected pixel units for images, got dpi %d", page.DPI)
		}
		if len(page.Data) == 0 {
			t.Error("Expected raw bytes to be kept")
		}
	}
}

func TestLoadUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), path, 300); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadCorruptImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), path, 300); err == nil {
		t.Error("Expected decode error")
	}
}

func TestLoadPDFUsesRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotDPI int
	loader := Loader{RenderPDF: func(_ context.Context, p string, dpi int) (image.Image, error) {
		gotDPI = dpi
		return image.NewGray(image.Rect(0, 0, 2480, 3508)), nil
	}}

	page, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if gotDPI != DefaultDPI || page.DPI != DefaultDPI {
		t.Errorf("Expected default DPI %d, got renderer %d page %d", DefaultDPI, gotDPI, page.DPI)
	}
	if page.Format != PDF || page.PixelsToPoints() != 72.0/300 {
		t.Errorf("Unexpected page %+v", page.Format)
	}
}
