package review

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/draw"

	"github.com/gardar/planscan/pkg/layout"
	"github.com/gardar/planscan/pkg/raster"
	"github.com/gardar/planscan/pkg/schedule"
)

func whitePage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func sampleResult(page *raster.Page) *schedule.Result {
	meeting := schedule.NewEvent("09:00 - 09:45 Réunion équipe", layout.Box{X: 310, Y: 200, W: 138, H: 50})
	meeting.Day = "2026-01-07"
	sport := schedule.NewEvent("14:00 - 15:30 Sport", layout.Box{X: 710, Y: 400, W: 184, H: 20})
	sport.Day = "2026-01-09"
	sport.Flag = false
	stray := schedule.NewEvent("10:00 - 11:00 Atelier", layout.Box{X: 520, Y: 500, W: 150, H: 20})

	return &schedule.Result{
		Page:       page,
		Separators: layout.Separators{Lines: []int{150}, Columns: []int{100, 300, 500, 700, 900}},
		Blocks: []layout.Fragment{
			layout.NewFragment(110, 50, 146, 20, "Lundi 6 janvier"),
			layout.NewFragment(310, 200, 138, 50, "09:00 - 09:45 Réunion équipe"),
		},
		Events: []schedule.Event{meeting, sport, stray},
	}
}

func TestEventColor(t *testing.T) {
	selected := schedule.Event{Day: "2026-01-05", Flag: true}
	deselected := schedule.Event{Day: "2026-01-05"}
	unassigned := schedule.Event{Flag: true}

	tests := []struct {
		name  string
		event schedule.Event
		want  color.RGBA
	}{
		{"selected", selected, selectedColor},
		{"deselected", deselected, deselectedColor},
		{"unassigned", unassigned, unassignedColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eventColor(tt.event); got != tt.want {
				t.Errorf("eventColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		want             float64
	}{
		{200, 100, 100, 100, 0.5},
		{200, 100, 0, 25, 0.25},
		{200, 100, 0, 0, 1},
		{200, 100, 400, 400, 1},
	}
	for _, tt := range tests {
		if got := fitScale(tt.w, tt.h, tt.maxW, tt.maxH); got != tt.want {
			t.Errorf("fitScale(%d, %d, %d, %d) = %v, want %v", tt.w, tt.h, tt.maxW, tt.maxH, got, tt.want)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	events := []schedule.Event{
		{Day: "2026-01-05", Flag: true, Box: layout.Box{X: 20, Y: 20, W: 50, H: 30}},
		{Flag: true, Box: layout.Box{X: 120, Y: 40, W: 60, H: 40}},
	}

	var buf bytes.Buffer
	if err := RenderPNG(&buf, whitePage(200, 100), events, 100, 100); err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}

	out, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("Expected 100x50 preview, got %dx%d", b.Dx(), b.Dy())
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"selected box edge", 20, 10, selectedColor},
		{"unassigned box edge", 60, 20, unassignedColor},
		{"inside box", 20, 15, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := color.RGBAModel.Convert(out.At(tt.x, tt.y)).(color.RGBA)
			if got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRenderPNGErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPNG(&buf, nil, nil, 0, 0); err == nil {
		t.Error("Expected an error for a nil image")
	}
	if err := RenderPNG(&buf, image.NewRGBA(image.Rectangle{}), nil, 0, 0); err == nil {
		t.Error("Expected an error for an empty image")
	}
}

func TestRenderPDFFromImage(t *testing.T) {
	img := whitePage(1100, 800)
	var data bytes.Buffer
	if err := png.Encode(&data, img); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		page *raster.Page
	}{
		{"png bytes", &raster.Page{Format: raster.PNG, Data: data.Bytes(), Image: img}},
		{"re-encoded", &raster.Page{Format: raster.BMP, Image: img}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RenderPDF(tt.page, sampleResult(tt.page), DefaultOptions())
			if err != nil {
				t.Fatalf("RenderPDF failed: %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF")) {
				t.Error("Output is not a PDF")
			}
			if !bytes.Contains(out, []byte("/OCG")) {
				t.Error("Expected an optional content layer for the text")
			}
		})
	}
}

func TestRenderPDFFromPDF(t *testing.T) {
	// A rendered PDF page at 100 DPI maps 1100x800 pixels to 792x576 points.
	src := fpdf.New("P", "pt", "", "")
	src.AddPageFormat("P", fpdf.SizeType{Wd: 792, Ht: 576})
	src.SetFont("Helvetica", "", 12)
	src.Text(80, 40, "Lundi 6 janvier")
	var data bytes.Buffer
	if err := src.Output(&data); err != nil {
		t.Fatal(err)
	}

	page := &raster.Page{Format: raster.PDF, DPI: 100, Data: data.Bytes(), Image: whitePage(1100, 800)}
	out, err := RenderPDF(page, sampleResult(page), DefaultOptions())
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("Output is not a PDF")
	}
}

func TestRenderPDFErrors(t *testing.T) {
	if _, err := RenderPDF(nil, &schedule.Result{}, DefaultOptions()); err == nil {
		t.Error("Expected an error for a nil page")
	}
	page := &raster.Page{Image: whitePage(10, 10)}
	if _, err := RenderPDF(page, nil, DefaultOptions()); err == nil {
		t.Error("Expected an error for a nil result")
	}
}

func TestToLatin1(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Réunion équipe", "R\xe9union \xe9quipe"},
		{"Salle d’accueil", "Salle d'accueil"},
		{"Cœur – suite…", "Coeur - suite..."},
		{"Café ☃", "Caf\xe9 \x1a"},
	}
	for _, tt := range tests {
		if got := toLatin1(tt.in); got != tt.want {
			t.Errorf("toLatin1(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPDFTypographicText(t *testing.T) {
	page := &raster.Page{Format: raster.BMP, Image: whitePage(1100, 800)}
	res := sampleResult(page)
	res.Blocks = []layout.Fragment{
		layout.NewFragment(110, 50, 146, 20, "Lundi 6 janvier"),
		layout.NewFragment(310, 50, 146, 20, "Mardi 7 janvier"),
		layout.NewFragment(310, 200, 138, 50, "09:00 - 09:45 Réunion équipe"),
		layout.NewFragment(510, 300, 180, 20, "10:00 - 11:00 Salle d’accueil"),
		layout.NewFragment(710, 300, 180, 20, "Atelier ☃"),
	}

	out, err := RenderPDF(page, res, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("Output is not a PDF")
	}
}
