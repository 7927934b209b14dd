// Package review renders what the pipeline understood of a page so a person
// can check it before exporting.
//
// The review PDF shows the original page with the detected grid and every
// event box drawn over it. The text of every merged block sits on a hidden
// layer, so the PDF is searchable and the recognized text can be copied.
//
// Colours:
//
// - Blue: detected separator rules
// - Green: event selected for export
// - Red: event left out of the export
// - Orange: event no column claimed
//
// Main Functions:
//
// - RenderPDF: Annotated, searchable review PDF
// - RenderPNG: Scaled PNG preview with the event boxes
package review

import (
	"image/color"

	"github.com/gardar/planscan/pkg/schedule"
)

// Options holds user options for the review PDF
type Options struct {
	Debug     bool   // Show the text layer in red instead of hiding it
	LayerName string // Name of the text layer
	LineWidth float64
	Font      FontConfig
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() Options {
	return Options{
		LayerName: "Texte OCR",
		LineWidth: 1.5,
		Font:      DefaultFont,
	}
}

// FontConfig contains font settings for text layer rendering
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont is Helvetica, one of the PDF core fonts
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}

var (
	separatorColor  = color.RGBA{0, 90, 255, 255}
	selectedColor   = color.RGBA{0, 170, 0, 255}
	deselectedColor = color.RGBA{220, 0, 0, 255}
	unassignedColor = color.RGBA{255, 140, 0, 255}
)

// eventColor returns the box colour of an event.
func eventColor(e schedule.Event) color.RGBA {
	switch {
	case !e.Assigned():
		return unassignedColor
	case e.Flag:
		return selectedColor
	default:
		return deselectedColor
	}
}
