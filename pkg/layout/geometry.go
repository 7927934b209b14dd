package layout

import (
	"fmt"
	"image"
)

// Box is a rectangle in page-pixel coordinates.
// X and Y are the top-left corner.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Unpack returns the coordinate tuple of the box.
func (b Box) Unpack() (x, y, w, h int) {
	return b.X, b.Y, b.W, b.H
}

// Rect returns the box as an image.Rectangle, ready for drawing.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() int { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() int { return b.Y + b.H }

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	x1, y1 := min(b.X, o.X), min(b.Y, o.Y)
	x2, y2 := max(b.Right(), o.Right()), max(b.Bottom(), o.Bottom())
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

func (b Box) String() string {
	return fmt.Sprintf("x: %d y: %d w: %d h: %d", b.X, b.Y, b.W, b.H)
}

// Fragment is a piece of recognized text and its bounding box.
// Before merging it is a single OCR word; after merging it is a block.
type Fragment struct {
	Box
	Text string `json:"text"`
}

// NewFragment creates a fragment from its coordinates and text
func NewFragment(x, y, w, h int, text string) Fragment {
	return Fragment{Box: Box{X: x, Y: y, W: w, H: h}, Text: text}
}

// combine merges two fragments into one covering both, keeping text order.
func combine(a, b Fragment) Fragment {
	return Fragment{Box: a.Box.Union(b.Box), Text: a.Text + " " + b.Text}
}
