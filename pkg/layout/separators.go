package layout

import (
	"image"

	"golang.org/x/image/draw"
)

// Separators holds the positions of the ruled grid detected on a page.
// Lines are y coordinates of horizontal rules, Columns are x coordinates of
// vertical rules. Both are sorted ascending and may be empty.
type Separators struct {
	Lines   []int `json:"lines"`
	Columns []int `json:"columns"`
}

// DetectSeparators finds grid rules by projecting ink density.
//
// The image is reduced to luminance and inverted so that ink is bright. A
// pixel column whose summed ink exceeds a third of a full-height black line
// is a vertical rule; a pixel row whose sum exceeds half of a full-width
// black line is a horizontal rule. A page without rules yields empty slices.
func DetectSeparators(img image.Image) Separators {
	var seps Separators
	if img == nil {
		return seps
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return seps
	}

	gray := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)

	colSums := make([]int, width)
	rowSums := make([]int, height)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for x, v := range row {
			ink := 255 - int(v)
			colSums[x] += ink
			rowSums[y] += ink
		}
	}

	// Compare sum*k > 255*dim to keep the thresholds exact in integers.
	for x, sum := range colSums {
		if sum*3 > 255*height {
			seps.Columns = append(seps.Columns, x)
		}
	}
	for y, sum := range rowSums {
		if sum*2 > 255*width {
			seps.Lines = append(seps.Lines, y)
		}
	}

	return seps
}

// crosses reports whether any separator lies in (min(a, b), max(a, b)].
// A fragment starting on a rule belongs to the cell after it.
func crosses(a, b int, seps []int) bool {
	lo, hi := min(a, b), max(a, b)
	for _, s := range seps {
		if s > lo && s <= hi {
			return true
		}
	}
	return false
}
