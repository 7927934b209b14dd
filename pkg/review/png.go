package review

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"

	"github.com/gardar/planscan/pkg/schedule"
)

// RenderPNG writes a preview of img, scaled down to fit maxW x maxH, with
// the box of every event outlined. A zero limit leaves that side free.
func RenderPNG(w io.Writer, img image.Image, events []schedule.Event, maxW, maxH int) error {
	if img == nil {
		return errors.New("no image to render")
	}
	src := img.Bounds()
	if src.Empty() {
		return errors.New("image is empty")
	}

	scale := fitScale(src.Dx(), src.Dy(), maxW, maxH)
	dstW := max(1, int(math.Round(float64(src.Dx())*scale)))
	dstH := max(1, int(math.Round(float64(src.Dy())*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	for _, e := range events {
		r := image.Rect(
			int(math.Round(float64(e.Box.X)*scale)),
			int(math.Round(float64(e.Box.Y)*scale)),
			int(math.Round(float64(e.Box.Right())*scale)),
			int(math.Round(float64(e.Box.Bottom())*scale)),
		)
		strokeRect(dst, r, eventColor(e), 2)
	}

	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

// fitScale returns the factor that fits w x h inside maxW x maxH without
// ever enlarging.
func fitScale(w, h, maxW, maxH int) float64 {
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	return scale
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color, thickness int) {
	fill := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), fill, image.Point{}, draw.Src)
	}
}
