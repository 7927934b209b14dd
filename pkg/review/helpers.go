package review

// normalizeCoords rescales page pixel coords to the PDF coords.
func normalizeCoords(x, y, pageW, pageH, pdfW, pdfH float64) (float64, float64) {
	nx := (x / pageW) * pdfW
	ny := (y / pageH) * pdfH
	return nx, ny
}
