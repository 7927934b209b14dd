// Package schedule turns merged text blocks of a weekly planning into dated
// events.
//
// The five weekday headers ("Lundi 6 janvier" ... "Vendredi 10 janvier")
// give each column its date, the detected vertical rules give each column
// its horizontal band, and every block containing a "HH:MM - HH:MM" range
// becomes an Event placed in the band it mostly overlaps.
//
// Key Types:
//
// - Event: A scheduled activity with its date, times and source box
// - Week: Dates and bands of the five weekday columns
// - Reader: The full page-to-events pipeline
//
// Main Functions:
//
// - MapColumns: Finds the weekday headers and derives dates and bands
// - ExtractEvents: Builds events from blocks and assigns their day
// - Reader.Read: Runs OCR, separator detection, merging, mapping and extraction
package schedule

import "errors"

var (
	// ErrMissingHeader is returned when fewer than five weekday headers
	// could be resolved. The accompanying Week still holds the found days.
	ErrMissingHeader = errors.New("weekday header not found")

	// ErrUnknownMonth is returned when a header's month name is not French.
	ErrUnknownMonth = errors.New("unknown month name")
)

// Diagnostic is the message shown to the user when the week could not be
// fully read.
const Diagnostic = "Impossible de lire le planning. Si le fichier d'entrée est une photo, considérez utiliser une capture d'écran."
