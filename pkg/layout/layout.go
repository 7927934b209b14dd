// Package layout reconstructs logical text blocks from OCR fragments on a
// scanned weekly schedule.
//
// OCR engines usually split one visual phrase into many word fragments. This
// package detects the page's ruled grid and merges fragments back into lines
// and then into cell-sized blocks, never letting a block cross a grid rule.
//
// Key Types:
//
// - Box: A rectangle in page-pixel coordinates
// - Fragment: A piece of recognized text with its bounding box
// - Separators: Row and column positions of the ruled grid
// - Merger: Distance thresholds for the two merge passes
//
// Main Functions:
//
// - DetectSeparators: Finds horizontal and vertical rules by ink projection
// - Merger.MergeLines: Joins neighbouring fragments into lines
// - Merger.MergeAreas: Joins nearby lines into cell blocks
// - Merger.Merge: Runs both passes
package layout
