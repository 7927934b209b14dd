// Package hocr reads and writes hOCR, the HTML-based format OCR engines use
// to report recognized words together with their position on the page.
//
// hOCR is the interchange format between the OCR engines and the layout
// stage: tesseract emits it natively, Document AI results are converted to
// it, and a saved hOCR file can be replayed instead of running OCR again.
//
// The hierarchy follows the format: Document → Pages → Areas → Paragraphs
// → Lines → Words, each level carrying a bounding box.
//
// Key Types:
//
// - HOCR: A whole document
// - Page, Area, Paragraph, Line, Word: The 'ocr_page', 'ocr_carea',
//   'ocr_par', 'ocr_line' and 'ocrx_word' elements
// - BoundingBox: The 'bbox' property of an element
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR HTML into the object model
// - GenerateHOCRDocument: Renders the object model as hOCR HTML
// - Fragments: Flattens a page into positioned text fragments
// - FromFragments: Builds a page from positioned text fragments
package hocr
