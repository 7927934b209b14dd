package hocr

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// ErrNoPages is returned when a document contains no 'ocr_page' element.
var ErrNoPages = errors.New("no ocr_page elements found in hOCR data")

var charsetPattern = regexp.MustCompile(`(?i)charset=["']?([a-z0-9_\-]+)`)

// ParseHOCR converts raw hOCR data into a structured HOCR object.
// Documents declaring a Latin-1 charset are decoded to UTF-8 first.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	decoded, err := decodeCharset(data)
	if err != nil {
		return result, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR HTML: %w", err)
	}

	extractDocumentMeta(&result, doc)

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			result.Pages = append(result.Pages, processPage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(result.Pages) == 0 {
		return result, ErrNoPages
	}
	return result, nil
}

func decodeCharset(data []byte) ([]byte, error) {
	m := charsetPattern.FindSubmatch(data)
	if m == nil {
		return data, nil
	}
	switch strings.ToLower(string(m[1])) {
	case "utf-8", "utf8":
		return data, nil
	case "iso-8859-1", "latin1", "latin-1", "windows-1252", "cp1252":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", m[1], err)
		}
		return decoded, nil
	}
	return data, nil
}

// ParseTitle breaks down an hOCR title attribute into its properties
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts the bbox property of a title string,
// or nil when it has none.
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	return bboxFromProps(ParseTitle(title))
}

func bboxFromProps(props map[string][]string) *BoundingBox {
	bbox, ok := props["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// extractDocumentMeta reads the html lang attribute and the head section
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttrVal(n, "lang"); lang != "" {
					result.Language = lang
				} else if lang := getAttrVal(n, "xml:lang"); lang != "" {
					result.Language = lang
				}
			case "title":
				if n.FirstChild != nil {
					result.Title = n.FirstChild.Data
				}
			case "meta":
				applyMeta(result, getAttrVal(n, "name"), getAttrVal(n, "content"))
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

func applyMeta(result *HOCR, name, content string) {
	if name == "" || content == "" {
		return
	}
	switch name {
	case "ocr-system", "ocr-capabilities", "ocr-number-of-pages", "ocr-langs":
		result.Metadata[name] = content
	case "description":
		result.Description = content
	case "dc.language":
		result.Language = content
	}
}

// element holds the attributes shared by every hOCR element.
type element struct {
	id    string
	lang  string
	title string
	props map[string][]string
	bbox  BoundingBox
}

func readElement(n *html.Node) element {
	e := element{
		id:    getAttrVal(n, "id"),
		lang:  getAttrVal(n, "lang"),
		title: getAttrVal(n, "title"),
	}
	e.props = ParseTitle(e.title)
	if bbox := bboxFromProps(e.props); bbox != nil {
		e.bbox = *bbox
	}
	return e
}

// metadata copies the title properties not listed in skip.
func (e element) metadata(skip ...string) map[string]string {
	md := make(map[string]string)
	for k, v := range e.props {
		if k == "bbox" || contains(skip, k) {
			continue
		}
		md[k] = strings.Join(v, " ")
	}
	return md
}

// collect gathers the nearest descendants of n matching one of the classes,
// without descending into a match.
func collect(n *html.Node, classes ...func(string) bool) [][]*html.Node {
	found := make([][]*html.Node, len(classes))
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			class := getAttrVal(node, "class")
			for i, match := range classes {
				if match(class) {
					found[i] = append(found[i], node)
					return
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return found
}

func isArea(class string) bool { return strings.Contains(class, "ocr_carea") }
func isPar(class string) bool  { return strings.Contains(class, "ocr_par") }
func isWord(class string) bool { return strings.Contains(class, "ocrx_word") }

func isLine(class string) bool {
	for _, c := range []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"} {
		if strings.Contains(class, c) {
			return true
		}
	}
	return false
}

func processPage(n *html.Node) Page {
	e := readElement(n)
	page := Page{
		ID:       e.id,
		Lang:     e.lang,
		Title:    e.title,
		BBox:     e.bbox,
		Metadata: e.metadata("image", "ppageno"),
	}
	if image, ok := e.props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), `"`)
	}
	if ppageno, ok := e.props["ppageno"]; ok && len(ppageno) > 0 {
		page.PageNumber, _ = strconv.Atoi(ppageno[0])
	}

	nodes := collect(n, isArea, isPar, isLine)
	for _, a := range nodes[0] {
		page.Areas = append(page.Areas, processArea(a))
	}
	for _, p := range nodes[1] {
		page.Paragraphs = append(page.Paragraphs, processParagraph(p))
	}
	for _, l := range nodes[2] {
		page.Lines = append(page.Lines, processLine(l))
	}
	return page
}

func processArea(n *html.Node) Area {
	e := readElement(n)
	area := Area{ID: e.id, Lang: e.lang, BBox: e.bbox, Metadata: e.metadata()}

	nodes := collect(n, isPar, isLine, isWord)
	for _, p := range nodes[0] {
		area.Paragraphs = append(area.Paragraphs, processParagraph(p))
	}
	for _, l := range nodes[1] {
		area.Lines = append(area.Lines, processLine(l))
	}
	for _, w := range nodes[2] {
		area.Words = append(area.Words, processWord(w))
	}
	return area
}

func processParagraph(n *html.Node) Paragraph {
	e := readElement(n)
	para := Paragraph{ID: e.id, Lang: e.lang, BBox: e.bbox, Metadata: e.metadata()}

	nodes := collect(n, isLine, isWord)
	for _, l := range nodes[0] {
		para.Lines = append(para.Lines, processLine(l))
	}
	for _, w := range nodes[1] {
		para.Words = append(para.Words, processWord(w))
	}
	return para
}

func processLine(n *html.Node) Line {
	e := readElement(n)
	line := Line{ID: e.id, Lang: e.lang, BBox: e.bbox, Metadata: e.metadata("baseline")}
	if baseline, ok := e.props["baseline"]; ok {
		line.Baseline = strings.Join(baseline, " ")
	}

	for _, w := range collect(n, isWord)[0] {
		line.Words = append(line.Words, processWord(w))
	}
	return line
}

func processWord(n *html.Node) Word {
	e := readElement(n)
	word := Word{
		ID:       e.id,
		Lang:     e.lang,
		BBox:     e.bbox,
		Text:     extractTextContent(n),
		Metadata: e.metadata("x_wconf", "lang"),
	}
	if conf, ok := e.props["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	if lang, ok := e.props["lang"]; ok && len(lang) > 0 {
		word.Lang = lang[0]
	}
	return word
}

// extractTextContent concatenates the text below n
func extractTextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func hasClass(n *html.Node, class string) bool {
	return strings.Contains(getAttrVal(n, "class"), class)
}

func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
