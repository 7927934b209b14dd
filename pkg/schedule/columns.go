package schedule

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gardar/planscan/pkg/layout"
)

// DefaultYear is the year used when none is configured.
const DefaultYear = 2026

// Weekday is a column slot, Monday first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Days is the number of weekday columns of a planning.
const Days = 5

var weekdayNames = [Days]string{"lundi", "mardi", "mercredi", "jeudi", "vendredi"}

func (d Weekday) String() string {
	if d < 0 || int(d) >= Days {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

var months = [12]string{
	"janvier", "fevrier", "mars", "avril", "mai", "juin",
	"juillet", "aout", "septembre", "octobre", "novembre", "decembre",
}

var headerPattern = regexp.MustCompile(
	`(?i)\b(\d{1,2})\s+(janvier|février|fevrier|mars|avril|mai|juin|juillet|août|aout|septembre|octobre|novembre|décembre|decembre)\b`)

// articlePattern matches the word "Le". Go's \b only knows ASCII letters.
var articlePattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])Le(?:[^\p{L}\p{N}_]|$)`)

// Band is the horizontal pixel range of a column.
type Band struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Overlap returns how much of [left, right) falls inside the band.
func (b Band) Overlap(left, right int) int {
	return max(0, min(right, b.Max)-max(left, b.Min))
}

// Day is one resolved weekday column.
type Day struct {
	Found  bool   `json:"found"`
	Header string `json:"header,omitempty"`
	Date   string `json:"date,omitempty"`
	Band   Band   `json:"band"`
}

// Week holds the five weekday columns, Monday first. Slots whose header was
// not found have Found false and never receive events.
type Week [Days]Day

// Dates returns the resolved ISO dates, empty for missing slots.
func (w Week) Dates() [Days]string {
	var out [Days]string
	for i, d := range w {
		out[i] = d.Date
	}
	return out
}

// Complete reports whether every slot has a band and a date.
func (w Week) Complete() bool {
	for _, d := range w {
		if !d.Found || d.Date == "" {
			return false
		}
	}
	return true
}

// MapOptions tunes column mapping.
type MapOptions struct {
	Year      int // Year combined with the headers' day and month
	PageWidth int // Right limit of the last band, unbounded when 0
}

// IsHeader reports whether text looks like a weekday header.
func IsHeader(text string) bool {
	return headerPattern.MatchString(text) && !articlePattern.MatchString(text)
}

// MapColumns finds the weekday headers among blocks and derives each
// column's date and band from the vertical separators.
//
// The returned Week is always usable. The error, when non-nil, wraps
// ErrMissingHeader and/or ErrUnknownMonth and describes what is missing.
func MapColumns(blocks []layout.Fragment, columns []int, opts MapOptions) (Week, error) {
	var week Week
	var errs []error

	year := opts.Year
	if year <= 0 {
		year = DefaultYear
	}
	right := opts.PageWidth
	if right <= 0 {
		right = math.MaxInt
	}

	cols := append([]int(nil), columns...)
	sort.Ints(cols)

	for _, idx := range headerIndices(blocks) {
		header := blocks[idx]
		slot, ok := classifyWeekday(header.Text)
		if !ok {
			continue
		}

		day := Day{Found: true, Header: header.Text, Band: bandAt(header.X, cols, right)}
		date, err := CompactDate(header.Text, year)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", slot, err))
		} else {
			day.Date = date
		}
		week[slot] = day
	}

	for i, d := range week {
		if !d.Found {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingHeader, Weekday(i)))
		}
	}

	return week, errors.Join(errs...)
}

// headerIndices returns the indices of header blocks ordered by text.
func headerIndices(blocks []layout.Fragment) []int {
	var idx []int
	for i, b := range blocks {
		if IsHeader(b.Text) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return blocks[idx[a]].Text < blocks[idx[b]].Text
	})
	return idx
}

func classifyWeekday(text string) (Weekday, bool) {
	lower := strings.ToLower(text)
	for i, name := range weekdayNames {
		if strings.Contains(lower, name) {
			return Weekday(i), true
		}
	}
	return 0, false
}

// bandAt returns the band between the last separator at or before x and
// the first one after it.
func bandAt(x int, cols []int, right int) Band {
	band := Band{Min: 0, Max: right}
	i := sort.Search(len(cols), func(i int) bool { return cols[i] > x })
	if i > 0 {
		band.Min = cols[i-1]
	}
	if i < len(cols) {
		band.Max = cols[i]
	}
	return band
}

// CompactDate converts a header such as "lundi 6 janvier" to "2026-01-06".
// Month names are matched without regard to case or accents.
func CompactDate(header string, year int) (string, error) {
	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return "", fmt.Errorf("%w: no day and month in %q", ErrUnknownMonth, header)
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return "", fmt.Errorf("invalid day %q in %q", m[1], header)
	}

	month := monthIndex(m[2])
	if month == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownMonth, m[2])
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// monthIndex returns the 1-based month of a French month name, 0 if unknown.
func monthIndex(name string) int {
	folded := foldAccents(strings.ToLower(name))
	for i, m := range months {
		if m == folded {
			return i + 1
		}
	}
	return 0
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
