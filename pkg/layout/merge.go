package layout

// Merger holds the distance thresholds used by the two merge passes.
// All comparisons are strict: a distance equal to the threshold does not merge.
type Merger struct {
	LineX int // Max horizontal gap between consecutive fragments of a line
	LineY int // Max vertical offset between consecutive fragments of a line
	AreaX int // Max horizontal offset between a block seed and a candidate
	AreaY int // Max vertical offset between a block seed and a candidate
}

// DefaultMerger returns thresholds tuned for pages rendered at 300 DPI.
func DefaultMerger() Merger {
	return Merger{
		LineX: 300,
		LineY: 50,
		AreaX: 150,
		AreaY: 75,
	}
}

// Merge runs the line pass and then the area pass.
func (m Merger) Merge(frags []Fragment, seps Separators) []Fragment {
	return m.MergeAreas(m.MergeLines(frags, seps), seps)
}

// MergeLines joins consecutive fragments that read as one line.
//
// Fragments are expected in reading order. Each sweep walks the sequence
// from the end, pairing fragment i-1 with fragment i. A merged pair is
// skipped as a whole so every fragment takes part in at most one merge per
// sweep. Sweeps repeat until one produces no merge.
func (m Merger) MergeLines(frags []Fragment, seps Separators) []Fragment {
	if len(frags) == 0 {
		return []Fragment{}
	}

	cur := make([]Fragment, len(frags))
	copy(cur, frags)
	next := make([]Fragment, 0, len(frags))

	for {
		merged := false
		next = next[:0]

		i := len(cur) - 1
		for i > 0 {
			prev, f := cur[i-1], cur[i]
			if m.lineAdjacent(prev, f, seps) {
				next = append(next, combine(prev, f))
				i -= 2
				merged = true
			} else {
				next = append(next, f)
				i--
			}
		}
		if i == 0 {
			next = append(next, cur[0])
		}
		reverse(next)

		cur, next = next, cur
		if !merged {
			return cur
		}
	}
}

func (m Merger) lineAdjacent(a, b Fragment, seps Separators) bool {
	return abs(b.X-a.Right()) < m.LineX &&
		abs(b.Y-a.Y) < m.LineY &&
		!crosses(a.X, b.X, seps.Columns) &&
		!crosses(a.Y, b.Y, seps.Lines)
}

// MergeAreas groups lines that belong to the same cell.
//
// Every fragment not yet absorbed seeds a group and absorbs all later
// unabsorbed fragments close to the seed's own position. The pass repeats
// until nothing is absorbed, so its output is stable under a second run.
func (m Merger) MergeAreas(frags []Fragment, seps Separators) []Fragment {
	if len(frags) == 0 {
		return []Fragment{}
	}

	cur := make([]Fragment, len(frags))
	copy(cur, frags)

	for {
		out, merged := m.areaSweep(cur, seps)
		if !merged {
			return out
		}
		cur = out
	}
}

func (m Merger) areaSweep(frags []Fragment, seps Separators) ([]Fragment, bool) {
	consumed := make([]bool, len(frags))
	out := make([]Fragment, 0, len(frags))
	merged := false

	for i, seed := range frags {
		if consumed[i] {
			continue
		}
		group := seed
		for j := i + 1; j < len(frags); j++ {
			if consumed[j] || !m.areaAdjacent(seed, frags[j], seps) {
				continue
			}
			group = combine(group, frags[j])
			consumed[j] = true
			merged = true
		}
		out = append(out, group)
	}

	return out, merged
}

func (m Merger) areaAdjacent(seed, f Fragment, seps Separators) bool {
	return abs(f.X-seed.X) < m.AreaX &&
		abs(f.Y-seed.Y) < m.AreaY &&
		!crosses(seed.X, f.X, seps.Columns) &&
		!crosses(seed.Y, f.Y, seps.Lines)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func reverse(s []Fragment) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
