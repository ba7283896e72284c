package lyrics

import "sort"

// Progress returns the normalized position of t inside [start, end], clamped
// to [0, 1]. A window with end <= start has no progress and yields 0.
func Progress(start, end, t int64) float64 {
	if end <= start {
		return 0
	}
	p := float64(t-start) / float64(end-start)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Contains reports whether start <= t <= end for the given window.
func Contains(item Timed, t int64) bool {
	return item.StartMs() <= t && t <= item.EndMs()
}

// FindLineIndexAt returns the index of the first line, in list order, whose
// window contains t, or -1. Overlapping lines resolve to the earlier entry.
func FindLineIndexAt(lines []Line, t int64) int {
	for i, line := range lines {
		if line.Start <= t && t <= line.End {
			return i
		}
	}
	return -1
}

// FindLineAt is FindLineIndexAt returning the line itself.
func FindLineAt(lines []Line, t int64) (Line, bool) {
	if i := FindLineIndexAt(lines, t); i >= 0 {
		return lines[i], true
	}
	return Line{}, false
}

// NextLineIndex returns the index of the first line starting after t, or -1.
func NextLineIndex(lines []Line, t int64) int {
	for i, line := range lines {
		if line.Start > t {
			return i
		}
	}
	return -1
}

// PreviousLineIndex returns the index of the last line that ended before t, or -1.
func PreviousLineIndex(lines []Line, t int64) int {
	idx := -1
	for i, line := range lines {
		if line.End < t {
			idx = i
		}
	}
	return idx
}

// LinesInRange returns the lines whose windows overlap [from, to].
func LinesInRange(lines []Line, from, to int64) []Line {
	var out []Line
	for _, line := range lines {
		if line.Start <= to && line.End >= from {
			out = append(out, line)
		}
	}
	return out
}

// TotalDuration is the span from the earliest line start to the latest line end.
func TotalDuration(lines []Line) int64 {
	if len(lines) == 0 {
		return 0
	}
	first, last := lines[0].Start, lines[0].End
	for _, line := range lines[1:] {
		if line.Start < first {
			first = line.Start
		}
		if line.End > last {
			last = line.End
		}
	}
	return last - first
}

// SongProgress is the playback position across the whole song in [0, 1].
func SongProgress(lines []Line, t int64) float64 {
	if len(lines) == 0 {
		return 0
	}
	first := lines[0].Start
	for _, line := range lines[1:] {
		if line.Start < first {
			first = line.Start
		}
	}
	return Progress(first, first+TotalDuration(lines), t)
}

// LineProgress is the playback position inside a single line.
func LineProgress(line Line, t int64) float64 {
	return Progress(line.Start, line.End, t)
}

// ActiveSyllableIndex returns the first syllable whose window contains t, or -1.
func ActiveSyllableIndex(line Line, t int64) int {
	for i, s := range line.Syllables {
		if s.Start <= t && t <= s.End {
			return i
		}
	}
	return -1
}

// SortByStart returns a copy of lines stably sorted by start time.
func SortByStart(lines []Line) []Line {
	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return sorted
}
