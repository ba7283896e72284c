package lyrics

import "strings"

// NewLine creates a line with explicit bounds.
func NewLine(start, end int64, syllables ...Syllable) Line {
	copied := make([]Syllable, len(syllables))
	copy(copied, syllables)
	return Line{
		Syllables: copied,
		Start:     start,
		End:       end,
	}
}

// LineFromText splits text on whitespace into one syllable per word and gives
// each word an even slice of [start, end]. Words keep a trailing space so that
// Content() reproduces the words separated by single spaces. The last word
// absorbs the division remainder.
func LineFromText(text string, start, end int64) Line {
	words := strings.Fields(text)
	line := Line{Start: start, End: end}
	if len(words) == 0 {
		return line
	}

	duration := end - start
	if duration < 0 {
		duration = 0
	}
	wordDuration := duration / int64(len(words))

	line.Syllables = make([]Syllable, len(words))
	for i, word := range words {
		wordStart := start + int64(i)*wordDuration
		wordEnd := wordStart + wordDuration
		if i == len(words)-1 {
			wordEnd = start + duration
		} else {
			word += " "
		}
		line.Syllables[i] = Syllable{Content: word, Start: wordStart, End: wordEnd}
	}
	return line
}

// LineBuilder assembles a Line step by step. When no explicit bounds are set
// the line spans from the earliest syllable start to the latest syllable end.
type LineBuilder struct {
	syllables       []Syllable
	start, end      int64
	boundsSet       bool
	isAccompaniment bool
	alignment       Alignment
	agent           string
}

// NewLineBuilder returns an empty builder.
func NewLineBuilder() *LineBuilder {
	return &LineBuilder{}
}

// Syllable appends a timed syllable.
func (b *LineBuilder) Syllable(content string, start, end int64) *LineBuilder {
	b.syllables = append(b.syllables, Syllable{Content: content, Start: start, End: end})
	return b
}

// Span sets explicit line bounds.
func (b *LineBuilder) Span(start, end int64) *LineBuilder {
	b.start, b.end = start, end
	b.boundsSet = true
	return b
}

// Accompaniment marks the line as background vocals.
func (b *LineBuilder) Accompaniment() *LineBuilder {
	b.isAccompaniment = true
	return b
}

func (b *LineBuilder) Align(a Alignment) *LineBuilder {
	b.alignment = a
	return b
}

func (b *LineBuilder) Agent(agent string) *LineBuilder {
	b.agent = agent
	return b
}

// Build returns the finished line. The builder can keep being used afterwards;
// the returned line does not share its syllable slice.
func (b *LineBuilder) Build() Line {
	line := NewLine(b.start, b.end, b.syllables...)
	line.IsAccompaniment = b.isAccompaniment
	line.Alignment = b.alignment
	line.Agent = b.agent

	if !b.boundsSet && len(b.syllables) > 0 {
		line.Start, line.End = b.syllables[0].Start, b.syllables[0].End
		for _, s := range b.syllables[1:] {
			if s.Start < line.Start {
				line.Start = s.Start
			}
			if s.End > line.End {
				line.End = s.End
			}
		}
	}
	return line
}
