package parser

import (
	"testing"

	"karaoke-lyrics-go/lyrics"
)

func TestParseLRC_EnhancedWordTiming(t *testing.T) {
	doc := parseLRC("[00:12.00]<00:12.00>First <00:13.50>second", DefaultTailDurationMs)

	if len(doc.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(doc.Lines))
	}
	line := doc.Lines[0]
	if len(line.Syllables) != 2 {
		t.Fatalf("Expected 2 syllables, got %d", len(line.Syllables))
	}
	first := line.Syllables[0]
	if first.Content != "First " || first.Start != 12000 || first.End != 13500 {
		t.Errorf("Syllable 0 = %+v, want {First  12000 13500}", first)
	}
	second := line.Syllables[1]
	if second.Content != "second" || second.Start != 13500 {
		t.Errorf("Syllable 1 = %+v, want content %q starting at 13500", second, "second")
	}
	if line.Content() != "First second" {
		t.Errorf("Content() = %q, want %q", line.Content(), "First second")
	}
	if len(doc.Warnings) != 0 {
		t.Errorf("Enhanced LRC should not warn, got %v", doc.Warnings)
	}
}

func TestParseLRC_EnhancedTrailingMarker(t *testing.T) {
	doc := parseLRC("[00:01.00]<00:01.00>Hello <00:01.50>world<00:02.20>\n[00:05.00]<00:05.00>Next", DefaultTailDurationMs)

	if len(doc.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(doc.Lines))
	}
	line := doc.Lines[0]
	if len(line.Syllables) != 2 {
		t.Fatalf("Expected 2 syllables, got %d", len(line.Syllables))
	}
	if line.Syllables[1].End != 2200 {
		t.Errorf("Closing marker should end last word at 2200, got %d", line.Syllables[1].End)
	}
	if line.End != 5000 {
		t.Errorf("Line end = %d, want 5000", line.End)
	}
}

func TestParseLRC_EnhancedLeadText(t *testing.T) {
	doc := parseLRC("[00:10.00]Oh <00:11.00>yeah", DefaultTailDurationMs)

	if len(doc.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(doc.Lines))
	}
	syl := doc.Lines[0].Syllables
	if len(syl) != 2 {
		t.Fatalf("Expected 2 syllables, got %d", len(syl))
	}
	if syl[0].Content != "Oh " || syl[0].Start != 10000 || syl[0].End != 11000 {
		t.Errorf("Lead syllable = %+v", syl[0])
	}
}

func TestParseLRC_SimpleEstimatedTiming(t *testing.T) {
	doc := parseLRC("[00:10.00]First line here\n[00:20.00]Second line", DefaultTailDurationMs)

	if len(doc.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(doc.Lines))
	}
	first := doc.Lines[0]
	if first.Start != 10000 || first.End > 20000 {
		t.Errorf("First line bounds = [%d, %d], want start 10000 and end <= 20000", first.Start, first.End)
	}
	if len(first.Syllables) != 3 {
		t.Fatalf("Expected 3 word syllables, got %d", len(first.Syllables))
	}
	for i, s := range first.Syllables {
		if s.Start < first.Start || s.End > first.End {
			t.Errorf("Syllable %d [%d, %d] outside line bounds", i, s.Start, s.End)
		}
	}
	if first.Content() != "First line here" {
		t.Errorf("Content() = %q", first.Content())
	}

	last := doc.Lines[1]
	if last.End != 20000+DefaultTailDurationMs {
		t.Errorf("Last line end = %d, want %d", last.End, 20000+DefaultTailDurationMs)
	}

	found := false
	for _, w := range doc.Warnings {
		if w == warnSimpleLRC {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected estimated timing warning, got %v", doc.Warnings)
	}
}

func TestParseLRC_TailDuration(t *testing.T) {
	doc := parseLRC("[00:01.00]Only line", 2000)

	if len(doc.Lines) != 1 || doc.Lines[0].End != 3000 {
		t.Errorf("Expected line ending at 3000, got %+v", doc.Lines)
	}
}

func TestParseLRC_Metadata(t *testing.T) {
	content := `[ti:Song Title]
[ar:Some Artist]
[al:Album Name]
[by:Someone]
[offset:+500]
[00:01.00]Hello`

	doc := parseLRC(content, DefaultTailDurationMs)

	expected := lyrics.Metadata{
		Title:    "Song Title",
		Artist:   "Some Artist",
		Album:    "Album Name",
		Creator:  "Someone",
		OffsetMs: 500,
	}
	if doc.Metadata != expected {
		t.Errorf("Metadata = %+v, want %+v", doc.Metadata, expected)
	}
	if len(doc.Lines) != 1 || doc.Lines[0].Start != 1500 {
		t.Errorf("Expected offset applied to start, got %+v", doc.Lines)
	}
}

func TestParseLRC_Offset(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int64
	}{
		{
			name:     "positive offset",
			content:  "[offset:250]\n[00:02.00]Hi",
			expected: 2250,
		},
		{
			name:     "negative offset",
			content:  "[offset:-500]\n[00:02.00]Hi",
			expected: 1500,
		},
		{
			name:     "negative offset clamps at zero",
			content:  "[offset:-5000]\n[00:02.00]Hi",
			expected: 0,
		},
		{
			name:     "offset after lines still applies",
			content:  "[00:02.00]Hi\n[offset:100]",
			expected: 2100,
		},
		{
			name:     "invalid offset ignored",
			content:  "[offset:abc]\n[00:02.00]Hi",
			expected: 2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseLRC(tt.content, DefaultTailDurationMs)
			if len(doc.Lines) != 1 {
				t.Fatalf("Expected 1 line, got %d", len(doc.Lines))
			}
			if doc.Lines[0].Start != tt.expected {
				t.Errorf("Start = %d, want %d", doc.Lines[0].Start, tt.expected)
			}
		})
	}
}

func TestParseLRC_MultipleStamps(t *testing.T) {
	doc := parseLRC("[00:05.00][00:30.00]Chorus\n[00:10.00]Verse", DefaultTailDurationMs)

	if len(doc.Lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(doc.Lines))
	}
	expected := []struct {
		content string
		start   int64
		end     int64
	}{
		{"Chorus", 5000, 10000},
		{"Verse", 10000, 30000},
		{"Chorus", 30000, 35000},
	}
	for i, want := range expected {
		got := doc.Lines[i]
		if got.Content() != want.content || got.Start != want.start || got.End != want.end {
			t.Errorf("Line %d = %q [%d, %d], want %q [%d, %d]",
				i, got.Content(), got.Start, got.End, want.content, want.start, want.end)
		}
	}
}

func TestParseLRC_EmptyLinesEndPrevious(t *testing.T) {
	doc := parseLRC("[00:01.00]Hello\n[00:03.00]\n[00:08.00]Again", DefaultTailDurationMs)

	if len(doc.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[0].End != 3000 {
		t.Errorf("Empty stamp should end previous line at 3000, got %d", doc.Lines[0].End)
	}
}

func TestParseLRC_StampFormats(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int64
	}{
		{"centiseconds", "[01:02.50]x", 62500},
		{"milliseconds", "[01:02.500]x", 62500},
		{"colon separator", "[01:02:50]x", 62500},
		{"no fraction", "[01:02]x", 62000},
		{"three digit minutes", "[100:00.00]x", 6000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseLRC(tt.content, DefaultTailDurationMs)
			if len(doc.Lines) != 1 {
				t.Fatalf("Expected 1 line, got %d", len(doc.Lines))
			}
			if doc.Lines[0].Start != tt.expected {
				t.Errorf("Start = %d, want %d", doc.Lines[0].Start, tt.expected)
			}
		})
	}
}

func TestParseLRC_NoLines(t *testing.T) {
	doc := parseLRC("[ti:Nothing]\nplain text", DefaultTailDurationMs)

	if len(doc.Lines) != 0 {
		t.Errorf("Expected no lines, got %d", len(doc.Lines))
	}
	if len(doc.Warnings) != 1 || doc.Warnings[0] != warnNoLines {
		t.Errorf("Expected no-lines warning, got %v", doc.Warnings)
	}
}

func TestParseLRC_RTLAlignment(t *testing.T) {
	doc := parseLRC("[la:he]\n[00:01.00]shalom", DefaultTailDurationMs)

	if len(doc.Lines) != 1 || doc.Lines[0].Alignment != lyrics.AlignRight {
		t.Errorf("Expected right aligned line, got %+v", doc.Lines)
	}
}
