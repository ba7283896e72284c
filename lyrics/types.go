package lyrics

import (
	"fmt"
	"strings"
)

// Timed is the capability shared by everything that occupies a time window
// and renders as text.
type Timed interface {
	StartMs() int64
	EndMs() int64
	Content() string
}

// Syllable is the smallest timed text unit and the unit of karaoke highlighting.
// Content carries its own trailing whitespace when words need separating.
type Syllable struct {
	Content string `json:"content"`
	Start   int64  `json:"startMs"`
	End     int64  `json:"endMs"`
}

func (s Syllable) StartMs() int64 { return s.Start }
func (s Syllable) EndMs() int64   { return s.End }

// Duration returns the syllable length in milliseconds.
func (s Syllable) Duration() int64 { return s.End - s.Start }

// Alignment is the horizontal placement of a line.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseAlignment accepts left/center/right plus the TTML start/end keywords.
func ParseAlignment(s string) (Alignment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return AlignLeft, true
	case "center", "centre":
		return AlignCenter, true
	case "right", "end":
		return AlignRight, true
	}
	return AlignLeft, false
}

func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Alignment) UnmarshalText(text []byte) error {
	parsed, ok := ParseAlignment(string(text))
	if !ok {
		return fmt.Errorf("invalid alignment %q", string(text))
	}
	*a = parsed
	return nil
}

// Line is one displayable unit of lyrics. Start and End come from the source
// document's own line timing and need not match the syllable bounds.
//
// Lines are treated as immutable once handed to the engine; build a new Line
// instead of editing Syllables in place.
type Line struct {
	Syllables       []Syllable `json:"syllables"`
	Start           int64      `json:"startMs"`
	End             int64      `json:"endMs"`
	IsAccompaniment bool       `json:"isAccompaniment"`
	Alignment       Alignment  `json:"alignment"`
	Agent           string     `json:"agent,omitempty"`
}

func (l Line) StartMs() int64 { return l.Start }
func (l Line) EndMs() int64   { return l.End }

// Content concatenates the syllable contents in order.
func (l Line) Content() string {
	var b strings.Builder
	for _, s := range l.Syllables {
		b.WriteString(s.Content)
	}
	return b.String()
}

// Duration returns the line length in milliseconds.
func (l Line) Duration() int64 { return l.End - l.Start }

// Metadata holds document level tags. OffsetMs has already been applied to
// every timestamp of the owning Document.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Language string `json:"language,omitempty"`
	OffsetMs int64  `json:"offsetMs"`
}

// Document is the unified parse output.
type Document struct {
	Lines    []Line   `json:"lines"`
	Metadata Metadata `json:"metadata"`
	Warnings []string `json:"warnings,omitempty"`
}
