package engine

import "karaoke-lyrics-go/lyrics"

// NoCurrentLine is UiState.CurrentLineIndex when no line contains the time.
const NoCurrentLine = -1

// LineUiState is the derived display state of one line. Exactly one of
// IsPlaying, HasPlayed and IsUpcoming is true.
type LineUiState struct {
	IsPlaying           bool    `json:"isPlaying"`
	HasPlayed           bool    `json:"hasPlayed"`
	IsUpcoming          bool    `json:"isUpcoming"`
	DistanceFromCurrent int     `json:"distanceFromCurrent"`
	Opacity             float64 `json:"opacity"`
	Scale               float64 `json:"scale"`
	BlurRadius          float64 `json:"blurRadius"`
}

// UiState is a full snapshot for one instant. It is rebuilt from scratch on
// every update and never patched.
type UiState struct {
	Lines            []lyrics.Line       `json:"lines"`
	CurrentTimeMs    int64               `json:"currentTimeMs"`
	CurrentLineIndex int                 `json:"currentLineIndex"`
	LineStates       map[int]LineUiState `json:"lineStates"`
	IsInitialized    bool                `json:"isInitialized"`
}

// HasCurrentLine reports whether some line contains CurrentTimeMs.
func (s UiState) HasCurrentLine() bool {
	return s.CurrentLineIndex != NoCurrentLine
}

// CurrentLine returns the playing line, if any.
func (s UiState) CurrentLine() (lyrics.Line, bool) {
	if !s.HasCurrentLine() || s.CurrentLineIndex >= len(s.Lines) {
		return lyrics.Line{}, false
	}
	return s.Lines[s.CurrentLineIndex], true
}
