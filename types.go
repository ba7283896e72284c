package main

import (
	"encoding/json"

	"karaoke-lyrics-go/cache"
	"karaoke-lyrics-go/circuitbreaker"
	"karaoke-lyrics-go/engine"
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/style"
)

// ParseRequest is the body of POST /parse and POST /sessions. Exactly one of
// Content and ContentBase64 is expected.
type ParseRequest struct {
	Content       string `json:"content,omitempty"`
	ContentBase64 string `json:"contentBase64,omitempty"`
	Filename      string `json:"filename,omitempty"`
	Format        string `json:"format,omitempty"`
}

// ParseResponse is a parsed document plus summary fields.
type ParseResponse struct {
	Format     string          `json:"format"`
	Lines      []lyrics.Line   `json:"lines"`
	Metadata   lyrics.Metadata `json:"metadata"`
	Warnings   []string        `json:"warnings,omitempty"`
	LineCount  int             `json:"lineCount"`
	DurationMs int64           `json:"durationMs"`
}

// CreateSessionRequest starts a playback session. Style fields are laid
// over Preset, which defaults to the server's base style.
type CreateSessionRequest struct {
	ParseRequest
	Preset string          `json:"preset,omitempty"`
	Style  json.RawMessage `json:"style,omitempty"`
}

type SessionResponse struct {
	ID       string       `json:"id"`
	Document ParseResponse `json:"document"`
	Config   style.Config `json:"config"`
}

// StateResponse is one tick without the line list, which the client
// already holds from session creation.
type StateResponse struct {
	CurrentTimeMs    int64                      `json:"currentTimeMs"`
	CurrentLineIndex int                        `json:"currentLineIndex"`
	LineStates       map[int]engine.LineUiState `json:"lineStates"`
	ScrollOffset     float64                    `json:"scrollOffset"`
	ScrollTarget     float64                    `json:"scrollTarget"`
	SongProgress     float64                    `json:"songProgress"`
	LineProgress     float64                    `json:"lineProgress"`
	ActiveSyllable   int                        `json:"activeSyllable"`
}

// CharacterView is the resolved look of one character at an instant.
type CharacterView struct {
	engine.CharacterTiming
	Progress  float64                        `json:"progress"`
	Color     string                         `json:"color"`
	Animation engine.CharacterAnimationState `json:"animation"`
}

type CharactersResponse struct {
	LineIndex  int                   `json:"lineIndex"`
	TimeMs     int64                 `json:"timeMs"`
	Characters []CharacterView       `json:"characters"`
	Gradient   []engine.GradientStop `json:"gradient"`
}

// StreamRequest is a client frame on the websocket stream.
type StreamRequest struct {
	TimeMs int64 `json:"t"`
}

type PresetsResponse struct {
	Presets   []string `json:"presets"`
	Gradients []string `json:"gradients"`
	Viewers   []string `json:"viewers"`
}

// CacheDumpResponse is the response format for GET /cache.
type CacheDumpResponse struct {
	NumberOfKeys int                         `json:"number_of_keys"`
	SizeInKB     int                         `json:"size_kb"`
	Tiers        cache.HitStats              `json:"tiers"`
	Breaker      *circuitbreaker.Snapshot    `json:"breaker,omitempty"`
	Entries      map[string]CacheEntrySummary `json:"entries"`
}

type CacheEntrySummary struct {
	StoredAt   string `json:"storedAt"`
	Compressed bool   `json:"compressed"`
	SizeBytes  int    `json:"sizeBytes"`
}

// cachedDocument is what the document cache stores per content key.
type cachedDocument struct {
	Format   string          `json:"format"`
	Document lyrics.Document `json:"document"`
}
