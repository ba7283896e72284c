package parser

import "karaoke-lyrics-go/lyrics"

// Result is either a Success or a Failure. Callers branch with a type switch:
//
//	switch r := parser.Parse(content, parser.FormatUnknown).(type) {
//	case parser.Success:
//	case parser.Failure:
//	}
type Result interface {
	Succeeded() bool
	result()
}

// Success carries the parsed document and the format that produced it.
type Success struct {
	lyrics.Document
	Format Format
}

func (Success) Succeeded() bool { return true }
func (Success) result()         {}

// Failure means no parser recognised the content.
type Failure struct {
	Reason string
	Format Format
}

func (Failure) Succeeded() bool { return false }
func (Failure) result()         {}

// Error lets a Failure travel as an error.
func (f Failure) Error() string {
	return "lyrics parse failed: " + f.Reason
}
