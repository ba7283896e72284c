package parser

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Format identifies a timed-text dialect.
type Format int

const (
	FormatUnknown Format = iota
	FormatTTML
	FormatLRC
	FormatEnhancedLRC
)

func (f Format) String() string {
	switch f {
	case FormatTTML:
		return "ttml"
	case FormatLRC:
		return "lrc"
	case FormatEnhancedLRC:
		return "enhanced_lrc"
	default:
		return "unknown"
	}
}

// ParseFormat maps a user supplied name onto a Format. Empty and unrecognised
// names map to FormatUnknown, which means "detect from content".
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ttml", "xml":
		return FormatTTML
	case "lrc":
		return FormatLRC
	case "enhanced_lrc", "enhanced-lrc", "elrc":
		return FormatEnhancedLRC
	default:
		return FormatUnknown
	}
}

var (
	// Root <tt> element, after an optional XML declaration, comments and a
	// doctype
	ttmlRootRegex = regexp.MustCompile(`^(?:<\?xml[^>]*\?>\s*)?(?:(?:<!--[\s\S]*?-->|<!DOCTYPE[^>]*>)\s*)*<tt[\s>]`)

	// [mm:ss.xx] at the start of a line
	lrcLineStampRegex = regexp.MustCompile(`(?m)^\s*\[\d{1,3}:\d{1,2}(?:[.:]\d{1,3})?\]`)

	// Inline <mm:ss.xx> word marker
	wordStampRegex = regexp.MustCompile(`<\d{1,3}:\d{1,2}(?:[.:]\d{1,3})?>`)
)

// DetectFormat sniffs the content: a <tt> root is TTML, line stamps plus
// inline word markers is enhanced LRC, line stamps alone is LRC.
func DetectFormat(content string) Format {
	trimmed := strings.TrimSpace(strings.TrimPrefix(content, "\ufeff"))
	if trimmed == "" {
		return FormatUnknown
	}

	if ttmlRootRegex.MatchString(trimmed) {
		return FormatTTML
	}

	if lrcLineStampRegex.MatchString(trimmed) {
		if wordStampRegex.MatchString(trimmed) {
			return FormatEnhancedLRC
		}
		return FormatLRC
	}

	return FormatUnknown
}

// DetectFormatFromExtension maps .ttml/.xml to TTML and .lrc to LRC.
func DetectFormatFromExtension(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ttml", ".xml":
		return FormatTTML, true
	case ".lrc":
		return FormatLRC, true
	}
	return FormatUnknown, false
}
