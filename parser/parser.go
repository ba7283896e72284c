package parser

import (
	"encoding/base64"
	"strings"

	"karaoke-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// DefaultTailDurationMs is the length given to the last line of a simple LRC
// document, which has no following line to end it.
const DefaultTailDurationMs = 5000

// Options tunes a parse. The zero value auto-detects the format and uses
// DefaultTailDurationMs.
type Options struct {
	Format Format

	// TailDurationMs is the duration of the final LRC line
	TailDurationMs int64

	// NormalizeCredits drops credit lines ("Composer：xxx") from the head and
	// tail of LRC documents before parsing
	NormalizeCredits bool
}

// Parse decodes content in the given format. FormatUnknown falls back to
// content sniffing. It never panics and only fails when nothing recognises
// the content.
func Parse(content string, format Format) Result {
	return ParseWithOptions(content, Options{Format: format})
}

// ParseFile uses the filename extension as a hint. Content sniffing takes
// over when the extension says nothing or its parser cannot use the content.
func ParseFile(content, filename string) Result {
	format, ok := DetectFormatFromExtension(filename)
	if !ok {
		format = FormatUnknown
	}
	// .lrc covers both LRC dialects; the LRC parser handles either
	if format == FormatLRC && DetectFormat(content) == FormatEnhancedLRC {
		format = FormatEnhancedLRC
	}
	return ParseWithOptions(content, Options{Format: format})
}

// ParseWithOptions is Parse with explicit options. An explicit format is a
// hint: when its parser fails, or finds no lines in content that sniffs as
// another format, the sniffed format is parsed instead.
func ParseWithOptions(content string, opts Options) Result {
	content = strings.TrimPrefix(content, "\ufeff")
	if opts.TailDurationMs <= 0 {
		opts.TailDurationMs = DefaultTailDurationMs
	}

	sniffed := DetectFormat(content)
	if opts.Format == FormatUnknown {
		log.Debugf("%s Detected format: %s", logcolors.LogParser, sniffed)
		return parseAs(content, sniffed, opts)
	}

	result := parseAs(content, opts.Format, opts)
	if sniffed == FormatUnknown || sameFamily(sniffed, opts.Format) {
		return result
	}
	if r, ok := result.(Success); ok && len(r.Lines) > 0 {
		return result
	}

	log.Debugf("%s Content does not match %s hint, parsing as %s", logcolors.LogParser, opts.Format, sniffed)
	if fallback, ok := parseAs(content, sniffed, opts).(Success); ok {
		return fallback
	}
	return result
}

// sameFamily treats the two LRC dialects as one; the LRC parser reads both.
func sameFamily(a, b Format) bool {
	isLRC := func(f Format) bool { return f == FormatLRC || f == FormatEnhancedLRC }
	return a == b || (isLRC(a) && isLRC(b))
}

func parseAs(content string, format Format, opts Options) Result {
	switch format {
	case FormatTTML:
		doc, err := parseTTML(content)
		if err != nil {
			log.Warnf("%s TTML parse failed: %v", logcolors.LogParser, err)
			return Failure{Reason: err.Error(), Format: format}
		}
		return Success{Document: doc, Format: format}

	case FormatLRC, FormatEnhancedLRC:
		if opts.NormalizeCredits {
			content = NormalizeLRC(content)
		}
		doc := parseLRC(content, opts.TailDurationMs)
		return Success{Document: doc, Format: format}
	}

	log.Debugf("%s No parser recognised content (length: %d bytes)", logcolors.LogParser, len(content))
	return Failure{Reason: "unrecognized lyrics format", Format: FormatUnknown}
}

// DecodeBase64Content decodes base64-encoded lyrics and strips a leading BOM.
func DecodeBase64Content(encoded string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(string(decoded), "\ufeff"), nil
}
