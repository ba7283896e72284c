package parser

import (
	"regexp"
	"strings"
)

const (
	// PureMusicText is the Chinese placeholder some sources use for instrumental tracks
	PureMusicText = "纯音乐，请欣赏"

	// InstrumentalText is the replacement text for pure music
	InstrumentalText = "[Instrumental Only]"

	// MaxHeadTailLines is the number of lines to scan from head/tail for credit lines
	MaxHeadTailLines = 30
)

// Credit lines, e.g. "[00:05.00]Composed by：xxx" (full-width colon)
var creditRegex = regexp.MustCompile(`^\[\d{1,3}:\d{1,2}[.:]\d{1,3}\].+：.+`)

// NormalizeLRC filters credit lines from the head and tail of an LRC document
// and replaces the pure-music placeholder. Header tags are kept so offsets
// still apply.
func NormalizeLRC(content string) string {
	content = strings.ReplaceAll(content, "&apos;", "'")

	if strings.Contains(content, PureMusicText) {
		return "[00:00.00]" + InstrumentalText
	}

	var headers, timed []string
	for _, rawLine := range strings.Split(content, "\n") {
		rawLine = strings.TrimSpace(rawLine)
		switch {
		case rawLine == "":
		case metadataRegex.MatchString(rawLine):
			headers = append(headers, rawLine)
		case lrcStampRegex.MatchString(rawLine):
			timed = append(timed, rawLine)
		}
	}

	if len(timed) == 0 {
		return content
	}

	// Head: drop everything up to and including the last credit line in the
	// first MaxHeadTailLines lines (this also removes title lines before credits)
	headCut := 0
	headLimit := MaxHeadTailLines
	if headLimit > len(timed) {
		headLimit = len(timed)
	}
	for i := headLimit - 1; i >= 0; i-- {
		if creditRegex.MatchString(timed[i]) {
			headCut = i + 1
			break
		}
	}

	// Tail: drop from the last credit line in the last MaxHeadTailLines lines
	tailCut := 0
	for i := 0; i < MaxHeadTailLines && i < len(timed); i++ {
		idx := len(timed) - 1 - i
		if idx < headCut {
			break
		}
		if creditRegex.MatchString(timed[idx]) {
			tailCut = i + 1
			break
		}
	}

	endIdx := len(timed) - tailCut
	if endIdx < headCut {
		endIdx = headCut
	}

	return strings.Join(append(headers, timed[headCut:endIdx]...), "\n")
}
