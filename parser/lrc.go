package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/lyrics"

	log "github.com/sirupsen/logrus"
)

const warnSimpleLRC = "Simple LRC: no native word timing; durations are estimated"

var (
	// LRC line timestamp: [mm:ss.xx], [mm:ss:xx] or [mm:ss]
	lrcStampRegex = regexp.MustCompile(`^\[(\d{1,3}):(\d{1,2})(?:[.:](\d{1,3}))?\]`)

	// Metadata tags pattern: [tag:value]
	metadataRegex = regexp.MustCompile(`^\[([a-zA-Z]+):([^\]]*)\]$`)

	// Enhanced LRC inline word marker: <mm:ss.xx>
	wordMarkerRegex = regexp.MustCompile(`<(\d{1,3}):(\d{1,2})(?:[.:](\d{1,3}))?>`)
)

// lrcEntry is one timed line before its end time is known.
type lrcEntry struct {
	start int64
	body  string
}

// stampMillis decodes the captured minute, second and fraction groups through
// the shared time decoder.
func stampMillis(minutes, seconds, fraction string) int64 {
	s := minutes + ":" + seconds
	if fraction != "" {
		s += "." + fraction
	}
	return ParseTime(s)
}

func applyOffset(t, offset int64) int64 {
	if t+offset < 0 {
		return 0
	}
	return t + offset
}

// parseLRCMetadata extracts header tags. It runs before the timed lines so an
// [offset:] tag applies wherever it appears in the file.
func parseLRCMetadata(rawLines []string) lyrics.Metadata {
	var meta lyrics.Metadata
	for _, rawLine := range rawLines {
		matches := metadataRegex.FindStringSubmatch(strings.TrimSpace(rawLine))
		if len(matches) != 3 {
			continue
		}
		value := strings.TrimSpace(matches[2])
		switch strings.ToLower(matches[1]) {
		case "ti":
			meta.Title = value
		case "ar":
			meta.Artist = value
		case "al":
			meta.Album = value
		case "by":
			meta.Creator = value
		case "la", "lang", "language":
			meta.Language = value
		case "offset":
			offset, err := strconv.ParseInt(strings.TrimPrefix(value, "+"), 10, 64)
			if err != nil {
				log.Debugf("%s Ignoring invalid offset %q", logcolors.LogLRCParser, value)
				continue
			}
			meta.OffsetMs = offset
		}
	}
	return meta
}

// parseLRC handles simple and enhanced LRC. Every line stamp, including those
// of empty lines, ends the line before it; empty lines are then dropped.
func parseLRC(content string, tailDurationMs int64) lyrics.Document {
	rawLines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	meta := parseLRCMetadata(rawLines)

	var entries []lrcEntry
	for _, rawLine := range rawLines {
		text := strings.TrimSpace(rawLine)
		if text == "" {
			continue
		}

		var starts []int64
		for {
			m := lrcStampRegex.FindStringSubmatchIndex(text)
			if m == nil {
				break
			}
			minutes := text[m[2]:m[3]]
			seconds := text[m[4]:m[5]]
			fraction := ""
			if m[6] >= 0 {
				fraction = text[m[6]:m[7]]
			}
			starts = append(starts, applyOffset(stampMillis(minutes, seconds, fraction), meta.OffsetMs))
			text = text[m[1]:]
		}

		// One line per stamp handles repeated choruses: [00:05.00][00:30.00]text
		for _, start := range starts {
			entries = append(entries, lrcEntry{start: start, body: text})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].start < entries[j].start
	})

	meta.Language = lyrics.DetectLanguage(meta.Language, content)
	align := lyrics.AlignLeft
	if lyrics.IsRTLLanguage(meta.Language) {
		align = lyrics.AlignRight
	}

	doc := lyrics.Document{Metadata: meta}
	estimated := false

	for i, entry := range entries {
		end := entry.start + tailDurationMs
		for j := i + 1; j < len(entries); j++ {
			if entries[j].start > entry.start {
				end = entries[j].start
				break
			}
		}

		var line lyrics.Line
		if wordMarkerRegex.MatchString(entry.body) {
			line = parseEnhancedBody(entry.body, entry.start, end, meta.OffsetMs)
		} else {
			line = lyrics.LineFromText(entry.body, entry.start, end)
			if len(line.Syllables) > 0 {
				estimated = true
			}
		}

		if strings.TrimSpace(line.Content()) == "" {
			continue
		}
		line.Alignment = align
		doc.Lines = append(doc.Lines, line)
	}

	if estimated {
		doc.Warnings = append(doc.Warnings, warnSimpleLRC)
	}
	if len(doc.Lines) == 0 {
		doc.Warnings = append(doc.Warnings, warnNoLines)
	}

	log.Debugf("%s Parsed %d lines (offset: %dms, estimated timing: %v)", logcolors.LogLRCParser, len(doc.Lines), meta.OffsetMs, estimated)
	return doc
}

// parseEnhancedBody turns "<00:12.00>First <00:13.50>second" into syllables.
// Each marker starts the following word and ends the previous one; a marker
// followed by nothing only closes the last word. The last word otherwise runs
// to the line end.
func parseEnhancedBody(body string, lineStart, lineEnd, offset int64) lyrics.Line {
	marks := wordMarkerRegex.FindAllStringSubmatchIndex(body, -1)
	times := make([]int64, len(marks))
	for i, m := range marks {
		fraction := ""
		if m[6] >= 0 {
			fraction = body[m[6]:m[7]]
		}
		times[i] = applyOffset(stampMillis(body[m[2]:m[3]], body[m[4]:m[5]], fraction), offset)
	}

	var syllables []lyrics.Syllable

	if lead := body[:marks[0][0]]; strings.TrimSpace(lead) != "" {
		syllables = append(syllables, lyrics.Syllable{
			Content: strings.TrimLeft(lead, whitespace),
			Start:   lineStart,
			End:     times[0],
		})
	}

	for i, m := range marks {
		textEnd := len(body)
		if i+1 < len(marks) {
			textEnd = marks[i+1][0]
		}
		text := body[m[1]:textEnd]

		end := lineEnd
		if i+1 < len(times) {
			end = times[i+1]
		}

		if strings.TrimSpace(text) == "" {
			if text != "" && len(syllables) > 0 {
				last := &syllables[len(syllables)-1]
				if !strings.HasSuffix(last.Content, " ") {
					last.Content += " "
				}
			}
			continue
		}

		if strings.TrimLeft(text, whitespace) != text && len(syllables) > 0 {
			last := &syllables[len(syllables)-1]
			if !strings.HasSuffix(last.Content, " ") {
				last.Content += " "
			}
		}
		syllables = append(syllables, lyrics.Syllable{
			Content: strings.TrimLeft(text, whitespace),
			Start:   times[i],
			End:     end,
		})
	}

	if n := len(syllables); n > 0 {
		syllables[n-1].Content = strings.TrimRight(syllables[n-1].Content, whitespace)
	}
	return lyrics.NewLine(lineStart, lineEnd, syllables...)
}
