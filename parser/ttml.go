package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/lyrics"

	log "github.com/sirupsen/logrus"
)

const (
	warnTTMLLineTiming = "TTML: no per-word timing available; line-level paragraphs carry a single syllable"
	warnTTMLUntimed    = "TTML: document timing is none; lines are untimed"
	warnNoLines        = "no timed lines found"

	whitespace = " \t\r\n"
)

// syllableAccumulator collects the syllables of one output line. gap records
// whitespace seen since the last syllable so the next one can be separated.
type syllableAccumulator struct {
	syllables []lyrics.Syllable
	gap       bool
}

func (a *syllableAccumulator) markGap() {
	a.gap = true
}

// add appends content as a syllable. Surrounding whitespace becomes a single
// trailing space on the preceding syllable.
func (a *syllableAccumulator) add(content string, start, end int64) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		if content != "" {
			a.gap = true
		}
		return
	}
	if strings.TrimLeft(content, whitespace) != content {
		a.gap = true
	}
	if a.gap && len(a.syllables) > 0 {
		last := &a.syllables[len(a.syllables)-1]
		if !strings.HasSuffix(last.Content, " ") {
			last.Content += " "
		}
	}
	a.syllables = append(a.syllables, lyrics.Syllable{Content: trimmed, Start: start, End: end})
	a.gap = strings.TrimRight(content, whitespace) != content
}

func (a *syllableAccumulator) lastEnd(fallback int64) int64 {
	if len(a.syllables) == 0 {
		return fallback
	}
	return a.syllables[len(a.syllables)-1].End
}

// ttmlAgents resolves duet alignment from agent declaration order.
type ttmlAgents struct {
	types map[string]string
	order map[string]int
}

func newTTMLAgents(doc *ttmlDocument, paragraphs []ttmlElement) *ttmlAgents {
	a := &ttmlAgents{types: map[string]string{}, order: map[string]int{}}
	for _, agent := range doc.Head.Metadata.Agents {
		a.types[agent.ID] = strings.ToLower(agent.Type)
		a.register(agent.ID)
	}
	for _, p := range paragraphs {
		a.register(p.Agent)
	}
	return a
}

func (a *ttmlAgents) register(id string) {
	if id == "" {
		return
	}
	if t := a.types[id]; t == "group" || t == "other" {
		return
	}
	if _, ok := a.order[id]; !ok {
		a.order[id] = len(a.order)
	}
}

func (a *ttmlAgents) alignment(p *ttmlElement, rtl bool) lyrics.Alignment {
	if align, ok := lyrics.ParseAlignment(p.TextAlign); ok {
		return align
	}
	if p.Agent != "" {
		if a.types[p.Agent] == "group" {
			return lyrics.AlignCenter
		}
		if idx, ok := a.order[p.Agent]; ok && idx%2 == 1 {
			return lyrics.AlignRight
		}
	}
	if rtl {
		return lyrics.AlignRight
	}
	return lyrics.AlignLeft
}

// parseTTML walks <p> paragraphs: each becomes a main line, and background
// role spans inside it become a separate accompaniment line.
func parseTTML(content string) (lyrics.Document, error) {
	log.Debugf("%s Starting to parse TTML content (length: %d bytes)", logcolors.LogTTMLParser, len(content))

	var doc ttmlDocument
	decoder := xml.NewDecoder(bytes.NewReader([]byte(content)))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity
	if err := decoder.Decode(&doc); err != nil {
		return lyrics.Document{}, fmt.Errorf("failed to parse TTML XML: %w", err)
	}

	paragraphs := append([]ttmlElement{}, doc.Body.Paragraphs...)
	for _, div := range doc.Body.Divs {
		paragraphs = append(paragraphs, div.Paragraphs...)
	}
	log.Debugf("%s Found %d divs, %d paragraphs", logcolors.LogTTMLParser, len(doc.Body.Divs), len(paragraphs))

	var allText strings.Builder
	for i := range paragraphs {
		allText.WriteString(paragraphs[i].text())
	}
	language := lyrics.DetectLanguage(doc.Language, allText.String())
	rtl := lyrics.IsRTLLanguage(language)
	agents := newTTMLAgents(&doc, paragraphs)

	result := lyrics.Document{
		Metadata: lyrics.Metadata{
			Title:    strings.TrimSpace(doc.Head.Metadata.Title),
			Language: language,
		},
	}

	timing := strings.ToLower(strings.TrimSpace(doc.Timing))
	if timing == "none" {
		for i := range paragraphs {
			p := &paragraphs[i]
			text := strings.Join(strings.Fields(p.text()), " ")
			if text == "" {
				continue
			}
			line := lyrics.NewLine(0, 0, lyrics.Syllable{Content: text})
			line.Alignment = agents.alignment(p, rtl)
			line.Agent = p.Agent
			result.Lines = append(result.Lines, line)
		}
		result.Warnings = append(result.Warnings, warnTTMLUntimed)
		log.Debugf("%s Extracted %d untimed lines", logcolors.LogTTMLParser, len(result.Lines))
		return result, nil
	}

	lineLevel := false
	for i := range paragraphs {
		p := &paragraphs[i]
		if strings.TrimSpace(p.Begin) == "" || strings.TrimSpace(p.End) == "" {
			log.Debugf("%s Skipping paragraph %d without begin/end", logcolors.LogTTMLParser, i)
			continue
		}
		start, end := ParseTime(p.Begin), ParseTime(p.End)
		align := agents.alignment(p, rtl)

		if !p.hasSpans() {
			text := strings.Join(strings.Fields(p.text()), " ")
			if text == "" {
				continue
			}
			line := lyrics.NewLine(start, end, lyrics.Syllable{Content: text, Start: start, End: end})
			line.Alignment = align
			line.Agent = p.Agent
			result.Lines = append(result.Lines, line)
			lineLevel = true
			continue
		}

		main, bg := collectParagraph(p, start, end)

		if len(main.syllables) > 0 {
			line := lyrics.NewLine(start, end, main.syllables...)
			line.Alignment = align
			line.Agent = p.Agent
			result.Lines = append(result.Lines, line)
		}
		if len(bg.syllables) > 0 {
			builder := lyrics.NewLineBuilder().Accompaniment().Align(align).Agent(p.Agent)
			for _, s := range bg.syllables {
				builder.Syllable(s.Content, s.Start, s.End)
			}
			result.Lines = append(result.Lines, builder.Build())
		}
		log.Debugf("%s Paragraph %d: main=%d bg=%d syllables", logcolors.LogTTMLParser, i, len(main.syllables), len(bg.syllables))
	}

	result.Lines = lyrics.SortByStart(result.Lines)

	if lineLevel {
		result.Warnings = append(result.Warnings, warnTTMLLineTiming)
	}
	if len(result.Lines) == 0 {
		result.Warnings = append(result.Warnings, warnNoLines)
	}

	log.Debugf("%s Extracted %d lines from TTML", logcolors.LogTTMLParser, len(result.Lines))
	return result, nil
}

// collectParagraph splits a paragraph's spans into foreground and background
// syllables. Spans without their own timing inherit the enclosing element's.
func collectParagraph(p *ttmlElement, start, end int64) (main, bg *syllableAccumulator) {
	main, bg = &syllableAccumulator{}, &syllableAccumulator{}

	for _, node := range p.Nodes {
		if node.Span == nil {
			if strings.TrimSpace(node.Text) == "" {
				if node.Text != "" {
					main.markGap()
					bg.markGap()
				}
				continue
			}
			// Untimed text between spans gets a zero-length slot
			at := main.lastEnd(start)
			main.add(node.Text, at, at)
			continue
		}

		span := node.Span
		spanStart, spanEnd := spanTiming(span, start, end)

		if !span.isBackground() {
			main.add(span.text(), spanStart, spanEnd)
			continue
		}

		if !span.hasSpans() {
			bg.add(span.text(), spanStart, spanEnd)
			continue
		}
		for _, child := range span.Nodes {
			if child.Span == nil {
				if strings.TrimSpace(child.Text) == "" {
					if child.Text != "" {
						bg.markGap()
					}
					continue
				}
				at := bg.lastEnd(spanStart)
				bg.add(child.Text, at, at)
				continue
			}
			childStart, childEnd := spanTiming(child.Span, spanStart, spanEnd)
			bg.add(child.Span.text(), childStart, childEnd)
		}
	}
	return main, bg
}

func spanTiming(span *ttmlElement, parentStart, parentEnd int64) (int64, int64) {
	start, end := parentStart, parentEnd
	if strings.TrimSpace(span.Begin) != "" {
		start = ParseTime(span.Begin)
	}
	if strings.TrimSpace(span.End) != "" {
		end = ParseTime(span.End)
	}
	return start, end
}
