package parser

import (
	"strings"
	"testing"

	"karaoke-lyrics-go/lyrics"
)

const ttmlHeader = `<?xml version="1.0" encoding="UTF-8"?>
<tt xmlns="http://www.w3.org/ns/ttml" xmlns:ttm="http://www.w3.org/ns/ttml#metadata" xmlns:tts="http://www.w3.org/ns/ttml#styling" xmlns:itunes="http://music.apple.com/lyric-ttml-internal" itunes:timing="Word" xml:lang="en">`

func mustParseTTML(t *testing.T, content string) lyrics.Document {
	t.Helper()
	doc, err := parseTTML(content)
	if err != nil {
		t.Fatalf("parseTTML error: %v", err)
	}
	return doc
}

func TestParseTTML_WordTiming(t *testing.T) {
	content := ttmlHeader + `
<head><metadata><ttm:title>Test Song</ttm:title></metadata></head>
<body><div>
<p begin="00:01.000" end="00:03.000"><span begin="00:01.000" end="00:01.500">Hel</span><span begin="00:01.500" end="00:02.000">lo</span> <span begin="00:02.000" end="00:03.000">world</span></p>
</div></body></tt>`

	doc := mustParseTTML(t, content)

	if len(doc.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(doc.Lines))
	}
	line := doc.Lines[0]
	if line.Start != 1000 || line.End != 3000 {
		t.Errorf("Line bounds = [%d, %d], want [1000, 3000]", line.Start, line.End)
	}
	if len(line.Syllables) != 3 {
		t.Fatalf("Expected 3 syllables, got %d", len(line.Syllables))
	}
	if got := line.Content(); got != "Hello world" {
		t.Errorf("Content() = %q, want %q", got, "Hello world")
	}
	if line.Syllables[2].Start != 2000 || line.Syllables[2].End != 3000 {
		t.Errorf("Syllable 2 = [%d, %d], want [2000, 3000]", line.Syllables[2].Start, line.Syllables[2].End)
	}
	if doc.Metadata.Title != "Test Song" {
		t.Errorf("Title = %q, want %q", doc.Metadata.Title, "Test Song")
	}
	if doc.Metadata.Language != "en" {
		t.Errorf("Language = %q, want en", doc.Metadata.Language)
	}
	if len(doc.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", doc.Warnings)
	}
}

func TestParseTTML_BackgroundVocalsSplit(t *testing.T) {
	content := ttmlHeader + `
<body><div>
<p begin="00:10.000" end="00:14.000"><span begin="00:10.000" end="00:10.500">Hello</span> <span begin="00:10.500" end="00:11.000">world</span> <span ttm:role="x-bg"><span begin="00:12.000" end="00:12.500">(ooh</span> <span begin="00:12.500" end="00:13.500">yeah)</span></span></p>
</div></body></tt>`

	doc := mustParseTTML(t, content)

	if len(doc.Lines) != 2 {
		t.Fatalf("Expected 2 lines from one paragraph, got %d", len(doc.Lines))
	}

	main, bg := doc.Lines[0], doc.Lines[1]
	if main.IsAccompaniment {
		t.Error("First line should be the main vocal")
	}
	if got := main.Content(); got != "Hello world" {
		t.Errorf("Main content = %q, want %q", got, "Hello world")
	}
	if !bg.IsAccompaniment {
		t.Error("Second line should be the accompaniment")
	}
	if got := bg.Content(); got != "(ooh yeah)" {
		t.Errorf("Background content = %q, want %q", got, "(ooh yeah)")
	}
	if bg.Start != 12000 || bg.End != 13500 {
		t.Errorf("Background bounds = [%d, %d], want [12000, 13500]", bg.Start, bg.End)
	}
	for _, s := range main.Syllables {
		if strings.Contains(s.Content, "ooh") {
			t.Errorf("Background text leaked into main line: %q", s.Content)
		}
	}
}

func TestParseTTML_FlatBackgroundSpan(t *testing.T) {
	content := ttmlHeader + `
<body><div>
<p begin="1.0" end="3.0"><span begin="1.0" end="2.0">Hey</span><span ttm:role="x-bg" begin="2.0" end="2.8">(hey)</span></p>
</div></body></tt>`

	doc := mustParseTTML(t, content)

	if len(doc.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[1].Content() != "(hey)" || !doc.Lines[1].IsAccompaniment {
		t.Errorf("Unexpected background line: %+v", doc.Lines[1])
	}
	if doc.Lines[1].Start != 2000 || doc.Lines[1].End != 2800 {
		t.Errorf("Background bounds = [%d, %d], want [2000, 2800]", doc.Lines[1].Start, doc.Lines[1].End)
	}
}

func TestParseTTML_SortsAndSkipsUntimedParagraphs(t *testing.T) {
	content := ttmlHeader + `
<body><div>
<p begin="00:20.000" end="00:22.000"><span begin="00:20.000" end="00:22.000">later</span></p>
<p><span begin="00:15.000" end="00:16.000">untimed paragraph</span></p>
<p begin="00:05.000" end="00:07.000"><span begin="00:05.000" end="00:07.000">earlier</span></p>
</div></body></tt>`

	doc := mustParseTTML(t, content)

	if len(doc.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[0].Content() != "earlier" || doc.Lines[1].Content() != "later" {
		t.Errorf("Lines not sorted by start: %q, %q", doc.Lines[0].Content(), doc.Lines[1].Content())
	}
}

func TestParseTTML_LineLevel(t *testing.T) {
	content := `<tt xmlns="http://www.w3.org/ns/ttml"><body><div>
<p begin="00:00:01.000" end="00:00:05.000">Hello   world</p>
<p begin="00:00:05.000" end="00:00:09.000">   </p>
</div></body></tt>`

	doc := mustParseTTML(t, content)

	if len(doc.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(doc.Lines))
	}
	if len(doc.Lines[0].Syllables) != 1 || doc.Lines[0].Content() != "Hello world" {
		t.Errorf("Unexpected line: %+v", doc.Lines[0])
	}
	if len(doc.Warnings) != 1 || doc.Warnings[0] != warnTTMLLineTiming {
		t.Errorf("Expected line timing warning, got %v", doc.Warnings)
	}
}

func TestParseTTML_UntimedDocument(t *testing.T) {
	content := `<tt xmlns="http://www.w3.org/ns/ttml" timing="none"><body><div>
<p>First line</p>
<p>Second line</p>
</div></body></tt>`

	doc := mustParseTTML(t, content)

	if len(doc.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[0].Start != 0 || doc.Lines[0].End != 0 {
		t.Errorf("Untimed line should have zero bounds, got [%d, %d]", doc.Lines[0].Start, doc.Lines[0].End)
	}
	if len(doc.Warnings) != 1 || doc.Warnings[0] != warnTTMLUntimed {
		t.Errorf("Expected untimed warning, got %v", doc.Warnings)
	}
}

func TestParseTTML_Alignment(t *testing.T) {
	content := ttmlHeader + `
<head><metadata>
<ttm:agent type="person" xml:id="v1"/>
<ttm:agent type="person" xml:id="v2"/>
<ttm:agent type="group" xml:id="v1000"/>
</metadata></head>
<body><div>
<p begin="1s" end="2s" ttm:agent="v1"><span begin="1s" end="2s">one</span></p>
<p begin="2s" end="3s" ttm:agent="v2"><span begin="2s" end="3s">two</span></p>
<p begin="3s" end="4s" ttm:agent="v1000"><span begin="3s" end="4s">all</span></p>
<p begin="4s" end="5s" ttm:agent="v2" tts:textAlign="center"><span begin="4s" end="5s">override</span></p>
</div></body></tt>`

	doc := mustParseTTML(t, content)

	expected := []lyrics.Alignment{lyrics.AlignLeft, lyrics.AlignRight, lyrics.AlignCenter, lyrics.AlignCenter}
	if len(doc.Lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d", len(expected), len(doc.Lines))
	}
	for i, want := range expected {
		if doc.Lines[i].Alignment != want {
			t.Errorf("Line %d alignment = %v, want %v", i, doc.Lines[i].Alignment, want)
		}
	}
	if doc.Lines[1].Agent != "v2" {
		t.Errorf("Agent = %q, want v2", doc.Lines[1].Agent)
	}
}

func TestParseTTML_RTLDocument(t *testing.T) {
	content := `<tt xmlns="http://www.w3.org/ns/ttml" xml:lang="ar"><body><div>
<p begin="1s" end="2s"><span begin="1s" end="2s">مرحبا</span></p>
</div></body></tt>`

	doc := mustParseTTML(t, content)

	if len(doc.Lines) != 1 || doc.Lines[0].Alignment != lyrics.AlignRight {
		t.Errorf("Expected right aligned line for RTL document, got %+v", doc.Lines)
	}
}

func TestParseTTML_BadTimestampDegradesToZero(t *testing.T) {
	content := `<tt xmlns="http://www.w3.org/ns/ttml"><body><div>
<p begin="bogus" end="00:02.000"><span begin="??" end="00:02.000">word</span></p>
</div></body></tt>`

	doc := mustParseTTML(t, content)

	if len(doc.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(doc.Lines))
	}
	if doc.Lines[0].Start != 0 || doc.Lines[0].Syllables[0].Start != 0 {
		t.Errorf("Expected bad timestamps to decode to 0, got %+v", doc.Lines[0])
	}
}

func TestParseTTML_InvalidXML(t *testing.T) {
	if _, err := parseTTML(`<html><body>nope</body></html>`); err == nil {
		t.Error("Expected error for non-TTML root")
	}
	if _, err := parseTTML(``); err == nil {
		t.Error("Expected error for empty content")
	}
}
