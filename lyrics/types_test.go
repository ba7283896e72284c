package lyrics

import (
	"encoding/json"
	"testing"
)

func TestLineFromText(t *testing.T) {
	line := LineFromText("  Hello   big world ", 1000, 2000)

	if len(line.Syllables) != 3 {
		t.Fatalf("Expected 3 syllables, got %d", len(line.Syllables))
	}
	if got := line.Content(); got != "Hello big world" {
		t.Errorf("Content() = %q, want %q", got, "Hello big world")
	}

	// 1000ms / 3 words = 333ms each, last word absorbs the remainder
	expected := []struct{ start, end int64 }{
		{1000, 1333},
		{1333, 1666},
		{1666, 2000},
	}
	for i, e := range expected {
		s := line.Syllables[i]
		if s.Start != e.start || s.End != e.end {
			t.Errorf("Syllable %d = [%d, %d], want [%d, %d]", i, s.Start, s.End, e.start, e.end)
		}
	}
}

func TestLineFromText_Empty(t *testing.T) {
	line := LineFromText("   ", 0, 1000)
	if len(line.Syllables) != 0 {
		t.Errorf("Expected no syllables, got %d", len(line.Syllables))
	}
	if line.Content() != "" {
		t.Errorf("Expected empty content, got %q", line.Content())
	}
}

func TestLineBuilder(t *testing.T) {
	t.Run("bounds from syllables", func(t *testing.T) {
		line := NewLineBuilder().
			Syllable("Hel", 1200, 1400).
			Syllable("lo", 1000, 1300).
			Align(AlignRight).
			Agent("v2").
			Build()

		if line.Start != 1000 || line.End != 1400 {
			t.Errorf("Bounds = [%d, %d], want [1000, 1400]", line.Start, line.End)
		}
		if line.Alignment != AlignRight {
			t.Errorf("Alignment = %v, want right", line.Alignment)
		}
		if line.Agent != "v2" {
			t.Errorf("Agent = %q, want v2", line.Agent)
		}
		if line.Content() != "Hello" {
			t.Errorf("Content() = %q, want Hello", line.Content())
		}
	})

	t.Run("explicit bounds win", func(t *testing.T) {
		line := NewLineBuilder().Syllable("a", 100, 200).Span(0, 5000).Accompaniment().Build()
		if line.Start != 0 || line.End != 5000 {
			t.Errorf("Bounds = [%d, %d], want [0, 5000]", line.Start, line.End)
		}
		if !line.IsAccompaniment {
			t.Error("Expected accompaniment line")
		}
	})

	t.Run("built lines do not share syllables", func(t *testing.T) {
		b := NewLineBuilder().Syllable("a", 0, 100)
		first := b.Build()
		b.Syllable("b", 100, 200)
		second := b.Build()
		first.Syllables[0].Content = "changed"

		if second.Syllables[0].Content != "a" {
			t.Error("Mutating one built line leaked into another")
		}
	})
}

func TestTimedInterface(t *testing.T) {
	items := []Timed{
		Syllable{Content: "la", Start: 10, End: 20},
		LineFromText("la la", 10, 30),
	}
	for _, item := range items {
		if !Contains(item, 10) || !Contains(item, 20) || Contains(item, 5) {
			t.Errorf("Contains misbehaves for %T", item)
		}
	}
}

func TestAlignmentJSON(t *testing.T) {
	line := NewLineBuilder().Syllable("x", 0, 1).Align(AlignCenter).Build()

	data, err := json.Marshal(line)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded Line
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if decoded.Alignment != AlignCenter {
		t.Errorf("Alignment = %v, want center", decoded.Alignment)
	}

	var bad Alignment
	if err := bad.UnmarshalText([]byte("diagonal")); err == nil {
		t.Error("Expected error for unknown alignment")
	}
}

func TestIsRTLLanguage(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"ar", true},
		{"he", true},
		{"ar-EG", true},
		{"FA", true},
		{"en", false},
		{"ja", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsRTLLanguage(tt.code); got != tt.expected {
			t.Errorf("IsRTLLanguage(%q) = %v, want %v", tt.code, got, tt.expected)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		content  string
		expected string
	}{
		{"explicit tag", "English", "", "en"},
		{"region tag", "pt-BR", "", "pt"},
		{"chinese script", "", "你好", "zh"},
		{"japanese kana", "", "こんにちは", "ja"},
		{"japanese starting with kanji", "", "\u6d77\u306e\u58f0", "ja"},
		{"japanese kanji line then kana line", "", "\u6d77\n\u3053\u3093\u306b\u3061\u306f", "ja"},
		{"korean", "", "안녕", "ko"},
		{"hebrew", "", "שלום", "he"},
		{"latin", "", "hello", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.tag, tt.content); got != tt.expected {
				t.Errorf("DetectLanguage(%q, %q) = %q, want %q", tt.tag, tt.content, got, tt.expected)
			}
		})
	}
}
