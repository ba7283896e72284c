package parser

import "testing"

func TestParseTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"milliseconds suffix", "100ms", 100},
		{"seconds suffix with fraction", "1.5s", 1500},
		{"seconds suffix integer", "12s", 12000},
		{"minutes and seconds", "00:01.500", 1500},
		{"hours minutes seconds", "01:30:45.250", 5445250},
		{"bare integer is milliseconds", "1000", 1000},
		{"one digit fraction is padded", "00:01.5", 1500},
		{"two digit fraction is padded", "00:01.05", 1050},
		{"single digit minutes", "1:02.345", 62345},
		{"no fraction", "02:00", 120000},
		{"hms without fraction", "0:00:12", 12000},
		{"bare decimal is seconds", "12.345", 12345},
		{"surrounding whitespace", "  250ms ", 250},
		{"empty string", "", 0},
		{"garbage", "abc", 0},
		{"negative number", "-100", 0},
		{"too many fraction digits", "00:01.5000", 0},
		{"unit typo", "100mss", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTime(tt.input); got != tt.expected {
				t.Errorf("ParseTime(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}
