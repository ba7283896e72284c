package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	millisRegex  = regexp.MustCompile(`^(\d+)ms$`)
	secondsRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)s$`)
	hmsRegex     = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})(?:\.(\d{1,3}))?$`)
	msRegex      = regexp.MustCompile(`^(\d+):(\d{1,2})(?:\.(\d{1,3}))?$`)
	integerRegex = regexp.MustCompile(`^\d+$`)
	decimalRegex = regexp.MustCompile(`^\d+\.\d+$`)
)

// ParseTime decodes a timestamp into milliseconds. Accepted shapes, tried in
// order: "<int>ms", "<float>s", "hh:mm:ss.fff", "mm:ss.fff", a bare integer
// (milliseconds) and a bare decimal (seconds, the TTML clock-value form).
// Fractions may have 1 to 3 digits and are right-padded ("1.5" is 500ms).
//
// Anything else decodes to 0: a single bad tag must not discard a whole song.
func ParseTime(s string) int64 {
	s = strings.TrimSpace(s)

	if m := millisRegex.FindStringSubmatch(s); m != nil {
		return atoi(m[1])
	}
	if m := secondsRegex.FindStringSubmatch(s); m != nil {
		return secondsToMillis(m[1])
	}
	if m := hmsRegex.FindStringSubmatch(s); m != nil {
		return atoi(m[1])*3600000 + atoi(m[2])*60000 + atoi(m[3])*1000 + fractionToMillis(m[4])
	}
	if m := msRegex.FindStringSubmatch(s); m != nil {
		return atoi(m[1])*60000 + atoi(m[2])*1000 + fractionToMillis(m[3])
	}
	if integerRegex.MatchString(s) {
		return atoi(s)
	}
	if decimalRegex.MatchString(s) {
		return secondsToMillis(s)
	}
	return 0
}

// fractionToMillis turns the digits after the decimal point into milliseconds,
// so "5" is 500, "05" is 50 and "005" is 5.
func fractionToMillis(frac string) int64 {
	if frac == "" {
		return 0
	}
	for len(frac) < 3 {
		frac += "0"
	}
	return atoi(frac[:3])
}

func secondsToMillis(s string) int64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 1000))
}

func atoi(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
