package style

import (
	"fmt"
	"strings"
)

// ViewerType enumerates the lyric layouts a host can draw.
type ViewerType int

const (
	ViewerSmoothScroll ViewerType = iota
	ViewerCenterFocus
	ViewerKaraokeSingle
	ViewerKaraokeDouble
	ViewerWave
	ViewerSpiral
	ViewerFadeThrough
	ViewerTypewriter
	ViewerSplitDuet
	ViewerStacked3D
	ViewerMinimal
	ViewerCinematic

	viewerCount
)

var viewerNames = [...]string{
	ViewerSmoothScroll:  "smooth_scroll",
	ViewerCenterFocus:   "center_focus",
	ViewerKaraokeSingle: "karaoke_single",
	ViewerKaraokeDouble: "karaoke_double",
	ViewerWave:          "wave",
	ViewerSpiral:        "spiral",
	ViewerFadeThrough:   "fade_through",
	ViewerTypewriter:    "typewriter",
	ViewerSplitDuet:     "split_duet",
	ViewerStacked3D:     "stacked_3d",
	ViewerMinimal:       "minimal",
	ViewerCinematic:     "cinematic",
}

func (v ViewerType) Valid() bool {
	return v >= 0 && v < viewerCount
}

func (v ViewerType) String() string {
	if !v.Valid() {
		return fmt.Sprintf("ViewerType(%d)", int(v))
	}
	return viewerNames[v]
}

// ViewerTypes lists every layout in declaration order.
func ViewerTypes() []ViewerType {
	out := make([]ViewerType, 0, viewerCount)
	for v := ViewerType(0); v < viewerCount; v++ {
		out = append(out, v)
	}
	return out
}

// ParseViewerType accepts the snake_case names, ignoring case and treating
// '-' like '_'.
func ParseViewerType(name string) (ViewerType, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for v, n := range viewerNames {
		if n == key {
			return ViewerType(v), nil
		}
	}
	return ViewerSmoothScroll, fmt.Errorf("unknown viewer type %q", name)
}

func (v ViewerType) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("unknown viewer type %d", int(v))
	}
	return []byte(v.String()), nil
}

func (v *ViewerType) UnmarshalText(text []byte) error {
	parsed, err := ParseViewerType(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
