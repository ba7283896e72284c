package engine

import (
	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/style"

	colorful "github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
)

// Palette is a resolved set of text colours.
type Palette struct {
	Base          colorful.Color
	Playing       colorful.Color
	Played        colorful.Color
	Accompaniment colorful.Color
	Background    colorful.Color
}

// NewPalette parses the configured hex colours. An unparseable colour falls
// back to the stock one for that slot.
func NewPalette(v style.VisualConfig) Palette {
	d := style.Default().Visual
	return Palette{
		Base:          parseColor(v.UpcomingTextColor, d.UpcomingTextColor),
		Playing:       parseColor(v.PlayingTextColor, d.PlayingTextColor),
		Played:        parseColor(v.PlayedTextColor, d.PlayedTextColor),
		Accompaniment: parseColor(v.AccompanimentColor, d.AccompanimentColor),
		Background:    parseColor(v.BackgroundColor, d.BackgroundColor),
	}
}

func parseColor(hex, fallback string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err == nil {
		return c
	}
	log.Warnf("%s Invalid colour %q, using %s", logcolors.LogEngine, hex, fallback)
	c, _ = colorful.Hex(fallback)
	return c
}

// CharacterColor blends from the base colour to the playing colour as the
// character progresses, and snaps to the played colour once it has ended.
func CharacterColor(start, end, t int64, p Palette) colorful.Color {
	if t > end {
		return p.Played
	}
	if t < start {
		return p.Base
	}
	progress := 0.0
	if end > start {
		progress = float64(t-start) / float64(end-start)
	}
	return p.Base.BlendRgb(p.Playing, progress).Clamped()
}

// LineColor is the flat colour for a whole line in the given state.
func LineColor(ls LineUiState, isAccompaniment bool, p Palette) colorful.Color {
	switch {
	case ls.IsPlaying:
		return p.Playing
	case ls.HasPlayed:
		return p.Played
	case isAccompaniment:
		return p.Accompaniment
	default:
		return p.Base
	}
}
