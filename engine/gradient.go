package engine

import (
	"karaoke-lyrics-go/style"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// GradientStop is one colour stop; Offset is in [0, 1].
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// GradientStops lays out the stops for a line highlighted up to progress.
// Linear runs between the first two configured colours (or playing to base),
// progress puts a hard edge at the progress point, multi spaces every
// configured colour evenly, and preset does the same with a named palette.
// Modes that lack the colours they need fall back to linear.
func GradientStops(mode style.GradientMode, progress float64, p Palette, colors []string, preset string) []GradientStop {
	progress = clamp01(progress)

	switch mode {
	case style.GradientProgress:
		return []GradientStop{
			{Offset: 0, Color: p.Playing.Hex()},
			{Offset: progress, Color: p.Playing.Hex()},
			{Offset: progress, Color: p.Base.Hex()},
			{Offset: 1, Color: p.Base.Hex()},
		}
	case style.GradientMulti:
		if stops := evenStops(colors); stops != nil {
			return stops
		}
	case style.GradientPreset:
		if palette, ok := style.GradientPalette(preset); ok {
			if stops := evenStops(palette); stops != nil {
				return stops
			}
		}
	}
	return linearStops(p, colors)
}

func linearStops(p Palette, colors []string) []GradientStop {
	from, to := p.Playing, p.Base
	if len(colors) >= 2 {
		from = parseColor(colors[0], p.Playing.Hex())
		to = parseColor(colors[1], p.Base.Hex())
	}
	return []GradientStop{
		{Offset: 0, Color: from.Hex()},
		{Offset: 1, Color: to.Hex()},
	}
}

func evenStops(colors []string) []GradientStop {
	if len(colors) < 2 {
		return nil
	}
	stops := make([]GradientStop, len(colors))
	for i, hex := range colors {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil
		}
		stops[i] = GradientStop{Offset: float64(i) / float64(len(colors)-1), Color: c.Hex()}
	}
	return stops
}
