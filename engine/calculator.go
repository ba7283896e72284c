package engine

import (
	"math"

	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/style"
)

// CalculateState derives the display state of every line at currentTimeMs.
// It is pure: identical inputs give identical output. Lines must already be
// sorted; the current line is the first one, in list order, whose window
// contains the time.
func CalculateState(lines []lyrics.Line, currentTimeMs int64, cfg style.Config) UiState {
	state := UiState{
		Lines:            lines,
		CurrentTimeMs:    currentTimeMs,
		CurrentLineIndex: NoCurrentLine,
		LineStates:       make(map[int]LineUiState, len(lines)),
		IsInitialized:    true,
	}
	if len(lines) == 0 {
		return state
	}

	current := lyrics.FindLineIndexAt(lines, currentTimeMs)
	if current >= 0 {
		state.CurrentLineIndex = current
	}

	for i, line := range lines {
		state.LineStates[i] = lineState(i, line, currentTimeMs, current, cfg)
	}
	return state
}

func lineState(index int, line lyrics.Line, t int64, current int, cfg style.Config) LineUiState {
	var ls LineUiState
	switch {
	case line.Start <= t && t <= line.End:
		ls.IsPlaying = true
	case t > line.End:
		ls.HasPlayed = true
	default:
		ls.IsUpcoming = true
	}

	// With nothing playing every line sits at its own distance from line 0
	ls.DistanceFromCurrent = index
	if current >= 0 {
		ls.DistanceFromCurrent = abs(index - current)
	}

	ls.Opacity = lineOpacity(ls, cfg.Effects)
	ls.Scale = lineScale(ls, cfg.Animation)
	ls.BlurRadius = lineBlur(ls, cfg.Effects)
	return ls
}

func lineOpacity(ls LineUiState, fx style.EffectsConfig) float64 {
	switch {
	case ls.IsPlaying:
		return fx.PlayingLineOpacity
	case ls.HasPlayed:
		return fx.PlayedLineOpacity
	}
	reduction := math.Min(float64(ls.DistanceFromCurrent)*fx.OpacityFalloffPerLine, fx.MaxOpacityReduction)
	return math.Max(fx.UpcomingLineOpacity-reduction, fx.MinOpacity)
}

func lineScale(ls LineUiState, anim style.AnimationConfig) float64 {
	if ls.IsPlaying && anim.EnableLineAnimation {
		return anim.LineScaleOnPlay
	}
	return 1.0
}

func lineBlur(ls LineUiState, fx style.EffectsConfig) float64 {
	if !fx.EnableBlur || ls.IsPlaying {
		return 0
	}
	var radius float64
	switch {
	case ls.HasPlayed:
		radius = fx.PlayedLineBlur
	case ls.DistanceFromCurrent > fx.DistantLineThreshold:
		radius = fx.DistantLineBlur
	default:
		radius = fx.UpcomingLineBlur
	}
	return radius * fx.BlurIntensity
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
