package engine

import (
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/style"

	"github.com/rivo/uniseg"
)

// Oscillator periods. They are deliberately unrelated to each other and to
// character timing so neighbouring characters never tick in unison.
const (
	pulsePeriodMs    = 400.0
	floatPeriodMs    = 600.0
	rotationPeriodMs = 800.0
)

// CharacterTiming is one grapheme cluster with its share of a syllable's window.
type CharacterTiming struct {
	Text          string `json:"text"`
	Start         int64  `json:"startMs"`
	End           int64  `json:"endMs"`
	SyllableIndex int    `json:"syllableIndex"`
}

// CharacterTimings splits each syllable's window evenly across its grapheme
// clusters. The last cluster of a syllable absorbs the division remainder.
func CharacterTimings(line lyrics.Line) []CharacterTiming {
	var out []CharacterTiming
	for si, syl := range line.Syllables {
		var clusters []string
		g := uniseg.NewGraphemes(syl.Content)
		for g.Next() {
			clusters = append(clusters, g.Str())
		}
		if len(clusters) == 0 {
			continue
		}

		duration := syl.End - syl.Start
		if duration < 0 {
			duration = 0
		}
		per := duration / int64(len(clusters))
		for i, c := range clusters {
			start := syl.Start + int64(i)*per
			end := start + per
			if i == len(clusters)-1 {
				end = syl.Start + duration
			}
			out = append(out, CharacterTiming{Text: c, Start: start, End: end, SyllableIndex: si})
		}
	}
	return out
}

// CharacterProgress is the position of t inside a character's window, in [0, 1].
func CharacterProgress(c CharacterTiming, t int64) float64 {
	return lyrics.Progress(c.Start, c.End, t)
}

// Vector is a 2D offset in layout units; negative Y is up.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CharacterAnimationState is the transform applied to one character.
type CharacterAnimationState struct {
	Scale    float64 `json:"scale"`
	Offset   Vector  `json:"offset"`
	Rotation float64 `json:"rotation"`
}

// Identity is the untransformed state.
var Identity = CharacterAnimationState{Scale: 1}

// CalculateCharacterAnimation returns the transform of a character active
// over [start, end] at time t. While the character plays, scale eases from 1
// toward the configured maximum and three oscillators add pulse, float and
// rotation. After end the deviation from identity decays linearly over one
// animation duration.
func CalculateCharacterAnimation(start, end, t int64, anim style.AnimationConfig) CharacterAnimationState {
	duration := anim.CharacterAnimationDurationMs
	if !anim.EnableCharacterAnimation || duration <= 0 || t < start || t > end+duration {
		return Identity
	}

	elapsed := t - start
	progress := clamp01(float64(elapsed) / float64(duration))
	eased := EaseInOutCubic(progress)

	pulse := 1 + anim.CharacterPulseAmplitude*oscillate(elapsed, pulsePeriodMs)
	state := CharacterAnimationState{
		Scale:    lerp(1, anim.CharacterMaxScale, eased) * pulse,
		Offset:   Vector{Y: -anim.CharacterFloatOffset * oscillate(elapsed, floatPeriodMs)},
		Rotation: anim.CharacterRotationDegrees * oscillate(elapsed, rotationPeriodMs),
	}

	if t > end {
		remaining := 1 - float64(t-end)/float64(duration)
		state.Scale = 1 + (state.Scale-1)*remaining
		state.Offset.Y *= remaining
		state.Rotation *= remaining
	}
	return state
}
