package style

import "sort"

// gradientPalettes are the named colour sets for GradientPreset mode.
var gradientPalettes = map[string][]string{
	"sunset": {"#FF5F6D", "#FFC371"},
	"ocean":  {"#2E3192", "#1BFFFF"},
	"neon":   {"#F72585", "#7209B7", "#4CC9F0"},
	"forest": {"#134E5E", "#71B280"},
	"fire":   {"#F12711", "#F5AF19"},
	"aurora": {"#00C9FF", "#92FE9D", "#FF00FF"},
	"mono":   {"#FFFFFF", "#9E9E9E"},
}

// GradientPalette returns a copy of the named palette.
func GradientPalette(name string) ([]string, bool) {
	p, ok := gradientPalettes[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), p...), true
}

// GradientPaletteNames returns the palette names, sorted.
func GradientPaletteNames() []string {
	names := make([]string, 0, len(gradientPalettes))
	for name := range gradientPalettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var presets = map[string]func() Config{
	"default": Default,

	"minimal": func() Config {
		return NewBuilder().
			Animation(func(a *AnimationConfig) {
				a.EnableLineAnimation = false
				a.EnableCharacterAnimation = false
			}).
			Effects(func(e *EffectsConfig) {
				e.EnableBlur = false
				e.PlayedLineOpacity = 0.4
			}).
			Viewer(func(v *ViewerConfig) {
				v.Type = ViewerMinimal
				v.ShowAccompaniment = false
			}).
			MustBuild()
	},

	"vibrant": func() Config {
		return NewBuilder().
			Visual(func(v *VisualConfig) {
				v.PlayingTextColor = "#FFD93D"
				v.PlayedTextColor = "#6C5B7B"
				v.UpcomingTextColor = "#F8B195"
				v.EnableGradient = true
				v.GradientMode = GradientPreset
				v.GradientPreset = "neon"
			}).
			Animation(func(a *AnimationConfig) {
				a.LineScaleOnPlay = 1.1
				a.CharacterMaxScale = 1.3
				a.CharacterFloatOffset = 10
				a.CharacterRotationDegrees = 6
				a.CharacterPulseAmplitude = 0.08
			}).
			Viewer(func(v *ViewerConfig) { v.Type = ViewerWave }).
			MustBuild()
	},

	"cinematic": func() Config {
		return NewBuilder().
			Visual(func(v *VisualConfig) {
				v.FontSize = 40
				v.EnableGradient = true
				v.GradientMode = GradientProgress
			}).
			Animation(func(a *AnimationConfig) {
				a.CharacterAnimationDurationMs = 1200
				a.ScrollFrequency = 3
			}).
			Effects(func(e *EffectsConfig) {
				e.PlayedLineOpacity = 0.15
				e.UpcomingLineOpacity = 0.45
				e.BlurIntensity = 1.5
			}).
			Layout(func(l *LayoutConfig) {
				l.VisibleLinesBefore = 1
				l.VisibleLinesAfter = 2
			}).
			Viewer(func(v *ViewerConfig) { v.Type = ViewerCinematic }).
			MustBuild()
	},

	"accessible": func() Config {
		return NewBuilder().
			Visual(func(v *VisualConfig) {
				v.FontSize = 40
				v.PlayingTextColor = "#FFFF00"
				v.PlayedTextColor = "#FFFFFF"
				v.UpcomingTextColor = "#FFFFFF"
			}).
			Animation(func(a *AnimationConfig) {
				a.EnableCharacterAnimation = false
				a.LineScaleOnPlay = 1.0
			}).
			Effects(func(e *EffectsConfig) {
				e.EnableBlur = false
				e.PlayedLineOpacity = 0.7
				e.UpcomingLineOpacity = 0.9
				e.MinOpacity = 0.6
			}).
			MustBuild()
	},

	"duet": func() Config {
		return NewBuilder().
			Visual(func(v *VisualConfig) { v.AccompanimentColor = "#7FDBFF" }).
			Viewer(func(v *ViewerConfig) {
				v.Type = ViewerSplitDuet
				v.ShowAccompaniment = true
			}).
			MustBuild()
	},

	"performance": func() Config {
		return NewBuilder().
			Animation(func(a *AnimationConfig) {
				a.EnableLineAnimation = false
				a.EnableCharacterAnimation = false
			}).
			Effects(func(e *EffectsConfig) { e.EnableBlur = false }).
			MustBuild()
	},
}

// Preset returns a fresh copy of a named configuration.
func Preset(name string) (Config, bool) {
	build, ok := presets[name]
	if !ok {
		return Config{}, false
	}
	return build(), true
}

// PresetNames returns every preset name, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
