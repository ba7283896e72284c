package style

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// GradientMode selects how gradient stops are laid out across a line.
type GradientMode string

const (
	GradientLinear   GradientMode = "linear"
	GradientProgress GradientMode = "progress"
	GradientMulti    GradientMode = "multi"
	GradientPreset   GradientMode = "preset"
)

// Config is the full render configuration. It is a plain value: callers swap
// it wholesale and never mutate one after handing it to the engine. Clone
// before editing a copy that shares slices with another Config.
type Config struct {
	Visual    VisualConfig    `yaml:"visual" toml:"visual" json:"visual"`
	Animation AnimationConfig `yaml:"animation" toml:"animation" json:"animation"`
	Layout    LayoutConfig    `yaml:"layout" toml:"layout" json:"layout"`
	Effects   EffectsConfig   `yaml:"effects" toml:"effects" json:"effects"`
	Viewer    ViewerConfig    `yaml:"viewer" toml:"viewer" json:"viewer"`
}

// VisualConfig holds colours, as #RRGGBB strings, and font settings.
type VisualConfig struct {
	FontSize           float64      `yaml:"font_size" toml:"font_size" json:"fontSize"`
	FontWeight         int          `yaml:"font_weight" toml:"font_weight" json:"fontWeight"`
	PlayingTextColor   string       `yaml:"playing_text_color" toml:"playing_text_color" json:"playingTextColor"`
	PlayedTextColor    string       `yaml:"played_text_color" toml:"played_text_color" json:"playedTextColor"`
	UpcomingTextColor  string       `yaml:"upcoming_text_color" toml:"upcoming_text_color" json:"upcomingTextColor"`
	AccompanimentColor string       `yaml:"accompaniment_color" toml:"accompaniment_color" json:"accompanimentColor"`
	BackgroundColor    string       `yaml:"background_color" toml:"background_color" json:"backgroundColor"`
	EnableGradient     bool         `yaml:"enable_gradient" toml:"enable_gradient" json:"enableGradient"`
	GradientMode       GradientMode `yaml:"gradient_mode" toml:"gradient_mode" json:"gradientMode"`
	GradientColors     []string     `yaml:"gradient_colors" toml:"gradient_colors" json:"gradientColors"`
	GradientPreset     string       `yaml:"gradient_preset" toml:"gradient_preset" json:"gradientPreset"`
}

// AnimationConfig drives line scaling, per-character motion and scrolling.
type AnimationConfig struct {
	EnableLineAnimation          bool    `yaml:"enable_line_animation" toml:"enable_line_animation" json:"enableLineAnimation"`
	LineScaleOnPlay              float64 `yaml:"line_scale_on_play" toml:"line_scale_on_play" json:"lineScaleOnPlay"`
	LineAnimationDurationMs      int64   `yaml:"line_animation_duration_ms" toml:"line_animation_duration_ms" json:"lineAnimationDurationMs"`
	EnableCharacterAnimation     bool    `yaml:"enable_character_animation" toml:"enable_character_animation" json:"enableCharacterAnimation"`
	CharacterAnimationDurationMs int64   `yaml:"character_animation_duration_ms" toml:"character_animation_duration_ms" json:"characterAnimationDurationMs"`
	CharacterMaxScale            float64 `yaml:"character_max_scale" toml:"character_max_scale" json:"characterMaxScale"`
	CharacterFloatOffset         float64 `yaml:"character_float_offset" toml:"character_float_offset" json:"characterFloatOffset"`
	CharacterRotationDegrees     float64 `yaml:"character_rotation_degrees" toml:"character_rotation_degrees" json:"characterRotationDegrees"`
	CharacterPulseAmplitude      float64 `yaml:"character_pulse_amplitude" toml:"character_pulse_amplitude" json:"characterPulseAmplitude"`

	// Scroll spring: angular frequency and damping ratio
	ScrollFrequency float64 `yaml:"scroll_frequency" toml:"scroll_frequency" json:"scrollFrequency"`
	ScrollDamping   float64 `yaml:"scroll_damping" toml:"scroll_damping" json:"scrollDamping"`
}

// LayoutConfig describes line geometry. Units are whatever the host renders
// in; the terminal preview reads Width as columns.
type LayoutConfig struct {
	LineHeight         float64 `yaml:"line_height" toml:"line_height" json:"lineHeight"`
	LineSpacing        float64 `yaml:"line_spacing" toml:"line_spacing" json:"lineSpacing"`
	Width              int     `yaml:"width" toml:"width" json:"width"`
	VisibleLinesBefore int     `yaml:"visible_lines_before" toml:"visible_lines_before" json:"visibleLinesBefore"`
	VisibleLinesAfter  int     `yaml:"visible_lines_after" toml:"visible_lines_after" json:"visibleLinesAfter"`
	CenterCurrentLine  bool    `yaml:"center_current_line" toml:"center_current_line" json:"centerCurrentLine"`
}

// EffectsConfig holds the opacity curve and blur tiers used by the state
// calculator.
type EffectsConfig struct {
	PlayingLineOpacity    float64 `yaml:"playing_line_opacity" toml:"playing_line_opacity" json:"playingLineOpacity"`
	PlayedLineOpacity     float64 `yaml:"played_line_opacity" toml:"played_line_opacity" json:"playedLineOpacity"`
	UpcomingLineOpacity   float64 `yaml:"upcoming_line_opacity" toml:"upcoming_line_opacity" json:"upcomingLineOpacity"`
	OpacityFalloffPerLine float64 `yaml:"opacity_falloff_per_line" toml:"opacity_falloff_per_line" json:"opacityFalloffPerLine"`
	MaxOpacityReduction   float64 `yaml:"max_opacity_reduction" toml:"max_opacity_reduction" json:"maxOpacityReduction"`
	MinOpacity            float64 `yaml:"min_opacity" toml:"min_opacity" json:"minOpacity"`

	EnableBlur           bool    `yaml:"enable_blur" toml:"enable_blur" json:"enableBlur"`
	BlurIntensity        float64 `yaml:"blur_intensity" toml:"blur_intensity" json:"blurIntensity"`
	PlayedLineBlur       float64 `yaml:"played_line_blur" toml:"played_line_blur" json:"playedLineBlur"`
	UpcomingLineBlur     float64 `yaml:"upcoming_line_blur" toml:"upcoming_line_blur" json:"upcomingLineBlur"`
	DistantLineBlur      float64 `yaml:"distant_line_blur" toml:"distant_line_blur" json:"distantLineBlur"`
	DistantLineThreshold int     `yaml:"distant_line_threshold" toml:"distant_line_threshold" json:"distantLineThreshold"`
}

// ViewerConfig picks the layout the host draws with.
type ViewerConfig struct {
	Type              ViewerType `yaml:"type" toml:"type" json:"type"`
	ShowAccompaniment bool       `yaml:"show_accompaniment" toml:"show_accompaniment" json:"showAccompaniment"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Visual: VisualConfig{
			FontSize:           32,
			FontWeight:         700,
			PlayingTextColor:   "#FFFFFF",
			PlayedTextColor:    "#8A8A8A",
			UpcomingTextColor:  "#CCCCCC",
			AccompanimentColor: "#A0A0C8",
			BackgroundColor:    "#000000",
			EnableGradient:     false,
			GradientMode:       GradientLinear,
			GradientColors:     []string{"#FF6B6B", "#FFD93D"},
			GradientPreset:     "sunset",
		},
		Animation: AnimationConfig{
			EnableLineAnimation:          true,
			LineScaleOnPlay:              1.05,
			LineAnimationDurationMs:      300,
			EnableCharacterAnimation:     true,
			CharacterAnimationDurationMs: 800,
			CharacterMaxScale:            1.15,
			CharacterFloatOffset:         6,
			CharacterRotationDegrees:     3,
			CharacterPulseAmplitude:      0.04,
			ScrollFrequency:              6,
			ScrollDamping:                1,
		},
		Layout: LayoutConfig{
			LineHeight:         48,
			LineSpacing:        16,
			Width:              60,
			VisibleLinesBefore: 2,
			VisibleLinesAfter:  4,
			CenterCurrentLine:  true,
		},
		Effects: EffectsConfig{
			PlayingLineOpacity:    1.0,
			PlayedLineOpacity:     0.25,
			UpcomingLineOpacity:   0.6,
			OpacityFalloffPerLine: 0.1,
			MaxOpacityReduction:   0.4,
			MinOpacity:            0.2,
			EnableBlur:            true,
			BlurIntensity:         1.0,
			PlayedLineBlur:        2,
			UpcomingLineBlur:      1,
			DistantLineBlur:       4,
			DistantLineThreshold:  3,
		},
		Viewer: ViewerConfig{
			Type:              ViewerSmoothScroll,
			ShowAccompaniment: true,
		},
	}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	if c.Visual.GradientColors != nil {
		out.Visual.GradientColors = append([]string(nil), c.Visual.GradientColors...)
	}
	return out
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	type field struct {
		name  string
		value float64
	}

	opacities := []field{
		{"effects.playing_line_opacity", c.Effects.PlayingLineOpacity},
		{"effects.played_line_opacity", c.Effects.PlayedLineOpacity},
		{"effects.upcoming_line_opacity", c.Effects.UpcomingLineOpacity},
		{"effects.min_opacity", c.Effects.MinOpacity},
	}
	for _, f := range opacities {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", f.name, f.value)
		}
	}

	nonNegative := []field{
		{"effects.opacity_falloff_per_line", c.Effects.OpacityFalloffPerLine},
		{"effects.max_opacity_reduction", c.Effects.MaxOpacityReduction},
		{"effects.blur_intensity", c.Effects.BlurIntensity},
		{"effects.played_line_blur", c.Effects.PlayedLineBlur},
		{"effects.upcoming_line_blur", c.Effects.UpcomingLineBlur},
		{"effects.distant_line_blur", c.Effects.DistantLineBlur},
		{"effects.distant_line_threshold", float64(c.Effects.DistantLineThreshold)},
		{"animation.line_animation_duration_ms", float64(c.Animation.LineAnimationDurationMs)},
		{"animation.character_animation_duration_ms", float64(c.Animation.CharacterAnimationDurationMs)},
		{"animation.character_pulse_amplitude", c.Animation.CharacterPulseAmplitude},
		{"animation.scroll_damping", c.Animation.ScrollDamping},
		{"layout.line_spacing", c.Layout.LineSpacing},
		{"layout.visible_lines_before", float64(c.Layout.VisibleLinesBefore)},
		{"layout.visible_lines_after", float64(c.Layout.VisibleLinesAfter)},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("%s must not be negative, got %v", f.name, f.value)
		}
	}

	positive := []field{
		{"animation.line_scale_on_play", c.Animation.LineScaleOnPlay},
		{"animation.character_max_scale", c.Animation.CharacterMaxScale},
		{"animation.scroll_frequency", c.Animation.ScrollFrequency},
		{"layout.line_height", c.Layout.LineHeight},
		{"layout.width", float64(c.Layout.Width)},
		{"visual.font_size", c.Visual.FontSize},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", f.name, f.value)
		}
	}

	colors := []struct {
		name  string
		value string
	}{
		{"visual.playing_text_color", c.Visual.PlayingTextColor},
		{"visual.played_text_color", c.Visual.PlayedTextColor},
		{"visual.upcoming_text_color", c.Visual.UpcomingTextColor},
		{"visual.accompaniment_color", c.Visual.AccompanimentColor},
		{"visual.background_color", c.Visual.BackgroundColor},
	}
	for _, col := range colors {
		if _, err := colorful.Hex(col.value); err != nil {
			return fmt.Errorf("%s is not a #RRGGBB colour: %q", col.name, col.value)
		}
	}
	for i, hex := range c.Visual.GradientColors {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("visual.gradient_colors[%d] is not a #RRGGBB colour: %q", i, hex)
		}
	}

	switch c.Visual.GradientMode {
	case GradientLinear, GradientProgress, GradientMulti, GradientPreset:
	default:
		return fmt.Errorf("visual.gradient_mode %q is not one of linear, progress, multi, preset", c.Visual.GradientMode)
	}
	if c.Visual.GradientMode == GradientPreset {
		if _, ok := GradientPalette(c.Visual.GradientPreset); !ok {
			return fmt.Errorf("visual.gradient_preset %q is unknown", c.Visual.GradientPreset)
		}
	}

	if !c.Viewer.Type.Valid() {
		return fmt.Errorf("viewer.type %d is unknown", int(c.Viewer.Type))
	}
	return nil
}
