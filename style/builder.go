package style

// Builder edits a private copy of a Config section by section. Each Build
// returns an independent value, so one builder can produce several variants.
type Builder struct {
	cfg Config
}

// NewBuilder starts from Default().
func NewBuilder() *Builder {
	return &Builder{cfg: Default()}
}

// From starts from an existing configuration without aliasing it.
func From(cfg Config) *Builder {
	return &Builder{cfg: cfg.Clone()}
}

func (b *Builder) Visual(fn func(*VisualConfig)) *Builder {
	fn(&b.cfg.Visual)
	return b
}

func (b *Builder) Animation(fn func(*AnimationConfig)) *Builder {
	fn(&b.cfg.Animation)
	return b
}

func (b *Builder) Layout(fn func(*LayoutConfig)) *Builder {
	fn(&b.cfg.Layout)
	return b
}

func (b *Builder) Effects(fn func(*EffectsConfig)) *Builder {
	fn(&b.cfg.Effects)
	return b
}

func (b *Builder) Viewer(fn func(*ViewerConfig)) *Builder {
	fn(&b.cfg.Viewer)
	return b
}

// Build validates and returns a copy of the configuration.
func (b *Builder) Build() (Config, error) {
	if err := b.cfg.Validate(); err != nil {
		return Config{}, err
	}
	return b.cfg.Clone(), nil
}

// MustBuild is Build for hard-coded configurations; it panics on an invalid one.
func (b *Builder) MustBuild() Config {
	cfg, err := b.Build()
	if err != nil {
		panic("style: " + err.Error())
	}
	return cfg
}
