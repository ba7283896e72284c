package style

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"karaoke-lyrics-go/logcolors"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML (.yaml, .yml), TOML (.toml) or JSON (.json) file and
// overlays it on Default(): keys the file leaves out keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read style file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode YAML style file %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to decode TOML style file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			log.Warnf("%s Ignoring unknown keys in %s: %v", logcolors.LogStyle, path, undecoded)
		}
	case ".json":
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read style file: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode JSON style file %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported style file extension %q (want .yaml, .yml, .toml or .json)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid style file %s: %w", path, err)
	}

	log.Debugf("%s Loaded style from %s (viewer: %s)", logcolors.LogStyle, path, cfg.Viewer.Type)
	return cfg, nil
}

// Resolve picks the configuration a host starts with: a style file when one
// is named, else a preset, else Default().
func Resolve(file, preset string) (Config, error) {
	if file != "" {
		return LoadFile(file)
	}
	if preset != "" {
		cfg, ok := Preset(preset)
		if !ok {
			return Config{}, fmt.Errorf("unknown style preset %q (available: %s)", preset, strings.Join(PresetNames(), ", "))
		}
		return cfg, nil
	}
	return Default(), nil
}
