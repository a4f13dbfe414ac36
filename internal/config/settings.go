// Package config loads, validates, and persists prompter settings.
//
// Settings live in a single TOML file. Loading a missing file returns
// the defaults rather than an error, and every numeric field is
// clamped into its working range on load so a hand-edited file can
// never push the engine outside its limits.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Default values for a fresh installation.
const (
	DefaultFontFamily    = "Arial"
	DefaultFontSize      = 48
	DefaultSpeed         = 2.0
	DefaultCountdown     = 3
	DefaultFocusRatio    = 0.5
	DefaultLineSpacing   = 1.2
	DefaultMicThreshold  = 0.025
	DefaultViewportWidth = 920
	DefaultTheme         = "Dark"
)

// Speed limits mirror the engine's clamp range.
const (
	MinSpeed = 0.5
	MaxSpeed = 20.0
)

// ErrUnknownTheme is returned when a settings file names a theme that
// is not built in.
var ErrUnknownTheme = errors.New("unknown theme")

// AutoSpeed holds the microphone-driven speed settings.
type AutoSpeed struct {
	Enabled   bool    `toml:"enabled"`
	Threshold float64 `toml:"threshold"`
}

// Settings is the persisted prompter configuration.
type Settings struct {
	// Script is the path of the last loaded script file.
	Script string `toml:"script,omitempty"`

	FontFamily  string  `toml:"font_family"`
	FontSize    int     `toml:"font_size"`
	LineSpacing float64 `toml:"line_spacing"`
	Alignment   string  `toml:"alignment"`

	Speed         float64 `toml:"speed"`
	Countdown     int     `toml:"countdown"`
	FocusRatio    float64 `toml:"focus_ratio"`
	WordHighlight bool    `toml:"word_highlight"`
	Mirror        bool    `toml:"mirror"`

	ViewportWidth int `toml:"viewport_width"`

	Theme string `toml:"theme"`

	AutoSpeed AutoSpeed `toml:"auto_speed"`
}

// Default returns the settings a fresh installation starts with.
func Default() Settings {
	return Settings{
		FontFamily:    DefaultFontFamily,
		FontSize:      DefaultFontSize,
		LineSpacing:   DefaultLineSpacing,
		Alignment:     "center",
		Speed:         DefaultSpeed,
		Countdown:     DefaultCountdown,
		FocusRatio:    DefaultFocusRatio,
		WordHighlight: true,
		ViewportWidth: DefaultViewportWidth,
		Theme:         DefaultTheme,
		AutoSpeed: AutoSpeed{
			Enabled:   false,
			Threshold: DefaultMicThreshold,
		},
	}
}

// Clamp forces every numeric field into its working range and falls
// back to defaults for empty or unrecognized string fields.
func (s *Settings) Clamp() {
	if s.FontFamily == "" {
		s.FontFamily = DefaultFontFamily
	}
	if s.FontSize < 8 {
		s.FontSize = 8
	}
	if s.FontSize > 256 {
		s.FontSize = 256
	}
	if s.LineSpacing < 0.5 {
		s.LineSpacing = 0.5
	}
	if s.LineSpacing > 3.0 {
		s.LineSpacing = 3.0
	}
	switch s.Alignment {
	case "left", "center", "right":
	default:
		s.Alignment = "center"
	}
	if s.Speed < MinSpeed {
		s.Speed = MinSpeed
	}
	if s.Speed > MaxSpeed {
		s.Speed = MaxSpeed
	}
	if s.Countdown < 0 {
		s.Countdown = 0
	}
	if s.Countdown > 60 {
		s.Countdown = 60
	}
	if s.FocusRatio < 0.1 {
		s.FocusRatio = 0.1
	}
	if s.FocusRatio > 0.9 {
		s.FocusRatio = 0.9
	}
	if s.ViewportWidth < 200 {
		s.ViewportWidth = DefaultViewportWidth
	}
	if s.AutoSpeed.Threshold < 0 {
		s.AutoSpeed.Threshold = 0
	}
	if s.AutoSpeed.Threshold > 1 {
		s.AutoSpeed.Threshold = 1
	}
	if _, ok := Themes[s.Theme]; !ok {
		s.Theme = DefaultTheme
	}
}

// Load reads settings from path. A missing file yields the defaults;
// a malformed file is an error.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	s.Clamp()
	return s, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "promptcast", "config.toml"), nil
}
