package config

// Theme is a named display color scheme. Colors are hex strings so the
// file format stays host-agnostic; each host converts to its own color
// type.
type Theme struct {
	Background string
	Text       string
	Highlight  string

	// Opacity is the window opacity on hosts that support it, in
	// [0.1, 1.0].
	Opacity float64
}

// Themes are the built-in color schemes, keyed by display name.
var Themes = map[string]Theme{
	"Dark": {
		Background: "#101014",
		Text:       "#f0f0f0",
		Highlight:  "#ffc033",
		Opacity:    1.0,
	},
	"Light": {
		Background: "#fafafa",
		Text:       "#18181c",
		Highlight:  "#c06000",
		Opacity:    1.0,
	},
	"High Contrast": {
		Background: "#000000",
		Text:       "#ffff00",
		Highlight:  "#00ffff",
		Opacity:    1.0,
	},
	"Solarized": {
		Background: "#002b36",
		Text:       "#93a1a1",
		Highlight:  "#b58900",
		Opacity:    1.0,
	},
	"Cinema Blue": {
		Background: "#0a0f1e",
		Text:       "#c8d4f0",
		Highlight:  "#5aa0ff",
		Opacity:    0.92,
	},
}

// LookupTheme returns the named theme, or ErrUnknownTheme.
func LookupTheme(name string) (Theme, error) {
	t, ok := Themes[name]
	if !ok {
		return Theme{}, ErrUnknownTheme
	}
	return t, nil
}

// ThemeNames returns the built-in theme names in no particular order.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	return names
}
