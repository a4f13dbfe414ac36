package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette holds the colors a painted frame uses. Text at partial
// opacity blends toward the background, so fading works on terminals
// without real alpha channels.
type Palette struct {
	Background colorful.Color
	Text       colorful.Color
	Highlight  colorful.Color
	Band       colorful.Color
	Note       colorful.Color
}

// DefaultPalette is white on black with an amber highlight.
func DefaultPalette() Palette {
	return Palette{
		Background: colorful.Color{R: 0, G: 0, B: 0},
		Text:       colorful.Color{R: 1, G: 1, B: 1},
		Highlight:  colorful.Color{R: 1, G: 0.75, B: 0.2},
		Band:       colorful.Color{R: 0.12, G: 0.12, B: 0.16},
		Note:       colorful.Color{R: 0.5, G: 0.8, B: 1},
	}
}

// ParsePalette builds a palette from hex color strings. The band color
// is derived by blending the text color into the background.
func ParsePalette(background, text, highlight string) (Palette, error) {
	bg, err := colorful.Hex(background)
	if err != nil {
		return Palette{}, fmt.Errorf("background color %q: %w", background, err)
	}
	fg, err := colorful.Hex(text)
	if err != nil {
		return Palette{}, fmt.Errorf("text color %q: %w", text, err)
	}
	hi, err := colorful.Hex(highlight)
	if err != nil {
		return Palette{}, fmt.Errorf("highlight color %q: %w", highlight, err)
	}
	return Palette{
		Background: bg,
		Text:       fg,
		Highlight:  hi,
		Band:       bg.BlendRgb(fg, 0.12),
		Note:       fg.BlendRgb(hi, 0.5),
	}, nil
}

// blend mixes color c toward the background by alpha, where 255 is
// fully c and 0 is invisible.
func (p Palette) blend(c colorful.Color, alpha uint8) colorful.Color {
	return p.Background.BlendRgb(c, float64(alpha)/255)
}

// tcellColor converts a colorful color to a tcell RGB color.
func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
