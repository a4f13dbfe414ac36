// Package term hosts the engine on a terminal: a tcell screen is the
// paint target and text is measured in layout units scaled from
// character cells.
package term

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/promptcast/internal/engine/metrics"
)

// Cell scale, in layout units. The engine's speed range and fade
// falloff are calibrated for line heights around 28 to 67 units, so a
// terminal row reports a notional height in that range instead of 1;
// the painter divides coordinates back down to cells. Width is half
// the height, matching the aspect of a typical terminal glyph.
const (
	// CellWidth is the layout units per terminal column.
	CellWidth = 14

	// CellHeight is the layout units per terminal row before the
	// line-spacing factor.
	CellHeight = 28
)

// CellSource measures text in terminal cells scaled to layout units.
// Every font description resolves to the same provider since a
// terminal has exactly one font; the description's size and family are
// ignored.
type CellSource struct{}

// NewCellSource creates a cell-unit metrics source.
func NewCellSource() *CellSource {
	return &CellSource{}
}

// Face returns the cell provider regardless of the requested font.
func (s *CellSource) Face(metrics.FontDesc) metrics.Provider {
	return cellProvider{}
}

type cellProvider struct{}

// Advance returns the display width of s in layout units. Wide East
// Asian runes and grapheme clusters count per their terminal cell
// width.
func (cellProvider) Advance(s string) int {
	return uniseg.StringWidth(s) * CellWidth
}

// Ascent is zero: a cell row has no baseline offset, text draws at the
// row's top.
func (cellProvider) Ascent() int { return 0 }

// LineSpacing is the notional height of one cell row.
func (cellProvider) LineSpacing() int { return CellHeight }
