package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/promptcast/internal/engine/render"
	"github.com/dshills/promptcast/internal/engine/wrap"
)

// Painter draws engine frames onto a tcell screen. Frame coordinates
// arrive in layout units (CellWidth per column, the engine's line
// height per row) and are divided down to cells here. All methods must
// be called from the goroutine that owns the screen.
type Painter struct {
	screen   tcell.Screen
	pal      Palette
	mirror   bool
	rowUnits int
}

// NewPainter creates a painter for the given screen.
func NewPainter(screen tcell.Screen) *Painter {
	return &Painter{screen: screen, pal: DefaultPalette(), rowUnits: CellHeight}
}

// SetPalette replaces the painter's colors.
func (p *Painter) SetPalette(pal Palette) { p.pal = pal }

// SetRowUnits sets the layout units per terminal row, which is the
// engine's current line height. Values below one cell are ignored.
func (p *Painter) SetRowUnits(units int) {
	if units >= 1 {
		p.rowUnits = units
	}
}

// SetMirror flips the horizontal axis, for beam-splitter rigs where
// the display is read through a reflection.
func (p *Painter) SetMirror(mirror bool) { p.mirror = mirror }

// Mirror reports whether mirrored output is active.
func (p *Painter) Mirror() bool { return p.mirror }

// DrawFrame paints one frame into a content area contentCols wide,
// centered on the screen. The screen is cleared to the background
// color first; the caller flushes with Show.
func (p *Painter) DrawFrame(f render.Frame, contentCols, rows int) {
	bg := tcell.StyleDefault.Background(tcellColor(p.pal.Background))
	p.screen.Fill(' ', bg)

	width, _ := p.screen.Size()
	origin := (width - contentCols) / 2
	if origin < 0 {
		origin = 0
	}

	p.drawBand(f.Band, width, rows)
	p.drawGuides(p.toRow(f.FocusY), origin, contentCols, width, rows)

	for _, m := range f.Pauses {
		p.drawPauseMarker(m, origin, contentCols, width, rows)
	}
	for _, r := range f.Runs {
		p.drawRun(r, f.Band, origin, width, rows)
	}
}

// toRow converts a layout-unit y to a terminal row, rounding toward
// negative infinity so off-screen-above stays negative.
func (p *Painter) toRow(y int) int {
	row := y / p.rowUnits
	if y%p.rowUnits != 0 && y < 0 {
		row--
	}
	return row
}

func (p *Painter) drawBand(b render.Band, width, rows int) {
	style := tcell.StyleDefault.Background(tcellColor(p.pal.Band))
	top := p.toRow(b.Top)
	height := b.Height / p.rowUnits
	for y := top; y < top+height; y++ {
		if y < 0 || y >= rows {
			continue
		}
		for x := 0; x < width; x++ {
			p.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawGuides marks the focus row at both content edges so the reading
// position stays obvious when the band color is subtle.
func (p *Painter) drawGuides(focusRow, origin, contentCols, width, rows int) {
	if focusRow < 0 || focusRow >= rows {
		return
	}
	style := tcell.StyleDefault.
		Foreground(tcellColor(p.pal.Highlight)).
		Background(tcellColor(p.pal.Band))
	p.setCell(origin, focusRow, '▶', width, style)
	p.setCell(origin+contentCols-1, focusRow, '◀', width, style)
}

func (p *Painter) drawRun(r render.TextRun, band render.Band, origin, width, rows int) {
	row := p.toRow(r.Baseline)
	if row < 0 || row >= rows {
		return
	}
	color := p.pal.Text
	if r.Highlight {
		color = p.pal.Highlight
	}
	bg := p.pal.Background
	if r.Baseline >= band.Top && r.Baseline < band.Top+band.Height {
		bg = p.pal.Band
	}
	style := tcell.StyleDefault.
		Foreground(tcellColor(p.pal.blend(color, r.Alpha))).
		Background(tcellColor(bg))
	if r.Highlight {
		style = style.Bold(true)
	}
	p.drawText(origin+r.X/CellWidth, row, width, r.Text, style)
}

func (p *Painter) drawPauseMarker(m render.PauseMarker, origin, contentCols, width, rows int) {
	row := p.toRow(m.Y)
	if row < 0 || row >= rows {
		return
	}
	style := tcell.StyleDefault.
		Foreground(tcellColor(p.pal.blend(p.pal.Highlight, m.Alpha))).
		Background(tcellColor(p.pal.Background))
	margin := wrap.Margin / CellWidth
	for x := origin + margin; x < origin+contentCols-margin; x++ {
		p.setCell(x, row, '┄', width, style)
	}
}

// DrawCountdown overlays the countdown number in the viewport center.
func (p *Painter) DrawCountdown(remaining, width, height int) {
	text := fmt.Sprintf(" %d ", remaining)
	style := tcell.StyleDefault.
		Foreground(tcellColor(p.pal.Highlight)).
		Background(tcellColor(p.pal.Band)).
		Bold(true)
	x := (width - uniseg.StringWidth(text)) / 2
	p.drawText(x, height/2, width, text, style)
}

// DrawNote paints the active presenter note on the top row.
func (p *Painter) DrawNote(note string, width int) {
	if note == "" {
		return
	}
	style := tcell.StyleDefault.
		Foreground(tcellColor(p.pal.Note)).
		Background(tcellColor(p.pal.Background)).
		Italic(true)
	p.drawText(1, 0, width, note, style)
}

// DrawStatus paints the status line on the bottom row. The status row
// is never mirrored so it stays readable on reflection rigs.
func (p *Painter) DrawStatus(status string, width, height int) {
	style := tcell.StyleDefault.
		Foreground(tcellColor(p.pal.blend(p.pal.Text, 170))).
		Background(tcellColor(p.pal.Band))
	y := height - 1
	for x := 0; x < width; x++ {
		p.screen.SetContent(x, y, ' ', nil, style)
	}
	mirror := p.mirror
	p.mirror = false
	p.drawText(1, y, width, status, style)
	p.mirror = mirror
}

// Show flushes buffered content to the terminal.
func (p *Painter) Show() { p.screen.Show() }

// drawText paints a string starting at cell x on row y, clipping to
// the screen width and honoring grapheme cell widths.
func (p *Painter) drawText(x, y, width int, text string, style tcell.Style) {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			continue
		}
		p.setCell(x, y, runes[0], width, style)
		x += w
	}
}

// setCell places a rune, flipping the column when mirrored. Content is
// centered on the screen, so flipping across the full width keeps it
// in place.
func (p *Painter) setCell(x, y int, r rune, width int, style tcell.Style) {
	if p.mirror {
		x = width - 1 - x
	}
	if x < 0 || x >= width {
		return
	}
	p.screen.SetContent(x, y, r, nil, style)
}
