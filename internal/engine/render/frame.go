// Package render builds the ordered draw-command frame a host painter
// consumes. Building a frame is a pure read of the layout snapshot,
// scroll offset, and fade table: no engine state changes and no
// backend calls happen here.
package render

import (
	"github.com/dshills/promptcast/internal/engine/fade"
	"github.com/dshills/promptcast/internal/engine/layout"
	"github.com/dshills/promptcast/internal/engine/metrics"
	"github.com/dshills/promptcast/internal/engine/wrap"
)

// Options are the per-frame inputs.
type Options struct {
	// Width and Height are the viewport dimensions.
	Width  int
	Height int

	// Scroll is the current scroll offset.
	Scroll float64

	// FocusRatio places the focus line as a fraction of the viewport
	// height.
	FocusRatio float64

	// WordHighlight enables per-word runs on the focus line.
	WordHighlight bool
}

// TextRun is one text draw command.
type TextRun struct {
	// Line is the display-line index the run belongs to.
	Line int

	// Text is the string to draw.
	Text string

	// X is the left edge; Baseline is the text baseline y.
	X        int
	Baseline int

	// Alpha is the run's opacity, already fade-adjusted.
	Alpha uint8

	// Highlight marks the word under the scroll head.
	Highlight bool
}

// PauseMarker is a pause-line draw command.
type PauseMarker struct {
	// Line is the pause display-line index.
	Line int

	// Y is the marker's vertical center.
	Y int

	// Alpha is the marker opacity.
	Alpha uint8
}

// Band is the translucent strip behind the focus line.
type Band struct {
	Top    int
	Height int
}

// Frame is one complete set of draw commands, in draw order.
type Frame struct {
	// FocusY is the focus baseline position in the viewport.
	FocusY int

	// FocusLine is the display-line index under the scroll head.
	FocusLine int

	// Band is the focus band geometry.
	Band Band

	// Runs are the text draw commands.
	Runs []TextRun

	// Pauses are the pause-marker draw commands.
	Pauses []PauseMarker
}

// Build produces the frame for the given snapshot and scroll state.
// Only lines inside the arithmetically computed visible range are
// considered, and lines whose fade alpha falls below the skip
// threshold produce no commands at all.
func Build(snap *layout.Snapshot, fm *metrics.Snapshot, table *fade.Table, opts Options) Frame {
	lh := fm.LineHeight
	focusY := int(float64(opts.Height) * opts.FocusRatio)

	frame := Frame{
		FocusY: focusY,
		Band:   Band{Top: focusY - lh, Height: lh * 2},
	}

	frac := opts.Scroll / float64(lh)
	focusLine := int(frac)
	focusFrac := frac - float64(focusLine)
	frame.FocusLine = focusLine

	startY := focusY - int(opts.Scroll)

	first := (-startY - lh*2) / lh
	if first < 0 {
		first = 0
	}
	last := first + (opts.Height+lh*4)/lh + 1
	if last > len(snap.Lines) {
		last = len(snap.Lines)
	}

	for i := first; i < last; i++ {
		line := snap.Lines[i]
		y := startY + i*lh
		baseline := y + fm.Ascent

		alpha := table.Alpha(baseline - focusY)
		if !fade.Visible(alpha) {
			continue
		}

		if snap.IsPause(i) {
			frame.Pauses = append(frame.Pauses, PauseMarker{Line: i, Y: y + lh/2, Alpha: alpha})
			continue
		}
		if line.Text == "" {
			continue
		}

		if opts.WordHighlight && i == focusLine && len(line.Words) > 0 {
			frame.Runs = append(frame.Runs, wordRuns(line, i, baseline, alpha, focusFrac)...)
			continue
		}

		x := wrap.LineX(fm.Provider.Advance(line.Text), snap.Key.Align, opts.Width)
		frame.Runs = append(frame.Runs, TextRun{
			Line:     i,
			Text:     line.Text,
			X:        x,
			Baseline: baseline,
			Alpha:    alpha,
		})
	}

	return frame
}

// wordRuns emits one run per word using the offsets cached at wrap
// time, highlighting the word the fractional scroll position points at.
func wordRuns(line wrap.Line, idx, baseline int, alpha uint8, focusFrac float64) []TextRun {
	n := len(line.Words)
	hi := int(focusFrac * float64(n))
	if hi > n-1 {
		hi = n - 1
	}

	runs := make([]TextRun, 0, n)
	for wi, w := range line.Words {
		runs = append(runs, TextRun{
			Line:      idx,
			Text:      w.Text,
			X:         w.X,
			Baseline:  baseline,
			Alpha:     alpha,
			Highlight: wi == hi,
		})
	}
	return runs
}
