// Package wrap packs paragraph words into display lines and records
// per-word horizontal offsets.
//
// Wrapping is greedy: words accumulate until the next word (plus its
// leading space) would exceed the maximum width, then the line is
// flushed and the overflowing word starts the next one. Words are
// never split, so a single word wider than the viewport still occupies
// one line. The per-word offset table is computed once per flushed
// line so the word-highlight renderer never re-measures text at paint
// time.
package wrap

import "strings"

// Margin is the fixed horizontal margin display lines keep from the
// viewport edge for left and right alignment.
const Margin = 40

// Alignment selects the horizontal placement of a wrapped line.
type Alignment uint8

const (
	// AlignLeft places lines at the fixed margin.
	AlignLeft Alignment = iota

	// AlignCenter centers lines in the viewport.
	AlignCenter

	// AlignRight places lines against the right margin.
	AlignRight
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseAlignment maps an alignment name to its value. Unrecognized
// names report false.
func ParseAlignment(s string) (Alignment, bool) {
	switch s {
	case "left":
		return AlignLeft, true
	case "center":
		return AlignCenter, true
	case "right":
		return AlignRight, true
	default:
		return AlignCenter, false
	}
}

// Measurer is the subset of the metrics provider wrapping needs.
type Measurer interface {
	Advance(s string) int
}

// Word is a single word and its x offset within the viewport.
type Word struct {
	Text string
	X    int
}

// Line is one wrapped display line.
type Line struct {
	// Text is the rendered line string.
	Text string

	// Words holds the per-word offset table. Empty for lines without
	// word content (blank lines, pause markers).
	Words []Word
}

// Paragraph wraps text into lines no wider than maxWidth and computes
// word offsets against viewportWidth. spaceWidth is the advance of one
// space in the current font.
func Paragraph(text string, maxWidth, viewportWidth, spaceWidth int, m Measurer, align Alignment) []Line {
	var lines []Line
	var cur []string
	curWidth := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		lines = append(lines, makeLine(cur, viewportWidth, spaceWidth, m, align))
		cur = cur[:0:0]
		curWidth = 0
	}

	for _, word := range strings.Fields(text) {
		ww := m.Advance(word)
		needed := ww
		if len(cur) > 0 {
			needed += spaceWidth
		}
		if curWidth+needed <= maxWidth {
			cur = append(cur, word)
			curWidth += needed
			continue
		}
		flush()
		cur = append(cur, word)
		curWidth = ww
	}
	flush()

	return lines
}

// LineX returns the left x of a line of width lineWidth under the
// given alignment. Centered and right-aligned lines floor at 0 when
// the line is wider than the viewport.
func LineX(lineWidth int, align Alignment, viewportWidth int) int {
	switch align {
	case AlignCenter:
		x := (viewportWidth - lineWidth) / 2
		if x < 0 {
			return 0
		}
		return x
	case AlignRight:
		x := viewportWidth - Margin - lineWidth
		if x < 0 {
			return 0
		}
		return x
	default:
		return Margin
	}
}

// makeLine joins words into a Line with its offset table. Total line
// width is the sum of word advances plus one space between neighbors.
func makeLine(words []string, viewportWidth, spaceWidth int, m Measurer, align Alignment) Line {
	widths := make([]int, len(words))
	total := spaceWidth * (len(words) - 1)
	for i, w := range words {
		widths[i] = m.Advance(w)
		total += widths[i]
	}

	x := LineX(total, align, viewportWidth)
	out := make([]Word, len(words))
	for i, w := range words {
		out[i] = Word{Text: w, X: x}
		x += widths[i] + spaceWidth
	}

	return Line{Text: strings.Join(words, " "), Words: out}
}
