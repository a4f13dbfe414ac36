package wrap

import (
	"reflect"
	"strings"
	"testing"
)

// runeWidth measures every rune at 10 units.
type runeWidth struct{}

func (runeWidth) Advance(s string) int {
	n := 0
	for range s {
		n++
	}
	return n * 10
}

func TestParagraphSingleLine(t *testing.T) {
	lines := Paragraph("Hello world", 500, 600, 10, runeWidth{}, AlignLeft)

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", lines[0].Text)
	}
	if len(lines[0].Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(lines[0].Words))
	}
}

func TestParagraphGreedyFill(t *testing.T) {
	// Each word is 30 wide, space is 10. maxWidth 70 fits exactly
	// "aaa bbb" (30+10+30), the third word overflows.
	lines := Paragraph("aaa bbb ccc", 70, 600, 10, runeWidth{}, AlignLeft)

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "aaa bbb" || lines[1].Text != "ccc" {
		t.Errorf("unexpected lines %q / %q", lines[0].Text, lines[1].Text)
	}
}

func TestParagraphDeterminism(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog again and again"
	a := Paragraph(text, 200, 300, 10, runeWidth{}, AlignCenter)
	b := Paragraph(text, 200, 300, 10, runeWidth{}, AlignCenter)

	if !reflect.DeepEqual(a, b) {
		t.Error("wrapping the same input twice must yield identical lines")
	}
}

func TestParagraphWrapInvariant(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa"
	maxWidth := 150
	m := runeWidth{}

	for _, line := range Paragraph(text, maxWidth, 600, 10, m, AlignLeft) {
		width := 10 * (len(line.Words) - 1)
		for _, w := range line.Words {
			width += m.Advance(w.Text)
		}
		if len(line.Words) > 1 && width > maxWidth {
			t.Errorf("line %q width %d exceeds max %d", line.Text, width, maxWidth)
		}
	}
}

func TestParagraphUnsplittableWord(t *testing.T) {
	// One word wider than maxWidth still lands alone on a line.
	long := strings.Repeat("x", 30) // width 300
	lines := Paragraph("a "+long+" b", 100, 600, 10, runeWidth{}, AlignLeft)

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1].Text != long {
		t.Errorf("oversized word should occupy its own line, got %q", lines[1].Text)
	}
}

func TestParagraphEmpty(t *testing.T) {
	if lines := Paragraph("", 100, 600, 10, runeWidth{}, AlignLeft); len(lines) != 0 {
		t.Errorf("empty paragraph should wrap to no lines, got %d", len(lines))
	}
}

func TestLineX(t *testing.T) {
	tests := []struct {
		name  string
		width int
		align Alignment
		win   int
		want  int
	}{
		{"left is fixed margin", 100, AlignLeft, 600, Margin},
		{"center", 100, AlignCenter, 600, 250},
		{"center floors at zero", 700, AlignCenter, 600, 0},
		{"right", 100, AlignRight, 600, 600 - Margin - 100},
		{"right floors at zero", 700, AlignRight, 600, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineX(tt.width, tt.align, tt.win); got != tt.want {
				t.Errorf("LineX = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWordOffsets(t *testing.T) {
	lines := Paragraph("ab cd", 500, 600, 10, runeWidth{}, AlignLeft)

	words := lines[0].Words
	if words[0].X != Margin {
		t.Errorf("first word should start at margin, got %d", words[0].X)
	}
	// Second word advances by first word's width plus the space width.
	if want := Margin + 20 + 10; words[1].X != want {
		t.Errorf("second word x = %d, want %d", words[1].X, want)
	}
}

func TestWordOffsetsCentered(t *testing.T) {
	// Total width: 20 + 10 + 20 = 50, centered in 600 -> x0 = 275.
	lines := Paragraph("ab cd", 500, 600, 10, runeWidth{}, AlignCenter)

	if x := lines[0].Words[0].X; x != 275 {
		t.Errorf("centered first word x = %d, want 275", x)
	}
}

func TestAlignmentString(t *testing.T) {
	if AlignLeft.String() != "left" || AlignCenter.String() != "center" || AlignRight.String() != "right" {
		t.Error("unexpected alignment names")
	}
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		in   string
		want Alignment
		ok   bool
	}{
		{"left", AlignLeft, true},
		{"center", AlignCenter, true},
		{"right", AlignRight, true},
		{"justified", AlignCenter, false},
		{"", AlignCenter, false},
	}
	for _, tt := range tests {
		got, ok := ParseAlignment(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseAlignment(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
