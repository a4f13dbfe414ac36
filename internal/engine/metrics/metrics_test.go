package metrics

// fixedProvider measures every rune at a constant advance. Used across
// engine tests where exact, predictable geometry matters more than
// realistic glyph shapes.
type fixedProvider struct {
	advance int
	ascent  int
	spacing int
}

func (p fixedProvider) Advance(s string) int {
	n := 0
	for range s {
		n++
	}
	return n * p.advance
}

func (p fixedProvider) Ascent() int      { return p.ascent }
func (p fixedProvider) LineSpacing() int { return p.spacing }

// fixedSource hands out the same fixedProvider for any font and counts
// how often it was asked.
type fixedSource struct {
	provider fixedProvider
	faces    int
}

func (s *fixedSource) Face(FontDesc) Provider {
	s.faces++
	return s.provider
}
