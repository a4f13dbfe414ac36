// Package face is a pixel-unit metrics source backed by the Go font
// family, for hosts that render into raster surfaces. Unknown families
// substitute the default face rather than failing, so requesting
// metrics for a missing font degrades silently as the engine expects.
package face

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/dshills/promptcast/internal/engine/metrics"
)

// Family names the source resolves without substitution.
const (
	FamilyRegular = "Go"
	FamilyBold    = "Go Bold"
	FamilyMono    = "Go Mono"
)

// Source creates opentype-backed providers. Parsed fonts are shared;
// faces are built per (family, size) request and cached by the
// engine's metrics cache, not here.
type Source struct {
	fonts map[string]*sfnt.Font
	def   *sfnt.Font

	mu    sync.Mutex
	faces map[key]*provider
}

type key struct {
	family string
	size   int
}

// NewSource parses the embedded Go fonts.
func NewSource() (*Source, error) {
	s := &Source{
		fonts: make(map[string]*sfnt.Font, 3),
		faces: make(map[key]*provider),
	}
	for name, ttf := range map[string][]byte{
		FamilyRegular: goregular.TTF,
		FamilyBold:    gobold.TTF,
		FamilyMono:    gomono.TTF,
	} {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded font %s: %w", name, err)
		}
		s.fonts[name] = f
	}
	s.def = s.fonts[FamilyRegular]
	return s, nil
}

// Face returns a provider for the described font, substituting the
// regular face for unknown families.
func (s *Source) Face(desc metrics.FontDesc) metrics.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{family: desc.Family, size: desc.Size}
	if p, ok := s.faces[k]; ok {
		return p
	}

	f, ok := s.fonts[desc.Family]
	if !ok {
		f = s.def
	}
	size := desc.Size
	if size < 1 {
		size = 1
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// NewFace only fails on degenerate options; fall back to a
		// known-good face at the default size.
		face, _ = opentype.NewFace(s.def, &opentype.FaceOptions{Size: 12, DPI: 72})
	}

	p := &provider{face: face}
	s.faces[k] = p
	return p
}

// provider measures one sized face.
type provider struct {
	face font.Face
}

func (p *provider) Advance(s string) int {
	return font.MeasureString(p.face, s).Ceil()
}

func (p *provider) Ascent() int {
	return p.face.Metrics().Ascent.Ceil()
}

func (p *provider) LineSpacing() int {
	return p.face.Metrics().Height.Ceil()
}
