// Package metrics defines the text-measurement boundary of the scroll
// engine and the font metrics cache built on top of it.
//
// The engine never measures text itself. A Source supplies a Provider
// for a requested font; the provider reports advance widths, ascent,
// and raw line spacing in whatever unit the host renders in (pixels
// for a raster host, cells for a terminal host). Providers are treated
// as pure functions of the font description, which is what makes the
// metrics cache sound.
package metrics

// FontDesc identifies a font for measurement purposes.
type FontDesc struct {
	Family string
	Size   int
}

// Provider measures text for a single font.
//
// A Provider must be deterministic: the same string always yields the
// same advance. Implementations resolve unavailable fonts by
// substitution; requesting metrics never fails.
type Provider interface {
	// Advance returns the horizontal advance of s.
	Advance(s string) int

	// Ascent returns the distance from the baseline to the top of the
	// tallest glyph.
	Ascent() int

	// LineSpacing returns the raw line-to-line spacing before the
	// engine's spacing factor is applied.
	LineSpacing() int
}

// Source creates Providers on demand.
type Source interface {
	// Face returns a Provider for the described font, substituting a
	// default face when the family is unknown.
	Face(desc FontDesc) Provider
}

// Key identifies the inputs a Snapshot was computed from.
type Key struct {
	Family  string
	Size    int
	Spacing float64
}

// Snapshot holds the derived font metrics the layout and scroll logic
// consume every tick.
type Snapshot struct {
	// Key is the exact tuple this snapshot was built for.
	Key Key

	// Provider is the measuring face behind the snapshot.
	Provider Provider

	// Ascent is the baseline offset within a display line.
	Ascent int

	// LineHeight is the effective line height: raw spacing scaled by
	// the spacing factor, floored at 1.
	LineHeight int

	// SpaceWidth is the advance of a single space character.
	SpaceWidth int
}

// Cache memoizes the Snapshot for the last requested font. Setters
// that change font inputs mark it dirty; Ensure rebuilds at most once
// per change.
type Cache struct {
	src      Source
	snap     *Snapshot
	dirty    bool
	rebuilds uint64
}

// NewCache creates a metrics cache backed by src.
func NewCache(src Source) *Cache {
	return &Cache{src: src, dirty: true}
}

// Ensure returns a Snapshot valid for (desc, spacing), rebuilding only
// when the cache has been invalidated or the key changed.
func (c *Cache) Ensure(desc FontDesc, spacing float64) *Snapshot {
	key := Key{Family: desc.Family, Size: desc.Size, Spacing: spacing}
	if !c.dirty && c.snap != nil && c.snap.Key == key {
		return c.snap
	}

	p := c.src.Face(desc)
	lh := int(float64(p.LineSpacing()) * spacing)
	if lh < 1 {
		lh = 1
	}

	c.snap = &Snapshot{
		Key:        key,
		Provider:   p,
		Ascent:     p.Ascent(),
		LineHeight: lh,
		SpaceWidth: p.Advance(" "),
	}
	c.dirty = false
	c.rebuilds++
	return c.snap
}

// Invalidate forces the next Ensure to rebuild.
func (c *Cache) Invalidate() {
	c.dirty = true
}

// Rebuilds returns the number of snapshot rebuilds performed.
func (c *Cache) Rebuilds() uint64 {
	return c.rebuilds
}
