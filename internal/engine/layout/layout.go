// Package layout turns raw script text into the wrapped line snapshot
// the renderer and scroll clock consume, and memoizes the result.
//
// A Snapshot is valid only for the exact (text, width, font, align)
// tuple that produced it. The cache is invalidated explicitly by the
// setters that change those inputs, and the built snapshot records its
// key so staleness is detectable rather than silently tolerated.
package layout

import (
	"strings"

	"github.com/dshills/promptcast/internal/engine/metrics"
	"github.com/dshills/promptcast/internal/engine/script"
	"github.com/dshills/promptcast/internal/engine/wrap"
)

// Key identifies the inputs a Snapshot was computed from.
type Key struct {
	Text  string
	Width int
	Font  metrics.Key
	Align wrap.Alignment
}

// Snapshot is the complete wrapped layout of one script.
type Snapshot struct {
	// Key is the exact tuple this snapshot was built for.
	Key Key

	// Lines is the wrapped display-line sequence. Pause and empty
	// lines carry no word offsets.
	Lines []wrap.Line

	// Pauses holds the indices of pause display lines.
	Pauses map[int]struct{}

	// Notes maps the first display-line index of a paragraph to the
	// note extracted from it.
	Notes map[int]string

	// TotalHeight is len(Lines) × line height, in layout units.
	TotalHeight float64
}

// IsPause reports whether line index i is a pause line.
func (s *Snapshot) IsPause(i int) bool {
	_, ok := s.Pauses[i]
	return ok
}

// Note returns the note anchored at line index i, if any.
func (s *Snapshot) Note(i int) (string, bool) {
	n, ok := s.Notes[i]
	return n, ok
}

// Cache memoizes the last built Snapshot.
type Cache struct {
	snap     *Snapshot
	dirty    bool
	rebuilds uint64
}

// NewCache creates an empty layout cache.
func NewCache() *Cache {
	return &Cache{dirty: true}
}

// Ensure returns a Snapshot valid for the given inputs. On a cache hit
// it performs no wrapping work; on a miss it reparses and rewraps the
// whole script.
func (c *Cache) Ensure(text string, width int, fm *metrics.Snapshot, align wrap.Alignment) *Snapshot {
	key := Key{Text: text, Width: width, Font: fm.Key, Align: align}
	if !c.dirty && c.snap != nil && c.snap.Key == key {
		return c.snap
	}

	c.snap = build(key, fm)
	c.dirty = false
	c.rebuilds++
	return c.snap
}

// Invalidate forces the next Ensure to rebuild.
func (c *Cache) Invalidate() {
	c.dirty = true
}

// Rebuilds returns the number of full layout rebuilds performed.
func (c *Cache) Rebuilds() uint64 {
	return c.rebuilds
}

// build reparses and rewraps the entire script.
func build(key Key, fm *metrics.Snapshot) *Snapshot {
	snap := &Snapshot{
		Key:    key,
		Pauses: make(map[int]struct{}),
		Notes:  make(map[int]string),
	}

	maxWidth := key.Width - 2*wrap.Margin

	for _, raw := range strings.Split(key.Text, "\n") {
		ln := script.ParseLine(raw)
		first := len(snap.Lines)

		switch {
		case ln.Empty:
			// Preserve vertical rhythm: one empty display line.
			snap.Lines = append(snap.Lines, wrap.Line{})
		case ln.Pause:
			snap.Pauses[first] = struct{}{}
			snap.Lines = append(snap.Lines, wrap.Line{Text: script.PauseToken})
		default:
			wrapped := wrap.Paragraph(ln.Text, maxWidth, key.Width, fm.SpaceWidth, fm.Provider, key.Align)
			snap.Lines = append(snap.Lines, wrapped...)
		}

		if ln.HasNote {
			snap.Notes[first] = ln.Note
		}
	}

	snap.TotalHeight = float64(len(snap.Lines) * fm.LineHeight)
	return snap
}
