// Package fade provides the distance-to-opacity lookup table used to
// dim lines as they move away from the focus line.
package fade

import "math"

// Size is the number of precomputed distances. Lookups beyond the
// table saturate to the final entry.
const Size = 512

// SkipThreshold is the opacity below which a line is not drawn at all.
// Paint cost must scale with visible lines, not script length, so
// callers issue no draw command for alphas under this value.
const SkipThreshold = 8

// falloff is the opacity lost per pixel of distance from focus. The
// table reaches 0 at distance 340 and stays there.
const falloff = 0.75

// Table maps pixel distance from the focus baseline to opacity.
type Table [Size]uint8

// New precomputes the fade table.
func New() *Table {
	var t Table
	for d := range t {
		a := 255 - int(math.Round(float64(d)*falloff))
		if a < 0 {
			a = 0
		}
		t[d] = uint8(a)
	}
	return &t
}

// Alpha returns the opacity for a distance. Negative distances are
// treated as their magnitude; distances past the table clamp to the
// last entry.
func (t *Table) Alpha(dist int) uint8 {
	if dist < 0 {
		dist = -dist
	}
	if dist >= Size {
		dist = Size - 1
	}
	return t[dist]
}

// Visible reports whether a line with the given opacity is worth a
// draw command.
func Visible(alpha uint8) bool {
	return alpha >= SkipThreshold
}
