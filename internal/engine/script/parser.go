// Package script parses raw teleprompter text into directive-free
// paragraphs.
//
// Scripts are processed one raw line at a time so that presenter notes
// stay anchored to the paragraph they were written in. Two directives
// are recognized:
//
//	[PAUSE]        a line consisting solely of this token halts
//	               auto-scroll when the scroll head reaches it
//	[[note text]]  an out-of-band presenter note, stripped from the
//	               display text
//
// Anything that does not match a directive exactly is treated as
// literal text. Parsing never fails.
package script

import (
	"regexp"
	"strings"
)

// PauseToken is the exact (trimmed) line content that marks a pause
// point in a script.
const PauseToken = "[PAUSE]"

// noteRE matches the first [[...]] note directive on a line. Non-greedy
// so that two notes on one line do not merge into a single match.
var noteRE = regexp.MustCompile(`\[\[(.+?)\]\]`)

// Line is the result of parsing one raw script line.
type Line struct {
	// Text is the directive-free paragraph text, trimmed.
	Text string

	// Note is the extracted note text, if HasNote is true.
	Note string

	// HasNote reports whether a [[...]] directive was present.
	HasNote bool

	// Pause reports whether the line is a pause directive.
	Pause bool

	// Empty reports whether the line has no display content. A pause
	// line is not considered empty.
	Empty bool
}

// ParseLine extracts at most one note directive from raw, strips all
// note directives from the display text, and classifies the remainder.
func ParseLine(raw string) Line {
	var ln Line

	if m := noteRE.FindStringSubmatch(raw); m != nil {
		ln.Note = strings.TrimSpace(m[1])
		ln.HasNote = true
	}

	ln.Text = strings.TrimSpace(noteRE.ReplaceAllString(raw, ""))

	switch ln.Text {
	case "":
		ln.Empty = true
	case PauseToken:
		ln.Pause = true
	}

	return ln
}

// CountWords returns the number of speakable words in text. Tokens
// containing a directive bracket are excluded so pause markers and
// half-stripped notes do not inflate pace estimates.
func CountWords(text string) int {
	n := 0
	for _, w := range strings.Fields(text) {
		if strings.ContainsRune(w, '[') {
			continue
		}
		n++
	}
	return n
}
