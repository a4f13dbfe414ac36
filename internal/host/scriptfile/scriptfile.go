// Package scriptfile loads prompter scripts from disk. Script files
// arrive from many sources (word processors, mail attachments, old
// prompting rigs) so the loader probes a fixed list of encodings
// instead of assuming UTF-8.
package scriptfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// codepage pairs a legacy decoder with its display name. Order
// matters: the first decoder that maps every byte wins.
type codepage struct {
	name string
	enc  encoding.Encoding
}

// Turkish first: prompting scripts in the field most often carry
// cp1254, and its table is a near-superset of cp1252 for Latin text.
var codepages = []codepage{
	{"windows-1254", charmap.Windows1254},
	{"windows-1252", charmap.Windows1252},
	{"windows-1250", charmap.Windows1250},
}

// Load reads and decodes the script at path. The returned encoding
// name reports which probe matched.
func Load(path string) (text, encodingName string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading script %s: %w", path, err)
	}
	text, encodingName = Decode(data)
	return text, encodingName, nil
}

// Save writes the script at path as plain UTF-8, no BOM.
func Save(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing script %s: %w", path, err)
	}
	return nil
}

// Decode converts raw script bytes to a string. Probe order: UTF-8
// with BOM, UTF-16 with BOM, plain UTF-8, then the legacy codepages,
// with Latin-1 as the never-failing last resort. Line endings are
// normalized to bare newlines.
func Decode(data []byte) (text, encodingName string) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return normalize(string(data[len(bomUTF8):])), "utf-8 (bom)"

	case bytes.HasPrefix(data, bomUTF16BE), bytes.HasPrefix(data, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if decoded, err := dec.Bytes(data); err == nil {
			return normalize(string(decoded)), "utf-16"
		}

	case utf8.Valid(data):
		return normalize(string(data)), "utf-8"
	}

	for _, cp := range codepages {
		decoded, err := cp.enc.NewDecoder().Bytes(data)
		if err != nil || bytes.ContainsRune(decoded, utf8.RuneError) {
			// An unmapped byte decodes to the replacement rune;
			// treat that as a probe miss.
			continue
		}
		return normalize(string(decoded)), cp.name
	}

	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return normalize(string(decoded)), "latin-1"
}

// normalize rewrites Windows and old-Mac line endings to newlines.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
