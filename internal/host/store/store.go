// Package store persists named script slots in a single JSON file.
// Slots let a presenter stage several scripts and recall them by name;
// the store also keeps the last working text so an unsaved session
// survives a restart.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrNoSlot is returned when a requested slot does not exist.
var ErrNoSlot = errors.New("no such slot")

// Store reads and writes one JSON slot file. It is not safe for
// concurrent use; callers serialize access.
type Store struct {
	path string
}

// New creates a store backed by the file at path. The file is created
// on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// SaveSlot stores text under name, overwriting any previous content.
func (s *Store) SaveSlot(name, text string) error {
	if name == "" {
		return errors.New("slot name must not be empty")
	}
	doc, err := s.read()
	if err != nil {
		return err
	}
	base := "slots." + escape(name)
	doc, err = sjson.Set(doc, base+".text", text)
	if err != nil {
		return fmt.Errorf("encoding slot %q: %w", name, err)
	}
	doc, err = sjson.Set(doc, base+".saved_at", time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("encoding slot %q: %w", name, err)
	}
	return s.write(doc)
}

// LoadSlot returns the text stored under name.
func (s *Store) LoadSlot(name string) (string, error) {
	doc, err := s.read()
	if err != nil {
		return "", err
	}
	v := gjson.Get(doc, "slots."+escape(name)+".text")
	if !v.Exists() {
		return "", fmt.Errorf("slot %q: %w", name, ErrNoSlot)
	}
	return v.String(), nil
}

// DeleteSlot removes the named slot.
func (s *Store) DeleteSlot(name string) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	path := "slots." + escape(name)
	if !gjson.Get(doc, path).Exists() {
		return fmt.Errorf("slot %q: %w", name, ErrNoSlot)
	}
	doc, err = sjson.Delete(doc, path)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", name, err)
	}
	return s.write(doc)
}

// Slots returns the stored slot names, sorted.
func (s *Store) Slots() ([]string, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	var names []string
	gjson.Get(doc, "slots").ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	sort.Strings(names)
	return names, nil
}

// SavedAt returns when the named slot was last written.
func (s *Store) SavedAt(name string) (time.Time, error) {
	doc, err := s.read()
	if err != nil {
		return time.Time{}, err
	}
	v := gjson.Get(doc, "slots."+escape(name)+".saved_at")
	if !v.Exists() {
		return time.Time{}, fmt.Errorf("slot %q: %w", name, ErrNoSlot)
	}
	ts, err := time.Parse(time.RFC3339, v.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("slot %q timestamp: %w", name, err)
	}
	return ts, nil
}

// SetLastText records the current working text.
func (s *Store) SetLastText(text string) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc, err = sjson.Set(doc, "last.text", text)
	if err != nil {
		return fmt.Errorf("encoding last text: %w", err)
	}
	return s.write(doc)
}

// LastText returns the recorded working text, or "" when none exists.
func (s *Store) LastText() (string, error) {
	doc, err := s.read()
	if err != nil {
		return "", err
	}
	return gjson.Get(doc, "last.text").String(), nil
}

func (s *Store) read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "{}", nil
		}
		return "", fmt.Errorf("reading store %s: %w", s.path, err)
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("store %s is not valid JSON", s.path)
	}
	return string(data), nil
}

func (s *Store) write(doc string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing store %s: %w", s.path, err)
	}
	return nil
}

// escape protects path metacharacters in slot names.
func escape(name string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "#", `\#`)
	return r.Replace(name)
}
