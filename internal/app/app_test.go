package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/promptcast/internal/config"
	"github.com/dshills/promptcast/internal/engine/clock"
	"github.com/dshills/promptcast/internal/host/store"
	"github.com/dshills/promptcast/internal/term"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{ConfigPath: filepath.Join(t.TempDir(), "config.toml")}
}

func TestNewWithDefaults(t *testing.T) {
	a, err := New(testOptions(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.eng.ManualSpeed() != config.DefaultSpeed {
		t.Errorf("speed = %v, want default %v", a.eng.ManualSpeed(), config.DefaultSpeed)
	}
	if a.eng.State() != clock.Idle {
		t.Errorf("state = %v, want Idle", a.eng.State())
	}
}

func TestNewAppliesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	s := config.Default()
	s.Speed = 4.5
	s.Countdown = 0
	if err := config.Save(path, s); err != nil {
		t.Fatal(err)
	}

	a, err := New(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.eng.ManualSpeed() != 4.5 {
		t.Errorf("speed = %v, want 4.5", a.eng.ManualSpeed())
	}
}

func TestNewRunsStartupScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	script := `prompter.set_speed(6.0)`
	if err := os.WriteFile(filepath.Join(dir, "init.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.eng.ManualSpeed() != 6.0 {
		t.Errorf("speed = %v, startup script should win", a.eng.ManualSpeed())
	}
}

func TestNewLoadsExplicitScript(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "show.txt")
	if err := os.WriteFile(scriptPath, []byte("first line\nsecond line"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(Options{
		ConfigPath: filepath.Join(dir, "config.toml"),
		ScriptPath: scriptPath,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.eng.Script() != "first line\nsecond line" {
		t.Errorf("script = %q", a.eng.Script())
	}
}

func TestNewMissingExplicitScriptFails(t *testing.T) {
	_, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		ScriptPath: filepath.Join(t.TempDir(), "nope.txt"),
	})
	if err == nil {
		t.Error("expected an error for a missing explicit script")
	}
}

func TestShutdownPersistsSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	a, err := New(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.eng.SetScript("remember me")
	a.settings.Speed = 7.0
	a.Shutdown()
	a.Shutdown() // idempotent

	s, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Speed != 7.0 {
		t.Errorf("persisted Speed = %v, want 7.0", s.Speed)
	}

	b, err := New(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("New after shutdown: %v", err)
	}
	if b.eng.Script() != "remember me" {
		t.Errorf("restored script = %q, want working text", b.eng.Script())
	}
}

func TestHandleKeyQuit(t *testing.T) {
	a, err := New(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := a.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)); got != ErrQuit {
		t.Errorf("'q' = %v, want ErrQuit", got)
	}
	if got := a.handleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)); got != ErrQuit {
		t.Errorf("ctrl-c = %v, want ErrQuit", got)
	}
}

func TestHandleKeyEscapeCancelsCountdownFirst(t *testing.T) {
	a, err := New(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	a.eng.SetScript("some text")
	a.eng.Play(time.Now())
	if a.eng.State() != clock.Counting {
		t.Fatalf("state = %v, want Counting", a.eng.State())
	}

	if got := a.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)); got != nil {
		t.Errorf("escape during countdown = %v, want nil", got)
	}
	if a.eng.State() != clock.Idle {
		t.Errorf("state = %v, want Idle after cancel", a.eng.State())
	}

	if got := a.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)); got != ErrQuit {
		t.Errorf("escape while idle = %v, want ErrQuit", got)
	}
}

func TestHandleKeySpeedKeys(t *testing.T) {
	a, err := New(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	before := a.eng.ManualSpeed()

	if err := a.handleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	if got := a.eng.ManualSpeed(); got != before+0.25 {
		t.Errorf("speed = %v, want %v", got, before+0.25)
	}
	if a.settings.Speed != a.eng.ManualSpeed() {
		t.Error("settings should track speed changes")
	}

	if err := a.handleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	if got := a.eng.ManualSpeed(); got != before {
		t.Errorf("speed = %v, want %v", got, before)
	}
}

func TestHandleKeyMirrorToggle(t *testing.T) {
	a, err := New(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Fini)
	a.screen = s
	a.painter = term.NewPainter(s)

	if err := a.handleKey(tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	if !a.settings.Mirror || !a.painter.Mirror() {
		t.Error("'m' should enable mirroring")
	}
}

func TestStatusLine(t *testing.T) {
	a, err := New(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	a.eng.SetScript("some words to scroll through here")

	got := a.status()
	if !strings.Contains(got, "idle") {
		t.Errorf("status %q should name the playback state", got)
	}
	if !strings.Contains(got, "wpm") {
		t.Errorf("status %q should include the pace estimate", got)
	}
	if !strings.Contains(got, "left") {
		t.Errorf("status %q should include remaining time", got)
	}
}

func TestNewLoadsNamedSlot(t *testing.T) {
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "slots.json"))
	if err := st.SaveSlot("keynote", "slot text wins"); err != nil {
		t.Fatal(err)
	}

	a, err := New(Options{
		ConfigPath: filepath.Join(dir, "config.toml"),
		SlotName:   "keynote",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.eng.Script() != "slot text wins" {
		t.Errorf("script = %q, want the slot contents", a.eng.Script())
	}
}

func TestNewMissingSlotFails(t *testing.T) {
	_, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		SlotName:   "nope",
	})
	if err == nil {
		t.Error("expected an error for a missing slot")
	}
}

func TestNewSavesScriptToSlot(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "show.txt")
	if err := os.WriteFile(scriptPath, []byte("keep this"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(Options{
		ConfigPath: filepath.Join(dir, "config.toml"),
		ScriptPath: scriptPath,
		SaveSlot:   "rehearsal",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	names, err := a.SlotNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "rehearsal" {
		t.Errorf("slots = %v, want [rehearsal]", names)
	}
	if _, err := a.SlotSavedAt("rehearsal"); err != nil {
		t.Errorf("SlotSavedAt: %v", err)
	}

	st := store.New(filepath.Join(dir, "slots.json"))
	text, err := st.LoadSlot("rehearsal")
	if err != nil {
		t.Fatal(err)
	}
	if text != "keep this" {
		t.Errorf("slot text = %q, want the script contents", text)
	}
}

func TestContentUnits(t *testing.T) {
	tests := []struct {
		name string
		cols int
		cap  int
		want int
	}{
		{"wide terminal capped", 120, 920, 920},
		{"narrow terminal uncapped", 40, 920, 40 * term.CellWidth},
		{"no cap", 120, 0, 120 * term.CellWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contentUnits(tt.cols, tt.cap); got != tt.want {
				t.Errorf("contentUnits(%d, %d) = %d, want %d", tt.cols, tt.cap, got, tt.want)
			}
		})
	}
}

func TestApplySettingsReload(t *testing.T) {
	a, err := New(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	s := a.settings
	s.Speed = 9.0
	s.AutoSpeed.Enabled = true
	a.applySettings(s)

	if a.eng.ManualSpeed() != 9.0 {
		t.Errorf("speed = %v after reload", a.eng.ManualSpeed())
	}
	if !a.eng.AutoSpeedEnabled() {
		t.Error("auto speed should be enabled after reload")
	}
}
