// Package rc runs the user's Lua startup script. The script sees a
// global `prompter` table of setters and runs once before the first
// frame, so a presenter can keep per-venue tweaks in code instead of
// editing the config file.
package rc

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/promptcast/internal/config"
)

// FileName is the startup script name, looked up next to the config
// file.
const FileName = "init.lua"

// Run executes the startup script at path against the given settings.
// A missing file is not an error. The settings are clamped after the
// script finishes, so a script cannot push values out of range.
func Run(path string, s *config.Settings) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading startup script %s: %w", path, err)
	}
	if err := RunSource(string(data), s); err != nil {
		return fmt.Errorf("startup script %s: %w", path, err)
	}
	return nil
}

// RunSource executes startup script source against the settings.
func RunSource(src string, s *config.Settings) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("prompter", newPrompterTable(L, s))

	if err := L.DoString(src); err != nil {
		return err
	}
	s.Clamp()
	return nil
}

// newPrompterTable builds the setter table the script sees. Each
// setter writes straight into the settings struct; validation happens
// once at the end of the run.
func newPrompterTable(L *lua.LState, s *config.Settings) *lua.LTable {
	t := L.NewTable()

	set := func(name string, fn lua.LGFunction) {
		t.RawSetString(name, L.NewFunction(fn))
	}

	set("set_speed", func(L *lua.LState) int {
		s.Speed = float64(L.CheckNumber(1))
		return 0
	})
	set("set_font", func(L *lua.LState) int {
		s.FontFamily = L.CheckString(1)
		s.FontSize = L.CheckInt(2)
		return 0
	})
	set("set_line_spacing", func(L *lua.LState) int {
		s.LineSpacing = float64(L.CheckNumber(1))
		return 0
	})
	set("set_alignment", func(L *lua.LState) int {
		s.Alignment = L.CheckString(1)
		return 0
	})
	set("set_countdown", func(L *lua.LState) int {
		s.Countdown = L.CheckInt(1)
		return 0
	})
	set("set_focus_ratio", func(L *lua.LState) int {
		s.FocusRatio = float64(L.CheckNumber(1))
		return 0
	})
	set("set_word_highlight", func(L *lua.LState) int {
		s.WordHighlight = L.CheckBool(1)
		return 0
	})
	set("set_mirror", func(L *lua.LState) int {
		s.Mirror = L.CheckBool(1)
		return 0
	})
	set("set_theme", func(L *lua.LState) int {
		name := L.CheckString(1)
		if _, err := config.LookupTheme(name); err != nil {
			L.ArgError(1, fmt.Sprintf("unknown theme %q", name))
			return 0
		}
		s.Theme = name
		return 0
	})
	set("set_auto_speed", func(L *lua.LState) int {
		s.AutoSpeed.Enabled = L.CheckBool(1)
		if L.GetTop() >= 2 {
			s.AutoSpeed.Threshold = float64(L.CheckNumber(2))
		}
		return 0
	})
	set("load_script", func(L *lua.LState) int {
		s.Script = L.CheckString(1)
		return 0
	})
	set("themes", func(L *lua.LState) int {
		names := L.NewTable()
		for i, name := range config.ThemeNames() {
			names.RawSetInt(i+1, lua.LString(name))
		}
		L.Push(names)
		return 1
	})

	return t
}
