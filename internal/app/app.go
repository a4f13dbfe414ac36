// Package app wires the scroll engine, configuration, script storage,
// and the terminal front end into a running prompter.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/promptcast/internal/config"
	"github.com/dshills/promptcast/internal/engine"
	"github.com/dshills/promptcast/internal/engine/clock"
	"github.com/dshills/promptcast/internal/engine/wrap"
	"github.com/dshills/promptcast/internal/host/rc"
	"github.com/dshills/promptcast/internal/host/scriptfile"
	"github.com/dshills/promptcast/internal/host/store"
	"github.com/dshills/promptcast/internal/notify"
	"github.com/dshills/promptcast/internal/term"
)

// framePeriod is the render tick interval, roughly 60 frames per
// second.
const framePeriod = 16 * time.Millisecond

// seekRows is how far the arrow keys jump, in display rows.
const seekRows = 5

// Options configure a new App.
type Options struct {
	// ConfigPath overrides the default settings file location.
	ConfigPath string

	// ScriptPath loads the given script instead of the remembered one.
	ScriptPath string

	// SlotName starts from the named script slot instead of a file.
	SlotName string

	// SaveSlot stores the session's starting text under the given
	// slot name.
	SaveSlot string

	// LogPath writes the session log to the given file. Empty
	// disables logging.
	LogPath string

	// LogLevel is the minimum level to log ("debug", "info", "warn",
	// "error").
	LogLevel string
}

// App owns the prompter session. The engine is single-threaded; every
// engine call happens on the run loop goroutine.
type App struct {
	log     *Logger
	logFile *os.File

	configPath string
	settings   config.Settings

	eng     *engine.Engine
	store   *store.Store
	screen  tcell.Screen
	painter *term.Painter

	watcher    *config.Watcher
	settingsCh chan config.Settings

	quit     chan struct{}
	shutdown sync.Once
}

/// New builds an App from options: settings load, startup script, slot
// store, engine construction, and initial script text.
func New(opts Options) (*App, error) {
	a := &App{
		log:        NullLogger,
		settingsCh: make(chan config.Settings, 1),
		quit:       make(chan struct{}),
	}

	if opts.LogPath != "" {
		log, f, err := OpenLogFile(opts.LogPath, ParseLogLevel(opts.LogLevel))
		if err != nil {
			return nil, err
		}
		a.log = log
		a.logFile = f
	}

	path := opts.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	a.configPath = path

	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := rc.Run(filepath.Join(filepath.Dir(path), rc.FileName), &settings); err != nil {
		// A broken rc file should not keep the prompter from
		// starting; report it and run with what we have.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		a.log.Warn("startup script failed: %v", err)
		settings.Clamp()
	}
	a.settings = settings

	a.eng = engine.New(term.NewCellSource())
	a.store = store.New(filepath.Join(filepath.Dir(path), "slots.json"))

	a.applySettings(settings)

	text, err := a.initialScript(opts)
	if err != nil {
		return nil, err
	}
	if opts.SaveSlot != "" {
		if err := a.store.SaveSlot(opts.SaveSlot, text); err != nil {
			return nil, err
		}
		a.log.Info("saved script to slot %q", opts.SaveSlot)
	}
	a.eng.SetScript(text)

	a.eng.Notifier().Subscribe(notify.KindPlayback, func(ev notify.Event) {
		a.log.WithComponent("engine").Info("playback %s", ev.Playback)
	})

	return a, nil
}

// initialScript picks the session's starting text: a named slot wins,
// then an explicit path, then the remembered script file, then the
// last working text.
func (a *App) initialScript(opts Options) (string, error) {
	if opts.SlotName != "" {
		text, err := a.store.LoadSlot(opts.SlotName)
		if err != nil {
			return "", err
		}
		a.log.Info("loaded script from slot %q", opts.SlotName)
		return text, nil
	}

	path := opts.ScriptPath
	if path == "" {
		path = a.settings.Script
	}
	if path != "" {
		text, enc, err := scriptfile.Load(path)
		if err != nil {
			if opts.ScriptPath != "" {
				return "", err
			}
			// The remembered file may have moved; fall through to
			// the stored text.
			a.log.Warn("remembered script unavailable: %v", err)
		} else {
			a.log.Info("loaded script %s (%s)", path, enc)
			a.settings.Script = path
			return text, nil
		}
	}
	text, err := a.store.LastText()
	if err != nil {
		a.log.Warn("slot store unreadable: %v", err)
		return "", nil
	}
	return text, nil
}

// applySettings pushes a settings snapshot into the engine and the
// painter.
func (a *App) applySettings(s config.Settings) {
	a.settings = s

	a.eng.SetFont(s.FontFamily, s.FontSize)
	a.eng.SetLineSpacing(s.LineSpacing)
	if align, ok := wrap.ParseAlignment(s.Alignment); ok {
		a.eng.SetAlignment(align)
	}
	a.eng.SetManualSpeed(s.Speed)
	a.eng.SetCountdown(s.Countdown)
	a.eng.SetFocusRatio(s.FocusRatio)
	a.eng.SetWordHighlight(s.WordHighlight)
	a.eng.SetAutoSpeedThreshold(s.AutoSpeed.Threshold)
	a.eng.SetAutoSpeedEnabled(s.AutoSpeed.Enabled)

	if a.painter != nil {
		a.painter.SetMirror(s.Mirror)
		a.painter.SetPalette(a.palette(s.Theme))
	}
}

// palette resolves a theme name to painter colors.
func (a *App) palette(name string) term.Palette {
	theme, err := config.LookupTheme(name)
	if err != nil {
		return term.DefaultPalette()
	}
	pal, err := term.ParsePalette(theme.Background, theme.Text, theme.Highlight)
	if err != nil {
		a.log.Warn("theme %q has bad colors: %v", name, err)
		return term.DefaultPalette()
	}
	return pal
}

// Run enters the prompter loop and blocks until quit or error.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	a.screen = screen
	a.painter = term.NewPainter(screen)
	a.painter.SetMirror(a.settings.Mirror)
	a.painter.SetPalette(a.palette(a.settings.Theme))

	if w, err := config.Watch(a.configPath, func(s config.Settings) {
		select {
		case a.settingsCh <- s:
		default:
		}
	}); err == nil {
		a.watcher = w
	} else {
		a.log.Warn("config watch unavailable: %v", err)
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	err = a.loop(events)
	a.Shutdown()
	return err
}

func (a *App) loop(events <-chan tcell.Event) error {
	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-a.quit:
			return ErrQuit

		case s := <-a.settingsCh:
			a.log.Info("settings file changed, reloading")
			a.applySettings(s)

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := a.handleEvent(ev); err != nil {
				return err
			}

		case now := <-ticker.C:
			a.eng.Tick(now)
			a.draw()
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()

	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return nil
}

func (a *App) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return ErrQuit

	case tcell.KeyEscape:
		if a.eng.State() == clock.Counting {
			a.eng.CancelCountdown()
			return nil
		}
		return ErrQuit

	case tcell.KeyUp:
		a.adjustSpeed(0.25)
	case tcell.KeyDown:
		a.adjustSpeed(-0.25)
	case tcell.KeyLeft:
		a.eng.Seek(float64(-seekRows * a.eng.LineHeight()))
	case tcell.KeyRight:
		a.eng.Seek(float64(seekRows * a.eng.LineHeight()))

	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			a.eng.TogglePlay(time.Now())
		case 'q':
			return ErrQuit
		case 'r':
			a.eng.Reset()
		case 'm':
			a.painter.SetMirror(!a.painter.Mirror())
			a.settings.Mirror = a.painter.Mirror()
		case 'a':
			on := !a.eng.AutoSpeedEnabled()
			a.eng.SetAutoSpeedEnabled(on)
			a.settings.AutoSpeed.Enabled = on
		}
	}
	return nil
}

func (a *App) adjustSpeed(delta float64) {
	speed := a.eng.ManualSpeed() + delta
	a.eng.SetManualSpeed(speed)
	a.settings.Speed = a.eng.ManualSpeed()
}

// SlotNames lists the stored script slots.
func (a *App) SlotNames() ([]string, error) {
	return a.store.Slots()
}

// SlotSavedAt reports when the named slot was last written.
func (a *App) SlotSavedAt(name string) (time.Time, error) {
	return a.store.SavedAt(name)
}

// contentUnits converts the terminal width to layout units, capped at
// the configured viewport width so lines stay a readable length on
// very wide terminals.
func contentUnits(cols, capUnits int) int {
	units := cols * term.CellWidth
	if capUnits > 0 && units > capUnits {
		units = capUnits
	}
	return units
}

func (a *App) draw() {
	width, height := a.screen.Size()
	content := contentUnits(width, a.settings.ViewportWidth)
	a.eng.SetViewportWidth(content)
	lh := a.eng.LineHeight()
	frame := a.eng.Render(content, height*lh)

	a.painter.SetRowUnits(lh)
	a.painter.DrawFrame(frame, content/term.CellWidth, height)
	if note, ok := a.eng.CurrentNote(); ok {
		a.painter.DrawNote(note, width)
	}
	if a.eng.CountdownRemaining() > 0 {
		a.painter.DrawCountdown(a.eng.CountdownRemaining(), width, height)
	}
	a.painter.DrawStatus(a.status(), width, height)
	a.painter.Show()
}

// status composes the bottom status line.
func (a *App) status() string {
	offset, total := a.eng.Progress()
	pct := 0
	if total > 0 {
		pct = int(offset / total * 100)
	}
	remaining := time.Duration(a.eng.RemainingSeconds() * float64(time.Second))
	mm := int(remaining.Minutes())
	ss := int(remaining.Seconds()) % 60

	speed := a.eng.ManualSpeed()
	mode := "manual"
	if a.eng.AutoSpeedEnabled() {
		speed = a.eng.SmoothedAutoSpeed()
		mode = "auto"
	}

	return fmt.Sprintf("%s  %.2fx %s  %d wpm  %02d:%02d left  %d%%",
		a.eng.State(), speed, mode, a.eng.WordsPerMinuteEstimate(), mm, ss, pct)
}

// Shutdown stops the run loop, releases the terminal, and persists
// session state. Safe to call more than once and from other
// goroutines.
func (a *App) Shutdown() {
	a.shutdown.Do(func() {
		close(a.quit)

		if a.watcher != nil {
			a.watcher.Close()
		}
		if a.screen != nil {
			a.screen.Fini()
		}

		if err := a.store.SetLastText(a.eng.Script()); err != nil {
			a.log.Warn("saving working text: %v", err)
		}
		if err := config.Save(a.configPath, a.settings); err != nil {
			a.log.Warn("saving settings: %v", err)
		}

		if a.logFile != nil {
			a.logFile.Close()
		}
	})
}
