// Package main is the entry point for the Promptcast teleprompter.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/promptcast/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, listSlots := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	if listSlots {
		return printSlots(application)
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
		os.Exit(1)
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func printSlots(application *app.App) int {
	names, err := application.SlotNames()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(names) == 0 {
		fmt.Println("No saved slots.")
		return 0
	}
	for _, name := range names {
		if ts, err := application.SlotSavedAt(name); err == nil {
			fmt.Printf("%-30s %s\n", name, ts.Format("2006-01-02 15:04"))
		} else {
			fmt.Println(name)
		}
	}
	return 0
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var showVersion bool
	var showHelp bool
	var listSlots bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.SlotName, "slot", "", "Start from a saved script slot")
	flag.StringVar(&opts.SaveSlot, "save-slot", "", "Save the starting script under a slot name")
	flag.BoolVar(&listSlots, "slots", false, "List saved script slots and exit")
	flag.StringVar(&opts.LogPath, "log", "", "Write session log to file")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Promptcast - terminal teleprompter\n\n")
		fmt.Fprintf(os.Stderr, "Usage: promptcast [options] [script-file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  space       Start countdown / pause / resume\n")
		fmt.Fprintf(os.Stderr, "  up/down     Adjust scroll speed\n")
		fmt.Fprintf(os.Stderr, "  left/right  Skip backward/forward\n")
		fmt.Fprintf(os.Stderr, "  a           Toggle voice-driven speed\n")
		fmt.Fprintf(os.Stderr, "  m           Toggle mirrored output\n")
		fmt.Fprintf(os.Stderr, "  r           Rewind to the top\n")
		fmt.Fprintf(os.Stderr, "  q, esc      Quit (esc cancels a countdown first)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  promptcast                         Resume the last session\n")
		fmt.Fprintf(os.Stderr, "  promptcast speech.txt              Prompt from a script file\n")
		fmt.Fprintf(os.Stderr, "  promptcast -save-slot show1 a.txt  Save a.txt as slot show1 and run\n")
		fmt.Fprintf(os.Stderr, "  promptcast -slot show1             Prompt from slot show1\n")
		fmt.Fprintf(os.Stderr, "  promptcast -slots                  List saved slots\n")
		fmt.Fprintf(os.Stderr, "  promptcast -log /tmp/p.log         Log engine activity\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Promptcast %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		opts.ScriptPath = flag.Arg(0)
	}

	return opts, listSlots
}
