// Package main is the entry point for the Inkline canvas host.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkline-editor/inkline/internal/app"
	"github.com/inkline-editor/inkline/internal/config"
	"github.com/inkline-editor/inkline/internal/host"
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
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Stop()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() app.Options {
	opts := app.DefaultOptions()
	var showVersion bool
	var showHelp bool
	var mobile bool
	configPath := config.DefaultPath()

	flag.StringVar(&configPath, "config", configPath, "Path to configuration file")
	flag.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogOutput, "log-file", "", "Write logs to a file instead of stderr")
	flag.StringVar(&opts.ToolsDir, "tools", opts.ToolsDir, "Directory of scripted tools")
	flag.StringVar(&opts.ToolsDir, "t", opts.ToolsDir, "Directory of scripted tools (shorthand)")
	flag.BoolVar(&opts.WatchTools, "watch", opts.WatchTools, "Hot-reload scripted tools on change")
	flag.BoolVar(&opts.MouseEnabled, "mouse", opts.MouseEnabled, "Enable terminal mouse capture")
	flag.BoolVar(&mobile, "mobile", false, "Run with the mobile form factor")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Inkline - extensible canvas tool host\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkline [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inkline                     Run with the builtin tools\n")
		fmt.Fprintf(os.Stderr, "  inkline -t ./tools          Load scripted tools from ./tools\n")
		fmt.Fprintf(os.Stderr, "  inkline -log-level debug    Verbose logging\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Inkline %s\n", version)
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

	if mobile {
		opts.FormFactor = host.FormFactorMobile
	} else {
		opts.FormFactor = host.FormFactorDesktop
	}

	applyConfig(&opts, configPath)
	return opts
}

// applyConfig overlays the configuration file and environment onto the
// options. Flags set on the command line win.
func applyConfig(opts *app.Options, path string) {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.Logging.Level != "" && !set["log-level"] {
		opts.LogLevel = cfg.Logging.Level
	}
	if cfg.Logging.File != "" && !set["log-file"] {
		opts.LogOutput = cfg.Logging.File
	}
	if cfg.Tools.Dir != "" && !set["tools"] && !set["t"] {
		opts.ToolsDir = cfg.Tools.Dir
	}
	if cfg.Tools.Watch != nil && !set["watch"] {
		opts.WatchTools = *cfg.Tools.Watch
	}
	if cfg.Terminal.Mouse != nil && !set["mouse"] {
		opts.MouseEnabled = *cfg.Terminal.Mouse
	}
	if cfg.Terminal.FormFactor != "" && !set["mobile"] {
		opts.FormFactor = cfg.Terminal.FormFactor
	}
}
