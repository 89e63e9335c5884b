package app

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/inkline-editor/inkline/internal/host"
	"github.com/inkline-editor/inkline/internal/tool/flags"
	"github.com/inkline-editor/inkline/internal/tool/script"
)

// App is the terminal demo host: it owns the runtime, the builtin tools,
// scripted tool loading, and the tcell event loop.
type App struct {
	logger *Logger
	opts   Options
	host   *host.Host

	watcher *script.Watcher
	screen  tcell.Screen
	quit    atomic.Bool

	// Mouse interaction state.
	buttons   tcell.ButtonMask
	lastDownX int
	lastDownY int
	lastDown  int64 // unix milliseconds of the previous press
}

// New builds the application: logger, runtime host, builtin tools, and
// scripted tools from the configured directory.
func New(opts Options) (*App, error) {
	logger := NewLogger(LoggerConfig{
		Level:  ParseLogLevel(opts.LogLevel),
		Prefix: "inkline",
	})
	if opts.LogOutput != "" {
		f, err := os.OpenFile(opts.LogOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
	}

	a := &App{
		logger: logger,
		opts:   opts,
		host: host.New(host.Options{
			Logger:     logger.WithComponent("host"),
			FormFactor: opts.FormFactor,
		}),
	}

	if err := registerBuiltins(a.host); err != nil {
		return nil, fmt.Errorf("builtin tools: %w", err)
	}
	if err := a.loadScriptedTools(); err != nil {
		return nil, err
	}

	a.host.ActivateTool(flags.BaseSelectTool)
	return a, nil
}

// Host exposes the runtime for embedding and tests.
func (a *App) Host() *host.Host { return a.host }

// Logger returns the application logger.
func (a *App) Logger() *Logger { return a.logger }

// loadScriptedTools loads tools from the options directory and, when
// watching is enabled, keeps them hot-reloaded.
func (a *App) loadScriptedTools() error {
	if a.opts.ToolsDir == "" {
		return nil
	}
	if _, err := os.Stat(a.opts.ToolsDir); err != nil {
		// Missing directory just means no scripted tools.
		return nil
	}

	loader := script.NewLoader(a.logger.WithComponent("script"))

	if !a.opts.WatchTools {
		tools, err := loader.Discover(a.opts.ToolsDir)
		if err != nil {
			return err
		}
		for _, t := range tools {
			a.registerScripted(t)
		}
		return nil
	}

	watcher, err := script.NewWatcher(loader, a.logger.WithComponent("script"),
		a.registerScripted,
		a.host.Unregister,
	)
	if err != nil {
		return err
	}
	tools, err := watcher.Watch(a.opts.ToolsDir)
	if err != nil {
		watcher.Close()
		return err
	}
	for _, t := range tools {
		a.registerScripted(t)
	}
	a.watcher = watcher
	return nil
}

// registerScripted registers one loaded scripted tool, logging failures.
func (a *App) registerScripted(t *script.Tool) {
	if err := a.host.Register(t.Definition); err != nil {
		a.logger.Error("scripted tool rejected", "tool", t.Manifest.ID, "error", err)
		t.Close()
		return
	}
	a.logger.Info("scripted tool loaded", "tool", t.Manifest.String())
}

// Run initializes the terminal and drives the event loop until Stop or
// ctrl+q.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScreenInit, err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrScreenInit, err)
	}
	defer screen.Fini()

	if a.opts.MouseEnabled {
		screen.EnableMouse()
	}
	a.screen = screen
	a.host.AttachRenderController(screenController{})

	for !a.quit.Load() {
		a.render()

		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			a.handleKey(ev)
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventResize:
			screen.Sync()
		case nil:
			return a.shutdown()
		}
	}
	return a.shutdown()
}

// Stop requests the event loop to exit.
func (a *App) Stop() {
	a.quit.Store(true)
	if a.screen != nil {
		// Wake up PollEvent.
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// shutdown releases background resources.
func (a *App) shutdown() error {
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}

// screenController maps terminal cells 1:1 onto canvas units.
type screenController struct{}

func (screenController) ScreenToCanvas(x, y float64) (float64, float64) { return x, y }
func (screenController) CanvasToScreen(x, y float64) (float64, float64) { return x, y }
func (screenController) Zoom() float64                                  { return 1 }
