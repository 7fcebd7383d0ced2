package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"solarsystem/config"
	"solarsystem/core"
	"solarsystem/server"
	"solarsystem/simulation"
)

// Backend is a window plus the renderer drawing into it.
type Backend interface {
	simulation.Renderer
	PollInput() simulation.Input
	LoadTextures(sys *core.System) error
	Close()
}

// Factory opens a backend for the given window settings. It must keep ctx
// in sync with the window size.
type Factory func(ws config.WindowSettings, ctx *core.Context) (Backend, error)

// Options are the command line options shared by every binary.
type Options struct {
	ConfigPath string
	Width      int
	Height     int
	Serve      string
	Verbose    bool
	Quiet      bool
	MaxFrames  uint64
}

// ParseFlags parses args (without the program name).
func ParseFlags(name string, args []string) (Options, error) {
	var o Options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&o.ConfigPath, "config", "settings.json", "Settings file (.json or .toml)")
	fs.IntVar(&o.Width, "width", 0, "Window width (overrides settings)")
	fs.IntVar(&o.Height, "height", 0, "Window height (overrides settings)")
	fs.StringVar(&o.Serve, "serve", "", "Serve telemetry on this address, e.g. :8080")
	fs.BoolVar(&o.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&o.Quiet, "q", false, "Only log warnings and errors")
	fs.Uint64Var(&o.MaxFrames, "frames", 0, "Exit after this many frames (0 runs until quit)")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	if o.Width < 0 || o.Height < 0 {
		return Options{}, fmt.Errorf("window size %dx%d: %w", o.Width, o.Height, core.ErrInvalidParameter)
	}
	return o, nil
}

// Logger creates the text logger for the chosen verbosity.
func Logger(w io.Writer, o Options) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case o.Verbose:
		level = slog.LevelDebug
	case o.Quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Main parses the process arguments, runs until quit and exits non-zero on
// failure.
func Main(name string, newBackend Factory) {
	opts, err := ParseFlags(name, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(Logger(os.Stderr, opts))

	if err := Run(opts, newBackend); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(1)
	}
}

// Run loads the settings, builds the scene and drives the frame loop.
func Run(opts Options, newBackend Factory) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Width > 0 {
		cfg.Window.Width = opts.Width
	}
	if opts.Height > 0 {
		cfg.Window.Height = opts.Height
	}
	if opts.Serve != "" {
		cfg.Server.Addr = opts.Serve
	}

	fmt.Println("=== Solar System ===")
	fmt.Printf("Bodies: %d (~%d vertices)\n", len(cfg.Bodies), cfg.ApproximateVertexCount())
	fmt.Printf("Window: %dx%d\n", cfg.Window.Width, cfg.Window.Height)

	sys, err := simulation.Build(cfg)
	if err != nil {
		return err
	}
	ctx := simulation.NewContext(cfg)

	backend, err := newBackend(cfg.Window, ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.LoadTextures(sys); err != nil {
		slog.Warn("textures unavailable, using flat colors", "err", err)
	}

	var (
		hub       *server.Hub
		publisher simulation.Publisher
	)
	if cfg.Server.Addr != "" {
		hub = server.NewHub(16)
		publisher = hub
		srv := &http.Server{Addr: cfg.Server.Addr, Handler: hub.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("telemetry server stopped", "addr", cfg.Server.Addr, "err", err)
			}
		}()
		defer srv.Close()
		fmt.Printf("Telemetry: ws://%s/ws\n", cfg.Server.Addr)
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads, err := config.Watch(watchCtx, opts.ConfigPath)
	if err != nil {
		slog.Warn("settings hot reload disabled", "err", err)
	}

	printControls()
	sim := simulation.New(sys, ctx, backend, publisher)

	frames := 0
	lastFPS := time.Now()
	for !sim.ShouldQuit() {
		sim.HandleInput(backend.PollInput())
		if hub != nil {
			hub.Drain(sim.ApplyCommand)
		}

		select {
		case r, ok := <-reloads:
			if !ok {
				reloads = nil
				break
			}
			ApplyReload(ctx, cfg, r)
		default:
		}

		if err := sim.Frame(); err != nil {
			return err
		}
		if opts.MaxFrames > 0 && sim.FrameCount() >= opts.MaxFrames {
			break
		}

		frames++
		if now := time.Now(); now.Sub(lastFPS) >= time.Second {
			slog.Debug("frame rate", "fps", float64(frames)/now.Sub(lastFPS).Seconds(), "speed", ctx.SpeedScale)
			frames = 0
			lastFPS = now
		}
	}

	fmt.Println("Shutting down...")
	return nil
}

// ApplyReload applies the runtime part of a reloaded settings file. Changes
// that need a new scene are only reported. It returns whether anything was
// applied.
func ApplyReload(ctx *core.Context, current config.Settings, r config.Reload) bool {
	if r.Err != nil {
		slog.Warn("settings reload failed, keeping current settings", "err", r.Err)
		return false
	}
	if !r.Settings.SameGeometry(current) {
		slog.Warn("bodies changed in settings, restart required to apply them")
	}
	simulation.ApplyRuntime(ctx, r.Settings)
	slog.Info("settings reloaded", "speed", ctx.SpeedScale)
	return true
}

func printControls() {
	fmt.Println("\nControls:")
	for _, line := range simulation.HelpLines() {
		fmt.Println("  " + line)
	}
	fmt.Println("  Click: select body")
}
