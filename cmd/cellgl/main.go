// Command cellgl shows a file in a GPU-rendered cell grid, or in the
// terminal with -terminal, with a notification overlay fed by the event
// bus, the config watcher and Lua scripts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/dshills/cellgl/internal/app"
	"github.com/dshills/cellgl/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GLFW and OpenGL calls must come from the main OS thread.
func init() {
	runtime.LockOSThread()
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type cliOptions struct {
	app      app.Options
	terminal bool
}

func main() {
	os.Exit(run())
}

func run() int {
	cli := parseFlags()

	logger := app.NewLogger(app.DefaultLoggerConfig())
	cli.app.Logger = logger

	application, err := app.New(cli.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if closeLog := setupLogOutput(application, logger, cli.terminal); closeLog != nil {
		defer closeLog()
	}

	if cli.terminal {
		term, err := backend.NewTerminal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
			return 1
		}
		if err := application.SetBackend(term); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
			return 1
		}
	} else {
		gb, err := newGPUBackend(application.Config())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open window: %v\n", err)
			return 1
		}
		application.SetColorAtlas(gb.colors)
		if err := application.SetBackend(gb); err != nil {
			gb.Shutdown()
			fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
			return 1
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// setupLogOutput sends logs to logging.file when set. The terminal backend
// owns stderr, so without a file its logs are dropped.
func setupLogOutput(application *app.Application, logger *app.Logger, terminal bool) func() {
	path := application.Config().Logging().File
	if path == "" {
		if terminal {
			logger.SetOutput(io.Discard)
		}
		return nil
	}
	f, err := app.OpenLogFile(path)
	if err != nil {
		logger.Warn("log file %s: %v", path, err)
		return nil
	}
	logger.SetOutput(f)
	return func() { f.Close() }
}

func parseFlags() cliOptions {
	var cli cliOptions
	var scripts stringList
	var showVersion bool
	var showHelp bool

	flag.StringVar(&cli.app.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&cli.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&cli.terminal, "terminal", false, "Draw in the terminal instead of a GPU window")
	flag.BoolVar(&cli.terminal, "t", false, "Draw in the terminal (shorthand)")
	flag.StringVar(&cli.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides logging.level")
	flag.Var(&scripts, "script", "Lua script to run at startup (repeatable)")
	flag.Var(&scripts, "s", "Lua script to run at startup (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cellgl - GPU cell grid with notifications\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cellgl [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: q or Ctrl+C quits, Esc dismisses the newest notification,\n")
		fmt.Fprintf(os.Stderr, "Ctrl+X dismisses all, arrows and paging keys scroll.\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("cellgl %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch cli.app.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", cli.app.LogLevel)
		os.Exit(2)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: at most one file\n")
		os.Exit(2)
	}
	cli.app.File = flag.Arg(0)
	cli.app.Scripts = scripts
	return cli
}
