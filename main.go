// Package main provides the linksweep CLI entrypoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/lukemcguire/linksweep/audit"
	"github.com/lukemcguire/linksweep/checker"
	"github.com/lukemcguire/linksweep/config"
	"github.com/lukemcguire/linksweep/logging"
	"github.com/lukemcguire/linksweep/result"
	"github.com/lukemcguire/linksweep/tui"
)

// Exit codes.
const (
	exitOK     = 0 // every URL passed, or the failure rate stayed within the threshold
	exitIssues = 1 // the verdict failed or the run was interrupted
	exitError  = 2 // usage, configuration or discovery error
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := NewMain().Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Main represents the program.
type Main struct {
	// Getwd locates the directory config discovery starts from.
	Getwd func() (string, error)

	// IsTerminal decides whether the interactive progress view is shown.
	IsTerminal func(w io.Writer) bool
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getwd:      os.Getwd,
		IsTerminal: isTerminal,
	}
}

// Run executes the CLI with the given arguments and returns the exit code.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli := &CLI{}
	exitCode := -1
	parser, err := kong.New(cli,
		kong.Name("linksweep"),
		kong.Description("Find URLs in files and check that they resolve."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create parser: %v\n", err)
		return exitError
	}

	_, err = parser.Parse(args)
	if exitCode >= 0 {
		// --help was handled by kong.
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	cfg, notes, err := m.loadConfig(cli)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	logger, release := logging.New(logging.Options{
		Verbose: cfg.Verbose,
		Quiet:   cli.Quiet,
		LogFile: cfg.LogFile,
		Console: stderr,
		NoColor: !m.IsTerminal(stderr),
	})
	defer func() { _ = release() }()
	notes.log(logger)

	interactive := !cli.Quiet && !cli.NoProgress &&
		cfg.OutputFormat == result.FormatText && m.IsTerminal(stdout)

	var progressCh chan checker.Event
	if interactive {
		progressCh = make(chan checker.Event, 100)
	}

	auditor, err := audit.New(cfg, logger, progressCh)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	run := func(ctx context.Context) (*result.Report, error) {
		return auditor.Run(ctx, cli.Files, cli.Recursive)
	}

	if interactive {
		return runInteractive(ctx, run, progressCh, stdout, stderr)
	}

	report, err := run(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if err := result.Write(stdout, cfg.OutputFormat, report); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return verdictCode(report)
}

func runInteractive(ctx context.Context, run tui.RunFunc, progressCh <-chan checker.Event, stdout, stderr io.Writer) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(tui.NewModel(ctx, cancel, run, progressCh), tea.WithOutput(stdout), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	model, ok := finalModel.(tui.Model)
	if !ok || model.Interrupted() {
		return exitIssues
	}
	if model.Err() != nil {
		// The view already rendered the error.
		return exitError
	}
	return verdictCode(model.Report())
}

func verdictCode(report *result.Report) int {
	if report == nil || report.Verdict.Failed {
		return exitIssues
	}
	return exitOK
}

// configNotes collects what happened while loading config so it can be
// logged once the logger exists.
type configNotes struct {
	path    string
	unknown []string
}

func (n configNotes) log(logger zerolog.Logger) {
	if n.path == "" {
		logger.Debug().Msg("no config file, using defaults and flags")
		return
	}
	logger.Debug().Str("path", n.path).Msg("loaded config file")
	for _, key := range n.unknown {
		logger.Debug().Str("path", n.path).Str("key", key).Msg("ignoring unknown config key")
	}
}

// loadConfig layers defaults, the config file and CLI flags, in that order.
func (m *Main) loadConfig(cli *CLI) (config.Config, configNotes, error) {
	var notes configNotes
	var fileSettings config.Settings

	if !cli.NoConfig {
		path := cli.Config
		if path == "" {
			dir, err := m.Getwd()
			if err == nil {
				path = config.Find(dir)
			}
		}
		if path != "" {
			settings, unknown, err := config.LoadFile(path)
			if err != nil {
				return config.Config{}, notes, err
			}
			fileSettings = settings
			notes = configNotes{path: path, unknown: unknown}
		}
	}

	cfg, err := config.Merge(fileSettings, cli.Settings()).Resolve()
	if err != nil {
		return config.Config{}, notes, err
	}
	return cfg, notes, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
