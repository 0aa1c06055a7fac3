// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
)

// Options selects the sinks and level of the logger.
type Options struct {
	Verbose bool      // debug level instead of warn
	Quiet   bool      // error level; ignored when Verbose is set
	LogFile string    // rotated JSON log; empty disables file logging
	Console io.Writer // human-readable sink; nil means os.Stderr
	NoColor bool
}

// New returns the run logger and a function that releases the log file.
// The release function is never nil.
func New(opts Options) (zerolog.Logger, func() error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.TimeOnly,
		NoColor:    opts.NoColor,
	}}

	release := func() error { return nil }
	if opts.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			LocalTime:  true,
		}
		writers = append(writers, file)
		release = file.Close
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(opts.level()).
		With().
		Timestamp().
		Logger()
	return logger, release
}

func (o Options) level() zerolog.Level {
	if o.Quiet && !o.Verbose {
		return zerolog.ErrorLevel
	}
	return Level(o.Verbose)
}

// Level maps the verbose switch onto a zerolog level.
func Level(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}
