// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Verbosity levels accepted in config and flags.
const (
	VerbosityNone  = "none"
	VerbosityInfo  = "info"
	VerbosityDebug = "debug"
)

// New creates a new default charm log.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter creates a charm log writing to w at the global level.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// ParseVerbosity maps none, info and debug to the level the default logger
// runs at. "none" still lets errors through.
func ParseVerbosity(verbosity string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(verbosity)) {
	case VerbosityNone:
		return log.ErrorLevel, nil
	case "", VerbosityInfo:
		return log.InfoLevel, nil
	case VerbosityDebug:
		return log.DebugLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown verbosity %q (want none, info or debug)", verbosity)
}

// SetVerbosity sets the default logger's level from a verbosity name.
// Debug also turns on timestamps.
func SetVerbosity(verbosity string) error {
	level, err := ParseVerbosity(verbosity)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetReportTimestamp(level == log.DebugLevel)
	return nil
}
