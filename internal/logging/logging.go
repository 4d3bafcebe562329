// Package logging builds the console logger from configuration.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/planloop/planloop/internal/config"
)

// NewLogger creates a leveled console logger writing to w, configured
// per cfg. Unknown levels fall back to info.
func NewLogger(w io.Writer, cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter(cfg.LogFormat),
		ReportTimestamp: cfg.LogTimestamps,
		Prefix:          "planloop",
	})
}

func formatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
