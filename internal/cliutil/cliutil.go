// Package cliutil holds the flag plumbing shared by the command-line tools.
package cliutil

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-lemma/catalog"
)

// NewLogger returns a slog logger writing human-readable records to w at the
// named level (debug, info, warn, error).
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return slog.New(handler), nil
}

// LoggerFromFlags builds the logger from the --log-level flag of cmd.
func LoggerFromFlags(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	return NewLogger(cmd.ErrOrStderr(), level)
}

// AddLogFlags registers --log-level on cmd and its subcommands.
func AddLogFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
}

// LoadCatalog loads the catalog at path, or the embedded default when path is
// empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}
