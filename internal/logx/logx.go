// Package logx builds the hclog.Logger every other package receives by
// explicit constructor parameter, the way hashicorp/nomad threads a logger
// through its server and client components rather than reaching for a
// package-level global.
package logx

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Options configures the root logger. The zero value is a sensible
// default: info level, human-readable output to stderr.
type Options struct {
	Name   string
	Level  string
	JSON   bool
	Output io.Writer
}

// New builds the root logger. Callers derive a per-component logger from it
// with Logger.Named or Logger.With, never by calling New again — one root
// logger per process keeps level and output configuration in one place.
func New(opts Options) hclog.Logger {
	name := opts.Name
	if name == "" {
		name = "sipquery"
	}
	level := hclog.Info
	if opts.Level != "" {
		level = hclog.LevelFromString(opts.Level)
	}
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     output,
		JSONFormat: opts.JSON,
	})
}

// Discard returns a logger that drops everything, for tests that need a
// Logger argument but don't want test output cluttered.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
