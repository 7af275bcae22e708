// Package logging builds the zap logger used by the command line.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // console, json
	OutputPath string // stderr, stdout or a file path
}

// New builds a logger from cfg. Unknown levels fall back to info.
func New(cfg Config) (*zap.Logger, error) {
	level := ParseLevel(cfg.Level)

	var config zap.Config
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.DisableStacktrace = true
	case "json":
		config = zap.NewProductionConfig()
		config.Sampling = nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	config.Level = zap.NewAtomicLevelAt(level)
	config.DisableCaller = true
	output := cfg.OutputPath
	if output == "" {
		output = "stderr"
	}
	config.OutputPaths = []string{output}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

// ParseLevel parses a level string. Unknown values map to info.
func ParseLevel(s string) zapcore.Level {
	var level zapcore.Level
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose", "v", "d":
		return zapcore.DebugLevel
	case "quiet", "q":
		return zapcore.ErrorLevel
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}
