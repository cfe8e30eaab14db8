// Package logging builds the CLI's zap logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const DefaultLevel = "warn"

type Options struct {
	// Level is a zap level name; empty means DefaultLevel.
	Level string
	// Verbose forces debug output regardless of Level.
	Verbose bool
	// Output defaults to stderr so stdout stays clean for --format json/yaml.
	Output io.Writer
}

func New(opts Options) (*zap.Logger, error) {
	levelName := strings.TrimSpace(opts.Level)
	if levelName == "" {
		levelName = DefaultLevel
	}

	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(out),
		zap.NewAtomicLevelAt(level),
	)

	return zap.New(core), nil
}
