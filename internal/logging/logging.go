// Package logging builds the zap loggers shared by the window and the CLI.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level string
	// Extra receives a plain-text copy of every entry when set.
	Extra io.Writer
	// Output defaults to stderr.
	Output io.Writer
}

// New creates a console logger. Unknown levels fall back to info.
func New(cfg Config) *zap.Logger {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(out), level),
	}
	if cfg.Extra != nil {
		plain := encCfg
		plain.EncodeLevel = zapcore.CapitalLevelEncoder
		plain.EncodeCaller = nil
		plain.CallerKey = ""
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(plain), zapcore.AddSync(cfg.Extra), level))
	}
	return zap.New(zapcore.NewTee(cores...))
}
