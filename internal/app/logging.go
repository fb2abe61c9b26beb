// Package app wires the history engine, the document model and the
// ambient services (logging, metrics, events, configuration) into a
// session.
package app

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/rewind/internal/config"
)

// NewLogger builds a logger from the logging configuration. Output goes to
// w, or stderr when w is nil. The returned level can be changed at runtime.
func NewLogger(cfg config.LoggingConfig, w io.Writer) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if w == nil {
		w = os.Stderr
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core), level, nil
}

// newEncoder creates JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// SetLevel changes level from a configuration string. Invalid strings are
// ignored and reported.
func SetLevel(level zap.AtomicLevel, s string) error {
	l, err := zapcore.ParseLevel(s)
	if err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}
