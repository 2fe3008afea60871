// Package logging provides zap logger helpers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// L is the process-wide logger. It defaults to a no-op logger so packages can
// log before configuration is loaded; Execute replaces it once config is read.
var L = zap.NewNop()

// Options control logger construction.
type Options struct {
	Development bool
	// File enables rotated file output alongside stderr when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// New builds a zap.Logger configured for development or production, with
// optional lumberjack rotation.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if opts.File == "" {
		return logger, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    max(1, opts.MaxSizeMB),
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}
	encoder := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	fileCore := zapcore.NewCore(encoder, zapcore.AddSync(rotator), cfg.Level)

	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}

// Set replaces the process-wide logger.
func Set(logger *zap.Logger) {
	if logger != nil {
		L = logger
	}
}
