package logger

import (
	"fmt"

	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Sync() error
}

func New(cfg config.Logger) (Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level error: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if len(cfg.Output) != 0 {
		zcfg.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zcfg.ErrorOutputPaths = cfg.ErrOutput
	}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger error: %w", err)
	}

	return l.Sugar(), nil
}

// Nop discards everything.
func Nop() Logger {
	return zap.NewNop().Sugar()
}
