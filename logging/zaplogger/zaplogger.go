// Package zaplogger adapts go.uber.org/zap to the pool Logger interface.
package zaplogger

import (
	"github.com/Swind/go-thread-pool/core"
	"go.uber.org/zap"
)

// ZapLogger wraps a *zap.Logger as a core.Logger.
type ZapLogger struct {
	logger *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

// New wraps an existing zap logger. A nil logger falls back to zap.NewNop().
func New(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger}
}

// NewDevelopment creates a ZapLogger backed by zap's development config.
func NewDevelopment() (*ZapLogger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{logger: logger}, nil
}

// NewProduction creates a ZapLogger backed by zap's production config.
func NewProduction() (*ZapLogger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{logger: logger}, nil
}

// Debug logs a debug message.
func (l *ZapLogger) Debug(msg string, fields ...core.Field) {
	l.logger.Debug(msg, zapFields(fields)...)
}

// Info logs an info message.
func (l *ZapLogger) Info(msg string, fields ...core.Field) {
	l.logger.Info(msg, zapFields(fields)...)
}

// Warn logs a warning message.
func (l *ZapLogger) Warn(msg string, fields ...core.Field) {
	l.logger.Warn(msg, zapFields(fields)...)
}

// Error logs an error message.
func (l *ZapLogger) Error(msg string, fields ...core.Field) {
	l.logger.Error(msg, zapFields(fields)...)
}

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func zapFields(fields []core.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zf := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zf = append(zf, zap.Any(f.Key, f.Value))
	}
	return zf
}
