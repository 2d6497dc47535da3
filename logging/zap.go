// Package logging provides a zap-backed implementation of core.Logger.
package logging

import (
	"go.uber.org/zap"

	"github.com/pakoito/FiberTaskingLib/core"
)

var _ core.Logger = (*ZapLogger)(nil)

// ZapLogger adapts a *zap.Logger to the core.Logger interface.
type ZapLogger struct {
	log *zap.Logger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(log *zap.Logger) *ZapLogger {
	return &ZapLogger{log: log}
}

// NewDevelopment creates a ZapLogger over zap's development configuration,
// which logs at debug level. Useful for watching scheduler internals (pin
// failures, pool watchdog) during bring-up.
func NewDevelopment() (*ZapLogger, error) {
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(log), nil
}

// NewProduction creates a ZapLogger over zap's production configuration.
func NewProduction() (*ZapLogger, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(log), nil
}

func (l *ZapLogger) Debug(msg string, fields ...core.Field) {
	l.log.Debug(msg, zapFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields ...core.Field) {
	l.log.Info(msg, zapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields ...core.Field) {
	l.log.Warn(msg, zapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, fields ...core.Field) {
	l.log.Error(msg, zapFields(fields)...)
}

func zapFields(fields []core.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}
