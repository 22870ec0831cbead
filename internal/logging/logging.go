// Package logging provides the structured logger used across the service.
package logging

import (
	"go.uber.org/zap"
)

// Logger wraps zap.SugaredLogger so call sites depend on a narrow surface
// instead of the concrete zap types.
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a Logger appropriate for env. "development" gets a human
// readable console encoder; anything else gets JSON output suited to log
// aggregation.
func New(env string) *Logger {
	var zl *zap.Logger
	var err error
	if env == "development" {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		zl = zap.NewNop()
	}
	return &Logger{s: zl.Sugar()}
}

// Nop returns a Logger that discards everything, for use in tests.
func Nop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.s.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.s.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.s.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.s.Errorf(format, args...) }

// With returns a child logger with the given key/value pairs attached to
// every subsequent entry.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{s: l.s.With(kv...)}
}

// Sync flushes buffered log entries; call before process exit.
func (l *Logger) Sync() {
	_ = l.s.Sync()
}
