package host

import "go.uber.org/zap"

// Logger is the host's logging facility. All bridge diagnostics route
// through it; the subsystem persists nothing of its own.
type Logger interface {
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger adapts a zap logger to the host log facility.
func NewZapLogger(l *zap.Logger) Logger {
	return &zapLogger{s: l.Sugar()}
}

func (z *zapLogger) Info(format string, args ...any)    { z.s.Infof(format, args...) }
func (z *zapLogger) Warning(format string, args ...any) { z.s.Warnf(format, args...) }
func (z *zapLogger) Error(format string, args ...any)   { z.s.Errorf(format, args...) }

type nopLogger struct{}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

func (nopLogger) Info(string, ...any)    {}
func (nopLogger) Warning(string, ...any) {}
func (nopLogger) Error(string, ...any)   {}
