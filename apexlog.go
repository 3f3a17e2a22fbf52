package nswrapslite

import (
	apexlog "github.com/apex/log"
)

// ApexLogger adapts an apex/log logger to the Logger interface so wraps
// logging lands in the application's existing handler chain.
type ApexLogger struct {
	base apexlog.Interface
}

// NewApexLogger wraps base; pass apexlog.Log for the package default.
func NewApexLogger(base apexlog.Interface) *ApexLogger {
	if base == nil {
		base = apexlog.Log
	}
	return &ApexLogger{base: base}
}

func (l *ApexLogger) Debug(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Debug(msg)
}

func (l *ApexLogger) Info(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Info(msg)
}

func (l *ApexLogger) Warn(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Warn(msg)
}

func (l *ApexLogger) Error(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Error(msg)
}

func (l *ApexLogger) entry(keysAndValues []any) apexlog.Interface {
	if len(keysAndValues) == 0 {
		return l.base
	}
	fields := apexlog.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = "?"
		}
		fields[key] = keysAndValues[i+1]
	}
	return l.base.WithFields(fields)
}
