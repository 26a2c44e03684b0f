package logutil

import (
	"go.uber.org/zap"
)

var logger *zap.Logger

// InitLogger builds the process-wide logger. Call once at startup.
func InitLogger() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the process-wide logger, initializing it on first use.
func GetLogger() *zap.Logger {
	if logger == nil {
		InitLogger()
	}
	return logger
}
