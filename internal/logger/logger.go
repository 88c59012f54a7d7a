// Package logger provides the structured logger shared by the feed clients
// and the chart synchronization layer.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger embeds a zap logger configured for this application.
type Logger struct {
	*zap.Logger
}

// NewLogger builds a production JSON logger at info level, writing log
// entries to stdout and internal zap errors to stderr.
func NewLogger() (*Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// Sync flushes buffered entries. Safe on a zero-value Logger.
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
