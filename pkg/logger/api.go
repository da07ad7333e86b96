package logger

import "go.uber.org/zap"

// defaultLogger discards everything until SetDefault is called, so packages
// can log from tests without building a logger first.
var defaultLogger = zap.NewNop()

func Default() *Logger {
	return defaultLogger
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultLogger = logger
}

func Debug(msg string, fields ...Field) {
	defaultLogger.Debug(msg, fields...)
}

// Info logs a message at InfoLevel. The message includes any fields passed
// at the log site, as well as any fields accumulated on the logger.
func Info(msg string, fields ...Field) {
	defaultLogger.Info(msg, fields...)
}

// Warn logs a message at WarnLevel. The message includes any fields passed
// at the log site, as well as any fields accumulated on the logger.
func Warn(msg string, fields ...Field) {
	defaultLogger.Warn(msg, fields...)
}

// Error logs a message at ErrorLevel. The message includes any fields passed
// at the log site, as well as any fields accumulated on the logger.
func Error(msg string, fields ...Field) {
	defaultLogger.Error(msg, fields...)
}

// With creates a child logger and adds structured context to it. Fields added
// to the child don't affect the parent, and vice versa.
func With(fields ...Field) *Logger {
	return defaultLogger.With(fields...)
}

func Close() {
	_ = defaultLogger.Sync()
}
