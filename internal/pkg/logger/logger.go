// internal/pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger from the logging configuration.
// When a log file is configured the output goes to stdout and to a rotating file.
func New(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	// Set log format based on config
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	// Set log level
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetOutput(output(cfg.File))

	return logger
}

func output(file string) io.Writer {
	if file == "" {
		return os.Stdout
	}

	if dir := filepath.Dir(file); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}

	rot := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	return io.MultiWriter(os.Stdout, rot)
}

// Discard returns a logger that drops everything; used by tests and tools.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
