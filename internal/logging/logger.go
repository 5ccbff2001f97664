// ABOUTME: Global logrus configuration with optional rotating file output.
// ABOUTME: File logs are rotated and compressed by lumberjack.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params controls where and how the process logs.
type Params struct {
	Level    string
	File     string
	ToStderr bool
	JSON     bool
}

// Setup configures the standard logrus logger.
// With no file, logs go to stderr so they never mix with command output on stdout.
// ToStderr additionally copies file logs to stderr.
func Setup(params Params) error {
	if params.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logrus.SetLevel(GetLevel(params.Level))

	if params.File == "" {
		logrus.SetOutput(os.Stderr)
		return nil
	}

	if !strings.HasSuffix(params.File, ".log") {
		params.File += ".log"
	}
	if err := os.MkdirAll(filepath.Dir(params.File), 0750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   params.File,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		LocalTime:  false,
		Compress:   true,
	}

	if params.ToStderr {
		logrus.SetOutput(io.MultiWriter(os.Stderr, rotating))
	} else {
		logrus.SetOutput(rotating)
	}
	return nil
}

// GetLevel parses a level name, defaulting to info.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// Discard returns a logger that drops everything; used by tests and quiet callers.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
