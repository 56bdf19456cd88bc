package bubblestack

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// logger is shared by every component in the package. It stays at Warn until
// debug mode or ConfigureLogging lowers it.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Logger returns the package logger so programs can attach hooks or redirect
// output.
func Logger() *logrus.Logger {
	return logger
}

// SetLogger replaces the package logger. A nil logger restores the default.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = newLogger()
	}
	logger = l
}

// SetLogOutput redirects log output, typically to io.Discard in tests or to a
// file when a terminal host owns the screen.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// ConfigureLogging sets the level ("debug", "info", ...) and the formatter
// ("json" or "text").
func ConfigureLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	logger.SetLevel(lvl)
	if strings.ToLower(format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// ConfigureLoggingFromEnv reads LOG_LEVEL (default "info") and LOG_FORMAT
// (default "text"). An unparseable level falls back to info.
func ConfigureLoggingFromEnv() {
	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		level = "info"
	}
	if err := ConfigureLogging(level, os.Getenv("LOG_FORMAT")); err != nil {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// SetDebugMode toggles debug logging for lifecycle transitions, soft misses
// and settle detection.
func SetDebugMode(enabled bool) {
	if enabled {
		logger.SetLevel(logrus.DebugLevel)
		return
	}
	logger.SetLevel(logrus.WarnLevel)
}

func logFor(component string) *logrus.Entry {
	return logger.WithField("component", component)
}
