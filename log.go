package mmapalloc

import (
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var logger atomic.Pointer[logrus.Logger]

func init() {
	l := logrus.New()
	l.Out = os.Stderr
	l.Level, _ = logrus.ParseLevel(defaultLogLevel)
	logger.Store(l)
}

// Logger returns the package logger.
func Logger() *logrus.Logger {
	return logger.Load()
}

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

// Configure applies the logging part of cfg to the package logger.
func Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.LogLevel == "" {
		return nil
	}
	lvl, _ := logrus.ParseLevel(cfg.LogLevel)
	Logger().SetLevel(lvl)
	return nil
}

func debugEnabled() bool {
	return Logger().IsLevelEnabled(logrus.DebugLevel)
}

func logEntry() *logrus.Entry {
	return Logger().WithField("prefix", "mmapalloc")
}
