// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// Init configures Log for the named application. LOG_LEVEL selects the
// level (default info).
func Init(appName string) {
	Log.SetOutput(os.Stdout)
	Log.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	Log.AddHook(&appNameHook{appName: appName})
}

// ParseLevel maps a LOG_LEVEL value to a logrus level, falling back to info.
func ParseLevel(s string) logrus.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		Log.Warnf("invalid LOG_LEVEL %q, defaulting to info", s)
		return logrus.InfoLevel
	}
	return level
}

// NewFileLogger returns a separate logger writing plain lines to w. The
// event consumer uses it for the booking log file.
func NewFileLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return l
}
