// Package logger initializes the process-wide logrus logger used by every
// command the entrypoint runs.
package logger

import "github.com/sirupsen/logrus"

const (
	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelWarning = "warn"
	LevelError   = "error"
)

// Init sets the logrus level and a timestamped text formatter. level is one
// of the Level* constants; an unrecognized value falls back to info rather
// than failing startup over a logging preference.
func Init(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}
