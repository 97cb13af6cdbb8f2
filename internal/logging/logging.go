// Package logging configures the process-wide logrus logger.
package logging

import (
	"github.com/sirupsen/logrus"

	"tarifario/internal/config"
)

// New creates a configured logrus logger from the log config. An invalid
// level falls back to info with a warning rather than failing startup.
func New(cfg *config.LogConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.Warnf("invalid log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger
}
