// Package logging configures logrus and provides the gin request logger.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lingua/internal/config"
)

// NewLogger builds a logrus logger from the log config. Format "text"
// selects the human readable formatter, anything else logs JSON.
func NewLogger(cfg config.Log, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	if out != nil {
		logger.SetOutput(out)
	}
	if err := apply(logger, cfg); err != nil {
		return nil, err
	}
	return logger, nil
}

// Configure applies cfg to the logrus standard logger used across the app.
func Configure(cfg config.Log) error {
	return apply(logrus.StandardLogger(), cfg)
}

func apply(logger *logrus.Logger, cfg config.Log) error {
	levelName := cfg.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}
