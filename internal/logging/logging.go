// Package logging builds the process logger.
package logging

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr at level, formatted as "text" or
// "json".
func New(level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)

	switch format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Newf("unknown log format %q", format)
	}

	return logger, nil
}
