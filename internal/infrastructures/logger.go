package infrastructures

import (
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

// The services log through the package-level logrus logger, so both it and
// the named instance get the JSON formatter.
func init() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
}

// GetLogger returns the registry logger instance
func GetLogger() *logrus.Logger {
	return logger
}
