// Package log builds the logger of the linguist commands.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger writing to stderr. Outside debug mode only
// warnings and errors are shown.
func NewLogger(debug bool, version string) *logrus.Entry {
	var log *logrus.Logger
	if debug || os.Getenv("DEBUG") == "TRUE" {
		log = newDevelopmentLogger()
	} else {
		log = newProductionLogger()
	}

	return log.WithFields(logrus.Fields{
		"debug":   debug,
		"version": version,
	})
}

func getLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func newDevelopmentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(getLogLevel())
	log.SetOutput(os.Stderr)
	log.Formatter = &logrus.JSONFormatter{}
	return log
}

func newProductionLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	return log
}
