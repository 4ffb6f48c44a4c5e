// Package logging configures the structured logger used across
// repo-slice, grounded on rohankatakam-coderisk's use of sirupsen/logrus
// for leveled, field-structured output, replacing onedusk-pd's bare
// log.Printf calls.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logger at warn level, or debug level (surfacing parser and
// IOError skip-notice diagnostics) when debug is true.
func New(debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !debug, FullTimestamp: debug})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}
