// Package logging wraps logrus with the opt-in, no-op-by-default entry
// point the simulation core requires: spec.md §5 says the core performs
// no unconditional I/O, so nothing here logs unless a caller asks it to.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a text-formatted logrus logger writing to stdout at the
// given level, for callers (such as the CLI's run --verbose) that want
// visibility into a run.
func New(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

// Discard returns a logger that drops every entry, the default a
// protocol.Run receives when the caller supplies no logger at all.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
