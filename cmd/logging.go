package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogging configures the standard logrus logger for the commands: text
// output to stderr, with debug messages only if verbose.
func InitLogging(verbose bool) {
	LogTo(os.Stderr, verbose)
}

// LogTo is like InitLogging, but writes to w. Full-screen programs log to a
// file or to io.Discard instead of the terminal.
func LogTo(w io.Writer, verbose bool) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
