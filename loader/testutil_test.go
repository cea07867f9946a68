package loader

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger returns a logrus.Entry writing to io.Discard, for unit
// tests that construct an execState/installState directly rather than
// going through Orchestrator.Load.
func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
