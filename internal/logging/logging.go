// Package logging provides component-scoped loggers for voice2doc.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	base     *logrus.Logger
	baseOnce sync.Once
)

// NewLogger returns a logger entry tagged with the given component name.
// The log level is read from V2DOC_LOG_LEVEL (default: warn) so that normal
// CLI output stays clean unless the user asks for more.
func NewLogger(component string) *logrus.Entry {
	baseOnce.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		base.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})

		level := logrus.WarnLevel
		if raw := os.Getenv("V2DOC_LOG_LEVEL"); raw != "" {
			if parsed, err := logrus.ParseLevel(raw); err == nil {
				level = parsed
			}
		}
		base.SetLevel(level)
	})

	return base.WithField("component", component)
}
