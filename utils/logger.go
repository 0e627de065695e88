package utils

import (
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})
}

// SetLogLevel adjusts global verbosity, called once at startup.
func SetLogLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
}

// NewLogger returns a component-scoped entry for structured logging.
func NewLogger(component string) *logrus.Entry {
	return log.WithField("component", component)
}

// LogEvent logs an event with structured data.
func LogEvent(eventType string, data map[string]interface{}) {
	log.WithFields(logrus.Fields(data)).Info(eventType)
}

// LogError logs an error with structured data and forwards it to Sentry
// when a DSN is configured.
func LogError(eventType string, err error, data map[string]interface{}) {
	log.WithFields(logrus.Fields(data)).WithError(err).Error(eventType)

	if sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("event", eventType)
		for k, v := range data {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}
