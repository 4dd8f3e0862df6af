package logger

import (
	"github.com/sirupsen/logrus"
)

// New builds the process logger: JSON at info level in prod, colorized
// text at debug level everywhere else.
func New(env string) *logrus.Logger {
	l := logrus.New()

	if env == "prod" {
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetFormatter(&logrus.TextFormatter{})
		l.SetLevel(logrus.DebugLevel)
	}

	return l
}
