package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger(os.Stdout)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableQuote: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init sets the minimum level by name ("debug", "info", "warn", "error").
// An empty name keeps the default of info.
func Init(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// SetOutput redirects all log lines.
func SetOutput(out io.Writer) {
	logger.SetOutput(out)
}

func Debug(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

func Info(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

func Warn(format string, v ...interface{}) {
	logger.Warnf(format, v...)
}

func Error(format string, v ...interface{}) {
	logger.Errorf(format, v...)
}

// Sink hands debug output from the protocol core to the package logger.
type Sink struct{}

func (Sink) Debug(format string, v ...interface{}) { Debug(format, v...) }
