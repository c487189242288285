package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func InitLogger() {
	InitLoggerWithLevel("info")
}

// InitLoggerWithLevel builds both loggers. Unknown levels fall back to info.
func InitLoggerWithLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	// Set output untuk InfoLogger ke stdout
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Set output untuk ErrorLogger ke stderr
	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	InfoLogger.SetLevel(lvl)
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}

// Info returns an entry on InfoLogger, initialising the loggers on first use.
func Info(fields logrus.Fields) *logrus.Entry {
	if InfoLogger == nil {
		InitLogger()
	}
	return InfoLogger.WithFields(fields)
}

// Error returns an entry on ErrorLogger, initialising the loggers on first use.
func Error(fields logrus.Fields) *logrus.Entry {
	if ErrorLogger == nil {
		InitLogger()
	}
	return ErrorLogger.WithFields(fields)
}
