// Package log configures the logrus logger. The terminal belongs to the
// UI, so output goes to a file or nowhere.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const fileMode = 0o666

// SetOutputFile sets the logger output with a given file
func SetOutputFile(filePath string, logger *logrus.Logger) (io.Closer, error) {
	logFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(logFile)

	return logFile, nil
}

// Level maps a -v count onto a logrus level: info, then debug, then trace.
func Level(verbose int) logrus.Level {
	return min(logrus.InfoLevel+logrus.Level(max(0, verbose)), logrus.TraceLevel)
}

// Setup points logger at filePath, or discards output when filePath is
// empty, and applies the verbosity. The returned closer releases the file.
func Setup(logger *logrus.Logger, filePath string, verbose int) (io.Closer, error) {
	logger.SetLevel(Level(verbose))
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	if filePath == "" {
		logger.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}
	return SetOutputFile(filePath, logger)
}
