// Package logging sets up the diagnostic log. The terminal belongs to the
// UI, so everything goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to path at the given level. An empty path
// discards output. The returned closer releases the file.
func New(path, level string) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	lvl := logrus.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}
	logger.SetLevel(lvl)

	if strings.TrimSpace(path) == "" {
		logger.SetOutput(io.Discard)
		return logger, io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)
	return logger, file, nil
}
