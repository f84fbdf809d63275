// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging provides the application's logging service: one leveled,
// timestamped plain-text log file per logical module, under a fixed logs
// directory. The service is constructed once at startup, handed explicitly
// to every component that logs, and closed at process exit. Files are
// appended to across runs and never size-rotated.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// timestampFormat matches the log lines the original tool wrote.
const timestampFormat = "2006-01-02 15:04:05"

// Service hands out per-module loggers backed by files in its directory.
type Service struct {
	dir string

	mu      sync.Mutex
	files   map[string]*os.File
	entries map[string]*logrus.Entry
}

// New creates the logs directory if needed and returns a ready Service.
func New(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs directory %s: %w", dir, err)
	}
	return &Service{
		dir:     dir,
		files:   map[string]*os.File{},
		entries: map[string]*logrus.Entry{},
	}, nil
}

// Dir returns the directory the service writes into.
func (s *Service) Dir() string { return s.dir }

// Module returns the logger for the named module, creating
// <dir>/<module>.log on first use. Repeated calls with the same name return
// the same logger. If the file cannot be opened the logger falls back to
// stderr rather than failing the caller.
func (s *Service) Module(name string) *logrus.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[name]; ok {
		return entry
	}

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	})

	path := filepath.Join(s.dir, strings.ToLower(name)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.SetOutput(os.Stderr)
		logger.Warnf("could not open %s, logging to stderr: %v", path, err)
	} else {
		logger.SetOutput(f)
		s.files[name] = f
	}

	entry := logger.WithField("module", name)
	s.entries[name] = entry
	return entry
}

// Close closes every open log file. The service must not be used afterwards.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.files, name)
	}
	s.entries = map[string]*logrus.Entry{}
	return firstErr
}

// Discard returns a logger that drops everything. Components take a
// *logrus.Entry; callers that do not care about logs pass this.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
