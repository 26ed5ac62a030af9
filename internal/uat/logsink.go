package uat

import (
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogSink is the build log. The file is created on the first write, so a run
// that fails before invoking the tool leaves no log behind. Once it grows past
// MaxSize megabytes it is rotated.
type LogSink struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	closed bool
}

// NewLogSink returns a sink for path. maxSizeMB <= 0 uses the rotation default.
func NewLogSink(path string, maxSizeMB int) *LogSink {
	return &LogSink{logger: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
	}}
}

// Filename returns the path of the active log file.
func (s *LogSink) Filename() string {
	return s.logger.Filename
}

// Write appends p to the log. Writes after Close reopen the file.
func (s *LogSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = false
	return s.logger.Write(p)
}

// Note appends a line of orchestrator commentary to the log.
func (s *LogSink) Note(msg string) error {
	_, err := s.Write([]byte(msg))
	return err
}

// Close closes the log file if it was opened. It is safe to call repeatedly.
func (s *LogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.logger.Close()
}
