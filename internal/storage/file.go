package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/johan/fedwatch-notifier/internal/types"
)

// FileStorage appends observations to JSONL files with rotation. Files are
// only ever written; nothing reads them back on startup.
type FileStorage struct {
	outputDir        string
	rotationInterval time.Duration
	now              func() time.Time

	mu           sync.Mutex
	currentFile  *os.File
	currentPath  string
	lastRotation time.Time
	recordCount  int64
}

// NewFileStorage creates a new file storage.
func NewFileStorage(outputDir string, rotationInterval time.Duration) (*FileStorage, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	s := &FileStorage{
		outputDir:        outputDir,
		rotationInterval: rotationInterval,
		now:              time.Now,
	}

	if err := s.rotate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Write appends an observation to the current file.
func (s *FileStorage) Write(obs *types.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentFile == nil {
		return fmt.Errorf("storage closed")
	}

	if s.rotationInterval > 0 && s.now().Sub(s.lastRotation) > s.rotationInterval {
		if err := s.rotate(); err != nil {
			return err
		}
	}

	data, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("marshaling observation: %w", err)
	}
	data = append(data, '\n')

	if _, err := s.currentFile.Write(data); err != nil {
		return fmt.Errorf("writing observation: %w", err)
	}

	s.recordCount++
	return nil
}

// Close closes the current file.
func (s *FileStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentFile == nil {
		return nil
	}
	err := s.currentFile.Close()
	s.currentFile = nil
	return err
}

// rotate opens a new output file named after the current UTC time.
func (s *FileStorage) rotate() error {
	if s.currentFile != nil {
		s.currentFile.Close()
	}

	now := s.now()
	filename := fmt.Sprintf("observations_%s.jsonl", now.UTC().Format("2006-01-02_15-04-05"))
	path := filepath.Join(s.outputDir, filename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	s.currentFile = f
	s.currentPath = path
	s.lastRotation = now
	s.recordCount = 0

	return nil
}

// CurrentPath returns the path to the current output file.
func (s *FileStorage) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPath
}

// RecordCount returns the number of observations written to the current file.
func (s *FileStorage) RecordCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordCount
}
