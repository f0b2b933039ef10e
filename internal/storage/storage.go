// Package storage provides backends for the observation journal.
package storage

import (
	"fmt"
	"time"

	"github.com/johan/fedwatch-notifier/internal/types"
)

// Storage defines the interface for recording tick observations.
type Storage interface {
	// Write appends an observation to storage.
	Write(obs *types.Observation) error

	// Close closes the storage backend.
	Close() error
}

// New creates the backend selected by typ ("file" or "none").
func New(typ, outputDir string, rotation time.Duration) (Storage, error) {
	switch typ {
	case "file":
		s, err := NewFileStorage(outputDir, rotation)
		if err != nil {
			return nil, fmt.Errorf("creating file storage: %w", err)
		}
		return s, nil
	case "none":
		return NewNullStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", typ)
	}
}

// NullStorage is a no-op storage that discards all data.
type NullStorage struct{}

// NewNullStorage creates a new null storage.
func NewNullStorage() *NullStorage {
	return &NullStorage{}
}

// Write does nothing.
func (s *NullStorage) Write(obs *types.Observation) error {
	return nil
}

// Close does nothing.
func (s *NullStorage) Close() error {
	return nil
}
