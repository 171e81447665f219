package session

import (
	"fmt"
	"sync"

	"raincloud/domain/core"
	"raincloud/domain/table"
	"raincloud/internal"
	"raincloud/internal/errors"
)

// Store holds the one active dataset for the running session. Uploading a new
// table replaces the previous one; nothing survives a process restart.
type Store struct {
	mu      sync.RWMutex
	current *table.Dataset
	log     *internal.Logger
}

func NewStore() *Store {
	return &Store{log: internal.DefaultLogger.Named("Session")}
}

// Put installs ds as the active dataset, discarding any previous upload.
func (s *Store) Put(ds table.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.log.Debug("replacing dataset %s with %s", s.current.ID, ds.ID)
	}
	copied := ds
	s.current = &copied
	s.log.Info("dataset stored: %s (%d columns, %d rows, %d bytes)",
		ds.Name, ds.Table.ColumnCount(), ds.Table.RowCount(), ds.SizeBytes)
}

// Current returns the active dataset, if any.
func (s *Store) Current() (table.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return table.Dataset{}, false
	}
	return *s.current, true
}

// Get returns the active dataset only when id matches it. Stale IDs from an
// earlier upload resolve to not-found, never to the wrong table.
func (s *Store) Get(id core.DatasetID) (table.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.current.ID != id {
		return table.Dataset{}, errors.NotFound(fmt.Sprintf("dataset %s", id))
	}
	return *s.current, nil
}

// Clear drops the active dataset.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.log.Debug("dataset cleared: %s", s.current.ID)
	}
	s.current = nil
}
