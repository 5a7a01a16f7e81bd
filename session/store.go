package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"property-finder/models"
	"property-finder/utils"
)

// DefaultID is the session holding the optional static CSV loaded at
// startup, so the API is usable before any upload happens.
const DefaultID = "default"

// Store holds each user session's normalized dataset. Sessions are fully
// independent: uploading into one never affects another, and there is no
// cross-session sharing of listings. The lock only guards the session map
// itself — datasets are immutable once stored.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Dataset
	limit    int
	logger   *utils.Logger
}

// NewStore creates a Store capped at limit concurrent sessions.
func NewStore(limit int, logger *utils.Logger) *Store {
	return &Store{
		sessions: make(map[string]*models.Dataset),
		limit:    limit,
		logger:   logger,
	}
}

// Open registers a dataset under a fresh session ID.
func (s *Store) Open(ds *models.Dataset) (string, error) {
	id := uuid.NewString()
	if err := s.Put(id, ds); err != nil {
		return "", err
	}
	return id, nil
}

// Put stores a dataset under the given ID, replacing any previous dataset
// wholesale. A reload therefore invalidates every listing and stat derived
// from the earlier upload.
func (s *Store) Put(id string, ds *models.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists && s.limit > 0 && len(s.sessions) >= s.limit {
		return fmt.Errorf("session limit of %d reached", s.limit)
	}

	s.sessions[id] = ds
	s.logger.Debug("[session] Stored dataset %s (%d listings)", id, len(ds.Listings))
	return nil
}

// Get returns the dataset for a session, if one has been loaded.
func (s *Store) Get(id string) (*models.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.sessions[id]
	return ds, ok
}

// Delete drops a session and its dataset.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
