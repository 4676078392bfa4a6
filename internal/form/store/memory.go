package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"formdetect/internal/form/models"
	"formdetect/internal/sentinel"
)

// ErrNotFound is returned when no template matches a query signature.
var ErrNotFound = sentinel.ErrNotFound

// InMemory is the template catalog: an ordered, append-only collection of
// registered templates. Reads may run concurrently; writes are serialized,
// and the duplicate-signature check and the append happen atomically under
// the write lock so two racing registrations cannot both land the same
// signature.
type InMemory struct {
	mu        sync.RWMutex
	templates []*models.Template
}

// NewInMemory creates an empty catalog.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Register appends a template, rejecting any whose signature is identical
// to an already registered one (exact key-set and type equality).
func (s *InMemory) Register(_ context.Context, t *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.templates {
		if existing.Signature.Equal(t.Signature) {
			return fmt.Errorf("template %q has the same signature as %q: %w",
				t.Name, existing.Name, sentinel.ErrAlreadyUsed)
		}
	}
	s.templates = append(s.templates, t)
	return nil
}

// FindBySignature scans templates in registration order and returns the
// first one whose declared fields are all present in query with the same
// type. Registration order decides the winner when several templates'
// declared subsets are satisfied: first registered wins.
func (s *InMemory) FindBySignature(_ context.Context, query models.Signature) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if t.Signature.Subsumes(query) {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

// All returns a snapshot of the catalog in registration order.
func (s *InMemory) All(_ context.Context) ([]*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]*models.Template, len(s.templates))
	copy(snapshot, s.templates)
	return snapshot, nil
}

// Delete removes a template by ID. Used to roll back a registration whose
// storage write-through failed.
func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.templates {
		if t.ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Count returns the number of registered templates.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates), nil
}
