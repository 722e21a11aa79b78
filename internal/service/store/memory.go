package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

// ErrNotFound cotação inexistente
var ErrNotFound = errors.New("cotação não encontrada")

// MemoryStore armazenamento em memória das cotações em rascunho
type MemoryStore struct {
	quotations map[string]*model.Quotation
	byToken    map[string]string
	mu         sync.RWMutex
}

// NewMemoryStore cria o armazenamento
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotations: make(map[string]*model.Quotation),
		byToken:    make(map[string]string),
	}
}

// Save grava (ou substitui) a cotação
func (s *MemoryStore) Save(q *model.Quotation) error {
	if q == nil || q.ID == "" {
		return errors.New("quotation id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.quotations[q.ID]; ok {
		delete(s.byToken, old.ShareToken)
	}
	s.quotations[q.ID] = q
	if q.ShareToken != "" {
		s.byToken[q.ShareToken] = q.ID
	}
	return nil
}

// Get cotação pelo id
func (s *MemoryStore) Get(id string) (*model.Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

// GetByShareToken cotação pelo token de compartilhamento
func (s *MemoryStore) GetByShareToken(token string) (*model.Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	return s.quotations[id], nil
}

// List todas as cotações, mais recentes primeiro
func (s *MemoryStore) List() []*model.Quotation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Quotation, 0, len(s.quotations))
	for _, q := range s.quotations {
		result = append(result, q)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Delete remove a cotação
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotations[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byToken, q.ShareToken)
	delete(s.quotations, id)
	return nil
}

// Count quantidade de cotações
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotations)
}
