package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/ports"
)

// Source implements ports.DocumentSource using an in-memory map.
type Source struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewSource creates a Source holding the provided markup documents.
func NewSource(docs map[string]string) *Source {
	s := &Source{docs: make(map[string][]byte, len(docs))}
	for k, v := range docs {
		s.docs[k] = []byte(v)
	}
	return s
}

// Put stores (or replaces) a document.
func (s *Source) Put(key string, markup []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), markup...)
}

// Fetch returns a copy of the document stored under key.
func (s *Source) Fetch(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrDocumentNotFound, key)
	}
	return append([]byte(nil), content...), nil
}

// List returns all document keys.
func (s *Source) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
