package localstore

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[namespace][key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) Set(_ context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]string)
		s.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.data[namespace]
	if !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(s.data, namespace)
	}
	return nil
}

func (s *MemoryStore) DeleteNamespace(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, namespace)
	return nil
}
