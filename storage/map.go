package storage

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Map is an in-memory Backend. Its zero value is not usable, use NewMap.
type Map struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMap returns an empty in-memory backend.
func NewMap() *Map {
	return &Map{m: make(map[string]string)}
}

func (s *Map) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *Map) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *Map) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.m)), nil
}

func (s *Map) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
