package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-memory Store with the same merge/replace semantics as
// the database-backed one. Used in tests and local development.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[uint]map[string]map[string]json.RawMessage // userID -> kind -> key
	subs []ChangeFunc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[uint]map[string]map[string]json.RawMessage)}
}

func (s *MemoryStore) Get(_ context.Context, userID uint, kind, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.docs[userID][kind][key]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (s *MemoryStore) List(_ context.Context, userID uint, kind string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(s.docs[userID][kind]))
	for k, v := range s.docs[userID][kind] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) MergeWrite(_ context.Context, userID uint, kind, key string, partial any) error {
	payload, err := json.Marshal(partial)
	if err != nil {
		return err
	}
	s.mu.Lock()
	base := s.docs[userID][kind][key]
	merged, err := mergeJSON(base, payload)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.put(userID, kind, key, merged)
	s.mu.Unlock()
	s.notify(userID, kind, key)
	return nil
}

func (s *MemoryStore) ReplaceWrite(_ context.Context, userID uint, kind, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.put(userID, kind, key, payload)
	s.mu.Unlock()
	s.notify(userID, kind, key)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uint, kind, key string) error {
	s.mu.Lock()
	if kinds, ok := s.docs[userID]; ok {
		delete(kinds[kind], key)
	}
	s.mu.Unlock()
	s.notify(userID, kind, key)
	return nil
}

func (s *MemoryStore) Users(_ context.Context, kind string) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []uint
	for id, kinds := range s.docs {
		if len(kinds[kind]) > 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *MemoryStore) Subscribe(fn ChangeFunc) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// put assumes s.mu is held.
func (s *MemoryStore) put(userID uint, kind, key string, raw json.RawMessage) {
	if s.docs[userID] == nil {
		s.docs[userID] = make(map[string]map[string]json.RawMessage)
	}
	if s.docs[userID][kind] == nil {
		s.docs[userID][kind] = make(map[string]json.RawMessage)
	}
	s.docs[userID][kind][key] = raw
}

func (s *MemoryStore) notify(userID uint, kind, key string) {
	s.mu.RLock()
	subs := s.subs
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(userID, kind, key)
	}
}
