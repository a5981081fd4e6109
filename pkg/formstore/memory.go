package formstore

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps definitions in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	defs map[string]Definition
	now  func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{defs: make(map[string]Definition), now: time.Now}
}

func (s *MemoryStore) Save(ctx context.Context, def Definition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := def.Validate(); err != nil {
		return err
	}
	def.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	s.defs[def.Name] = cloneDefinition(def)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	s.mu.RLock()
	def, ok := s.defs[name]
	s.mu.RUnlock()
	if !ok {
		return Definition{}, ErrNotFound
	}
	return cloneDefinition(def), nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.defs[name]; !ok {
		return ErrNotFound
	}
	delete(s.defs, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	s.mu.RUnlock()
	slices.Sort(names)
	return names, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// cloneDefinition copies the field tree. Rule parameters are shared; they
// are never mutated after decoding.
func cloneDefinition(def Definition) Definition {
	def.Fields = cloneFields(def.Fields)
	return def
}

func cloneFields(fields []FieldDef) []FieldDef {
	if fields == nil {
		return nil
	}
	out := make([]FieldDef, len(fields))
	for i, f := range fields {
		out[i] = FieldDef{
			Name:     f.Name,
			Rules:    slices.Clone(f.Rules),
			Children: cloneFields(f.Children),
		}
	}
	return out
}
