package formstore

import "context"

// Store keeps form definitions by name. Implementations are safe for
// concurrent use.
type Store interface {
	// Save validates and stores def, replacing any definition with the same name.
	Save(ctx context.Context, def Definition) error
	// Get returns the definition or ErrNotFound.
	Get(ctx context.Context, name string) (Definition, error)
	// Delete removes the definition or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
