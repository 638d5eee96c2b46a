package theme

// Store exposes theme retrieval for HTTP handlers and the proxy service.
type Store interface {
	List() []Theme
	FindByID(id string) (Theme, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Theme
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied themes.
func NewMemoryStore(items []Theme) *MemoryStore {
	return &MemoryStore{items: append([]Theme(nil), items...)}
}

// List returns the configured theme list.
func (s *MemoryStore) List() []Theme {
	return append([]Theme(nil), s.items...)
}

// FindByID looks up a theme by identifier.
func (s *MemoryStore) FindByID(id string) (Theme, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Theme{}, false
}
