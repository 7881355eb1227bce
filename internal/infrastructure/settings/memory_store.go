package settings

import (
	"fmt"
	"strings"
	"sync"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

// MemoryStore keeps settings for the lifetime of the process. It backs the
// CLI when the settings database cannot be opened.
type MemoryStore struct {
	mu        sync.RWMutex
	values    map[string]string
	favorites []string
	fallback  domain.Provider
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string), fallback: domain.ProviderDeepSeek}
}

// SetFallbackProvider changes the provider reported when none is selected.
func (m *MemoryStore) SetFallbackProvider(p domain.Provider) {
	if p.Valid() {
		m.mu.Lock()
		m.fallback = p
		m.mu.Unlock()
	}
}

func (m *MemoryStore) get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *MemoryStore) set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.values, key)
		return
	}
	m.values[key] = value
}

func (m *MemoryStore) Credential(p domain.Provider) string {
	if value := m.get(credentialKey(p)); value != "" {
		return value
	}
	return credentialFromEnv(p)
}

func (m *MemoryStore) SetCredential(p domain.Provider, value string) error {
	if !p.Valid() {
		return fmt.Errorf("unknown provider %q", p)
	}
	m.set(credentialKey(p), strings.TrimSpace(value))
	return nil
}

func (m *MemoryStore) SelectedProvider() domain.Provider {
	if p, err := domain.ParseProvider(m.get(keySelectedProvider)); err == nil {
		return p
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fallback
}

func (m *MemoryStore) SetSelectedProvider(p domain.Provider) error {
	if !p.Valid() {
		return fmt.Errorf("unknown provider %q", p)
	}
	m.set(keySelectedProvider, string(p))
	return nil
}

func (m *MemoryStore) SelectedModel(p domain.Provider) string {
	if value := m.get(modelKey(p)); value != "" {
		return value
	}
	return defaultSelectedModel(p)
}

func (m *MemoryStore) SetSelectedModel(p domain.Provider, model string) error {
	if !p.Valid() {
		return fmt.Errorf("unknown provider %q", p)
	}
	m.set(modelKey(p), strings.TrimSpace(model))
	return nil
}

func (m *MemoryStore) Favorites() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.favorites...), nil
}

func (m *MemoryStore) AddFavorite(command string) error {
	command, err := normalizeFavorite(command)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.favorites {
		if existing == command {
			return nil
		}
	}
	m.favorites = append(m.favorites, command)
	return nil
}

func (m *MemoryStore) RemoveFavorite(command string) error {
	command = strings.TrimSpace(command)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.favorites {
		if existing == command {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return nil
		}
	}
	return ErrFavoriteNotFound
}

var (
	_ ports.CredentialStore = (*MemoryStore)(nil)
	_ ports.FavoritesStore  = (*MemoryStore)(nil)
)
