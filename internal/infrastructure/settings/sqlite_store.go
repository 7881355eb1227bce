package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/pkg/filesystem"
	"github.com/doeshing/codeshai/internal/ports"
)

// DefaultDBName is the settings database file under ~/.codeshai.
const DefaultDBName = "settings.db"

// SQLiteStore persists settings and favorites in a SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	mu       sync.Mutex
	fallback domain.Provider
}

// DefaultPath returns ~/.codeshai/settings.db.
func DefaultPath() string {
	return filepath.Join(filesystem.AppDir(), DefaultDBName)
}

// OpenSQLiteStore creates (or opens) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultPath()
	}
	path = filesystem.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, path: path, fallback: domain.ProviderDeepSeek}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init settings db: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS favorites (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			command TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) get(key string) string {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

func (s *SQLiteStore) set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		_, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
		return err
	}
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Credential returns the stored key, falling back to the provider's
// environment variable.
func (s *SQLiteStore) Credential(p domain.Provider) string {
	if value := s.get(credentialKey(p)); value != "" {
		return value
	}
	return credentialFromEnv(p)
}

func (s *SQLiteStore) SetCredential(p domain.Provider, value string) error {
	if !p.Valid() {
		return fmt.Errorf("unknown provider %q", p)
	}
	return s.set(credentialKey(p), strings.TrimSpace(value))
}

func (s *SQLiteStore) SelectedProvider() domain.Provider {
	if p, err := domain.ParseProvider(s.get(keySelectedProvider)); err == nil {
		return p
	}
	return s.fallback
}

// SetFallbackProvider changes the provider reported when none is selected.
func (s *SQLiteStore) SetFallbackProvider(p domain.Provider) {
	if p.Valid() {
		s.fallback = p
	}
}

func (s *SQLiteStore) SetSelectedProvider(p domain.Provider) error {
	if !p.Valid() {
		return fmt.Errorf("unknown provider %q", p)
	}
	return s.set(keySelectedProvider, string(p))
}

func (s *SQLiteStore) SelectedModel(p domain.Provider) string {
	if value := s.get(modelKey(p)); value != "" {
		return value
	}
	return defaultSelectedModel(p)
}

func (s *SQLiteStore) SetSelectedModel(p domain.Provider, model string) error {
	if !p.Valid() {
		return fmt.Errorf("unknown provider %q", p)
	}
	return s.set(modelKey(p), strings.TrimSpace(model))
}

// Favorites returns saved requests in insertion order.
func (s *SQLiteStore) Favorites() ([]string, error) {
	rows, err := s.db.Query(`SELECT command FROM favorites ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []string
	for rows.Next() {
		var command string
		if err := rows.Scan(&command); err != nil {
			return nil, err
		}
		favorites = append(favorites, command)
	}
	return favorites, rows.Err()
}

// AddFavorite saves command; saving an existing favorite is a no-op.
func (s *SQLiteStore) AddFavorite(command string) error {
	command, err := normalizeFavorite(command)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`INSERT OR IGNORE INTO favorites (command, created_at) VALUES (?, ?)`,
		command, time.Now().Format(domain.TimestampFormat))
	return err
}

func (s *SQLiteStore) RemoveFavorite(command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM favorites WHERE command = ?`, strings.TrimSpace(command))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

var (
	_ ports.CredentialStore = (*SQLiteStore)(nil)
	_ ports.FavoritesStore  = (*SQLiteStore)(nil)
)
