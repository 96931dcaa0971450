package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tinydb/internal/dblog"
)

// ErrDatabaseLocked is returned when a database directory is already held
// by another process's advisory lock.
var ErrDatabaseLocked = errors.New("catalog: database is locked by another process")

// ErrNoCurrentDatabase is returned by operations that require USE to have
// selected a database first.
var ErrNoCurrentDatabase = errors.New("catalog: no database selected")

const catalogFileName = "catalog.bin"
const lockFileName = "catalog.lock"

// Manager owns the process-wide "current database" pointer and the
// lifecycle of per-database directories under a data root.
type Manager struct {
	dataRoot string
	log      *dblog.Logger

	currentName    string
	currentCatalog *Catalog
	lockHandle     *os.File
}

// NewManager returns a manager rooted at dataRoot. dataRoot is created if
// it does not yet exist.
func NewManager(dataRoot string, log *dblog.Logger) (*Manager, error) {
	if err := os.MkdirAll(dataRoot, 0o755); err != nil {
		return nil, fmt.Errorf("catalog: create data root %s: %w", dataRoot, err)
	}
	if log == nil {
		log = dblog.Default()
	}
	return &Manager{dataRoot: dataRoot, log: log}, nil
}

func (m *Manager) dbDir(name string) string {
	return filepath.Join(m.dataRoot, name)
}

// CreateDatabase creates a new database directory. Fails if it exists.
func (m *Manager) CreateDatabase(name string) error {
	dir := m.dbDir(name)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("catalog: database %q already exists", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Error("create database %q: %v", name, err)
		return fmt.Errorf("catalog: create database %q: %w", name, err)
	}
	m.log.Info("created database %q", name)
	return nil
}

// DropDatabase removes a database directory and all its contents. If the
// dropped database is current, the current-database pointer is cleared.
func (m *Manager) DropDatabase(name string) error {
	dir := m.dbDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("catalog: database %q does not exist", name)
	}
	if m.currentName == name {
		m.releaseCurrent()
	}
	if err := os.RemoveAll(dir); err != nil {
		m.log.Error("drop database %q: %v", name, err)
		return fmt.Errorf("catalog: drop database %q: %w", name, err)
	}
	m.log.Info("dropped database %q", name)
	return nil
}

// ListDatabases returns the names of every directory under the data root.
func (m *Manager) ListDatabases() ([]string, error) {
	entries, err := os.ReadDir(m.dataRoot)
	if err != nil {
		return nil, fmt.Errorf("catalog: list databases: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// UseDatabase sets the current database, loading its catalog and taking
// its advisory lock. Fails if the directory is missing.
func (m *Manager) UseDatabase(name string) error {
	dir := m.dbDir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("catalog: database %q does not exist", name)
	}

	lockPath := filepath.Join(dir, lockFileName)
	lf, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("catalog: open lock file for %q: %w", name, err)
	}
	if err := lockFile(lf); err != nil {
		lf.Close()
		return err
	}

	cat, err := Load(filepath.Join(dir, catalogFileName))
	if err != nil {
		unlockFile(lf)
		lf.Close()
		return err
	}

	m.releaseCurrent()
	m.currentName = name
	m.currentCatalog = cat
	m.lockHandle = lf
	m.log.Info("using database %q", name)
	return nil
}

func (m *Manager) releaseCurrent() {
	if m.lockHandle != nil {
		unlockFile(m.lockHandle)
		m.lockHandle.Close()
		m.lockHandle = nil
	}
	m.currentName = ""
	m.currentCatalog = nil
}

// CurrentDatabase returns the name of the database selected by USE, or ""
// if none has been selected.
func (m *Manager) CurrentDatabase() string {
	return m.currentName
}

// Current returns the live catalog for the current database.
func (m *Manager) Current() (*Catalog, error) {
	if m.currentCatalog == nil {
		return nil, ErrNoCurrentDatabase
	}
	return m.currentCatalog, nil
}

// CurrentDir returns the directory of the current database.
func (m *Manager) CurrentDir() (string, error) {
	if m.currentName == "" {
		return "", ErrNoCurrentDatabase
	}
	return m.dbDir(m.currentName), nil
}

// SaveCurrent persists the current database's catalog to disk.
func (m *Manager) SaveCurrent() error {
	dir, err := m.CurrentDir()
	if err != nil {
		return err
	}
	return m.currentCatalog.Save(filepath.Join(dir, catalogFileName))
}

// Close releases the current database's advisory lock, if any.
func (m *Manager) Close() {
	m.releaseCurrent()
}
