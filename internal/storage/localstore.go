package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"mercadillo/pkg/errors"
)

// Keys persisted across runs. Plain JSON documents, no schema versioning.
const (
	KeyAuthTokens = "authTokens"
	KeyUser       = "user"
	KeyCart       = "cart"
)

// LocalStore is the durable key/value store backing the session and the
// denormalized cart snapshot. One JSON file per key under the state dir.
type LocalStore struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	return newLocalStore(afero.NewOsFs(), dir)
}

// NewMemStore backs the store with an in-memory filesystem, for tests.
func NewMemStore() *LocalStore {
	s, _ := newLocalStore(afero.NewMemMapFs(), "state")
	return s
}

func newLocalStore(fs afero.Fs, dir string) (*LocalStore, error) {
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Internal("failed to create state dir", err)
	}
	return &LocalStore{fs: fs, dir: dir}, nil
}

// Get decodes the stored document for key into out. ok is false when the
// key has never been set.
func (s *LocalStore) Get(key string, out interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Internal("failed to read local state", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errors.Internal("corrupt local state", err)
	}
	return true, nil
}

func (s *LocalStore) Set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Internal("failed to encode local state", err)
	}
	if err := afero.WriteFile(s.fs, s.path(key), data, 0o600); err != nil {
		return errors.Internal("failed to write local state", err)
	}
	return nil
}

func (s *LocalStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Internal("failed to remove local state", err)
	}
	return nil
}

func (s *LocalStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, _ := afero.Exists(s.fs, s.path(key))
	return ok
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
