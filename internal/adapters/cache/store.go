// Package cache implements the content-addressed artifact cache gateway.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fablane/fablane/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	indexFile  = "index.json"
	objectsDir = "objects"
)

// Store implements ports.ArtifactStore on the local filesystem. Blobs live
// under <root>/objects addressed by their xxhash64 digest; a JSON index
// maps cache keys to digests.
type Store struct {
	root  string
	mu    sync.RWMutex
	index map[string]domain.ArtifactInfo
}

// NewStore creates an artifact store rooted at the given directory.
func NewStore(root string) (*Store, error) {
	s := &Store{
		root:  filepath.Clean(root),
		index: make(map[string]domain.ArtifactInfo),
	}
	if err := os.MkdirAll(filepath.Join(s.root, objectsDir), 0o750); err != nil {
		return nil, zerr.Wrap(err, "failed to create artifact store directory")
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(filepath.Join(s.root, indexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read artifact index")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.index); err != nil {
		return zerr.Wrap(err, "failed to unmarshal artifact index")
	}

	return nil
}

// save writes the index. Callers must hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal artifact index")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(filepath.Join(s.root, indexFile), data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write artifact index")
	}

	return nil
}

// Push stores the blob under key. Pushing a key that already has an entry
// is a no-op (first writer wins; identical content is assumed for a given
// key). Concurrent pushes of the same key serialize on the store mutex.
func (s *Store) Push(key string, r io.Reader) error {
	s.mu.RLock()
	_, exists := s.index[key]
	s.mu.RUnlock()
	if exists {
		// Drain so callers can treat Push uniformly as consuming the reader.
		_, _ = io.Copy(io.Discard, r)
		return nil
	}

	digest, size, tmpPath, err := s.spool(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock: a concurrent push may have won.
	if _, exists := s.index[key]; exists {
		_ = os.Remove(tmpPath)
		return nil
	}

	blobPath := s.blobPath(digest)
	if _, err := os.Stat(blobPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.Rename(tmpPath, blobPath); err != nil {
			_ = os.Remove(tmpPath)
			return zerr.With(zerr.Wrap(err, "failed to place blob"), "key", key)
		}
	} else {
		// Identical content already stored under another key.
		_ = os.Remove(tmpPath)
	}

	s.index[key] = domain.ArtifactInfo{
		Key:       key,
		Digest:    digest,
		Size:      size,
		Timestamp: time.Now(),
	}
	return s.save()
}

// spool writes the incoming blob to a temp file while digesting it.
func (s *Store) spool(r io.Reader) (digest string, size int64, tmpPath string, err error) {
	tmp, err := os.CreateTemp(filepath.Join(s.root, objectsDir), "push-*")
	if err != nil {
		return "", 0, "", zerr.Wrap(err, "failed to create temp blob")
	}

	hasher := xxhash.New()
	size, err = io.Copy(io.MultiWriter(tmp, hasher), r)
	closeErr := tmp.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, "", zerr.Wrap(errors.Join(err, closeErr), "failed to spool blob")
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), size, tmp.Name(), nil
}

// Pull opens the blob stored under key. An unknown key or a missing blob
// file yields domain.ErrCacheMiss; callers rebuild from scratch.
func (s *Store) Pull(key string) (io.ReadCloser, error) {
	s.mu.RLock()
	info, ok := s.index[key]
	s.mu.RUnlock()
	if !ok {
		return nil, zerr.With(domain.ErrCacheMiss, "key", key)
	}

	f, err := os.Open(s.blobPath(info.Digest)) //nolint:gosec // digest is hex, path stays under root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrCacheMiss, "key", key)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to open blob"), "key", key)
	}
	return f, nil
}

// Stat returns the index entry for key without opening the blob.
func (s *Store) Stat(key string) (*domain.ArtifactInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.index[key]
	if !ok {
		return nil, zerr.With(domain.ErrCacheMiss, "key", key)
	}
	return &info, nil
}

func (s *Store) blobPath(digest string) string {
	return filepath.Join(s.root, objectsDir, digest)
}
