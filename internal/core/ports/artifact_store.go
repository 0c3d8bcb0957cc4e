package ports

import (
	"io"

	"github.com/fablane/fablane/internal/core/domain"
)

// ArtifactStore is the content-addressed gateway for build artifacts.
//
// Push is best-effort and idempotent: re-pushing a key with identical
// content is a no-op, and concurrent pushes of the same key are serialized.
// Pull returns domain.ErrCacheMiss for unknown keys; callers fall back to
// rebuilding and must not treat a miss as a job failure.
//
//go:generate go run go.uber.org/mock/mockgen -source=artifact_store.go -destination=mocks/mock_artifact_store.go -package=mocks
type ArtifactStore interface {
	// Push stores the blob under key.
	Push(key string, r io.Reader) error

	// Pull opens the blob stored under key.
	Pull(key string) (io.ReadCloser, error)

	// Stat returns the index entry for key without opening the blob.
	Stat(key string) (*domain.ArtifactInfo, error)
}
