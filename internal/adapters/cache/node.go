package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fablane/fablane/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the artifact store Graft node.
const NodeID graft.ID = "adapter.artifact_store"

func init() {
	graft.Register(graft.Node[ports.ArtifactStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ArtifactStore, error) {
			root := os.Getenv("FABLANE_CACHE_DIR")
			if root == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return nil, err
				}
				root = filepath.Join(home, ".fablane", "cache")
			}
			return NewStore(root)
		},
	})
}
