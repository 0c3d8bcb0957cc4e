package pdk

import (
	"context"

	"github.com/fablane/fablane/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the environment resolver Graft node.
const NodeID graft.ID = "adapter.env_resolver"

func init() {
	graft.Register(graft.Node[ports.EnvResolver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.EnvResolver, error) {
			return NewResolver("")
		},
	})
}
