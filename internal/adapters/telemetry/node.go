package telemetry

import (
	"context"
	"os"

	"github.com/fablane/fablane/internal/adapters/telemetry/progrock"
	"github.com/fablane/fablane/internal/core/ports"
	"github.com/grindlemire/graft"
	"github.com/mattn/go-isatty"
)

// NodeID is the unique identifier for the tracer Graft node.
const NodeID graft.ID = "adapter.tracer"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			if isatty.IsTerminal(os.Stderr.Fd()) {
				return progrock.New(), nil
			}
			return NewNoOpTracer(), nil
		},
	})
}
