package gate

import (
	"context"

	"github.com/fablane/fablane/internal/adapters/logger"
	"github.com/fablane/fablane/internal/adapters/shell"
	"github.com/fablane/fablane/internal/adapters/telemetry"
	"github.com/fablane/fablane/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the publish gate Graft node.
const NodeID graft.ID = "engine.publish_gate"

func init() {
	graft.Register(graft.Node[*Gate]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, telemetry.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Gate, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(executor, tracer, log, EnvCondition), nil
		},
	})
}
