package scheduler

import (
	"context"

	"github.com/fablane/fablane/internal/adapters/cache"
	"github.com/fablane/fablane/internal/adapters/logger"
	"github.com/fablane/fablane/internal/adapters/pdk"
	"github.com/fablane/fablane/internal/adapters/shell"
	"github.com/fablane/fablane/internal/adapters/telemetry"
	"github.com/fablane/fablane/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, pdk.NodeID, cache.NodeID, telemetry.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			env, err := graft.Dep[ports.EnvResolver](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.ArtifactStore](ctx)
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
			return NewScheduler(executor, env, store, tracer, log), nil
		},
	})
}
