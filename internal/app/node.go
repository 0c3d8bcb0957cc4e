package app

import (
	"context"

	"github.com/fablane/fablane/internal/adapters/config"
	"github.com/fablane/fablane/internal/adapters/logger"
	"github.com/fablane/fablane/internal/adapters/pdk"
	"github.com/fablane/fablane/internal/core/ports"
	"github.com/fablane/fablane/internal/engine/gate"
	"github.com/fablane/fablane/internal/engine/matrix"
	"github.com/fablane/fablane/internal/engine/scheduler"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the main App Graft node.
const NodeID graft.ID = "app.main"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			pdk.NodeID,
			matrix.NodeID,
			scheduler.NodeID,
			gate.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			env, err := graft.Dep[ports.EnvResolver](ctx)
			if err != nil {
				return nil, err
			}
			generator, err := graft.Dep[*matrix.Generator](ctx)
			if err != nil {
				return nil, err
			}
			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}
			publishGate, err := graft.Dep[*gate.Gate](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, env, generator, sched, publishGate, log), nil
		},
	})
}
