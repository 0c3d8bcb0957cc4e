package app

import (
	"context"

	"github.com/fablane/fablane/internal/adapters/config"
	"github.com/fablane/fablane/internal/adapters/logger"
	"github.com/fablane/fablane/internal/adapters/telemetry"
	"github.com/fablane/fablane/internal/core/ports"
	"github.com/grindlemire/graft"
)

// ComponentsNodeID is the unique identifier for the Components Graft node.
const ComponentsNodeID graft.ID = "app.components"

// Components contains the initialized application components.
// It provides controlled access to what the CLI layer needs.
type Components struct {
	App          *App
	Logger       ports.Logger
	Tracer       ports.Tracer
	ConfigLoader *config.FileConfigLoader
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			NodeID,
			logger.NodeID,
			telemetry.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	fileLoader, _ := loader.(*config.FileConfigLoader)

	return &Components{
		App:          application,
		Logger:       log,
		Tracer:       tracer,
		ConfigLoader: fileLoader,
	}, nil
}
