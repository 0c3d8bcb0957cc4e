// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/fablane/fablane/internal/adapters/cache"
	_ "github.com/fablane/fablane/internal/adapters/config"
	_ "github.com/fablane/fablane/internal/adapters/logger"
	_ "github.com/fablane/fablane/internal/adapters/pdk"
	_ "github.com/fablane/fablane/internal/adapters/shell"
	_ "github.com/fablane/fablane/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "github.com/fablane/fablane/internal/app"
	_ "github.com/fablane/fablane/internal/engine/gate"
	_ "github.com/fablane/fablane/internal/engine/matrix"
	_ "github.com/fablane/fablane/internal/engine/scheduler"
)
