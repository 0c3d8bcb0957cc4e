// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"github.com/fablane/fablane/internal/core/domain"
)

// Executor runs a single pipeline step.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the step's command in dir with the given environment
	// appended on top of the system environment. A non-zero exit is
	// returned as an error carrying the exit code as metadata.
	Execute(ctx context.Context, step *domain.Step, env []string, dir string) error
}
