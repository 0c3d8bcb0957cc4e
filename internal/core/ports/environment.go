package ports

import (
	"context"

	"github.com/fablane/fablane/internal/core/domain"
)

// EnvResolver constructs the flow execution environment for matrix
// instances.
//
// Implementations are responsible for:
//   - Locating the PDK root on the local filesystem
//   - Verifying that every selector's PDK and SCL are installed
//   - Constructing environment variables (PDK, PDK_ROOT, SCL, RUN_TAG)
//     for step execution
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type EnvResolver interface {
	// Verify checks that all selectors resolve to installed PDK/SCL trees.
	// It fails with domain.ErrPDKNotFound or domain.ErrSCLNotFound before
	// any job starts.
	Verify(ctx context.Context, selectors []domain.Selector) error

	// Environment returns "KEY=VALUE" pairs for one matrix instance.
	Environment(entry domain.MatrixEntry, runTag string) []string
}
