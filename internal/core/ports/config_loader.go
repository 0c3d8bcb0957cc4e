package ports

import "github.com/fablane/fablane/internal/core/domain"

// ConfigLoader defines the interface for loading the pipeline definition.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the pipeline from the given working directory and returns
	// the job graph together with the matrix inputs and publish block.
	Load(cwd string) (*domain.Pipeline, error)
}
