package config

import (
	"os"
	"path/filepath"

	"github.com/fablane/fablane/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// catalogFile is the shape of a standalone design catalog file.
type catalogFile struct {
	Designs []DesignDTO `yaml:"designs"`
}

// loadCatalog resolves the catalog reference: inline designs win, otherwise
// the referenced file is read relative to the pipeline file.
func loadCatalog(baseDir string, ref CatalogRefDTO) ([]domain.Design, error) {
	dtos := ref.Designs
	if len(dtos) == 0 && ref.File != "" {
		data, err := os.ReadFile(filepath.Join(baseDir, ref.File)) //nolint:gosec // path comes from the pipeline file
		if err != nil {
			return nil, zerr.Wrap(err, "failed to read design catalog")
		}
		var cf catalogFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, zerr.Wrap(err, "failed to parse design catalog")
		}
		dtos = cf.Designs
	}

	seen := make(map[string]bool, len(dtos))
	designs := make([]domain.Design, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Name == "" {
			return nil, zerr.New("design catalog entry has no name")
		}
		if seen[dto.Name] {
			return nil, zerr.With(zerr.New("duplicate design in catalog"), "design", dto.Name)
		}
		seen[dto.Name] = true

		designs = append(designs, domain.Design{
			Name:       domain.NewInternedString(dto.Name),
			ConfigPath: dto.Config,
			SCLs:       dto.SCLs,
		})
	}

	return designs, nil
}
