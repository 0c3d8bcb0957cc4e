// Package config provides the pipeline configuration loader for fablane.
package config

import (
	"os"
	"path/filepath"

	"github.com/fablane/fablane/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// reservedJobNames cannot be used in the jobs map. "publish" is modeled by
// the dedicated publish block, "all" is the implicit root target.
var reservedJobNames = map[string]bool{
	"all":     true,
	"publish": true,
}

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// Load reads the pipeline from the given working directory. An absolute
// Filename wins over cwd.
func (l *FileConfigLoader) Load(cwd string) (*domain.Pipeline, error) {
	path := l.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	return Load(path)
}

// Load reads a pipeline file from the given path and returns the fully
// validated domain.Pipeline.
func Load(path string) (*domain.Pipeline, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read pipeline file")
	}

	var lanefile Lanefile
	if err := yaml.Unmarshal(data, &lanefile); err != nil {
		return nil, zerr.Wrap(err, "failed to parse pipeline file")
	}

	catalog, err := loadCatalog(filepath.Dir(path), lanefile.Catalog)
	if err != nil {
		return nil, err
	}

	graph, hasMatrix, err := buildGraph(lanefile.Jobs)
	if err != nil {
		return nil, err
	}

	if hasMatrix && len(lanefile.Selectors) == 0 {
		return nil, domain.ErrNoSelectors
	}

	return &domain.Pipeline{
		Name:      lanefile.Name,
		Graph:     graph,
		Selectors: mapSelectors(lanefile.Selectors),
		Catalog:   catalog,
		Publish: domain.PublishSpec{
			Steps:       mapSteps(lanefile.Publish.Steps),
			Environment: lanefile.Publish.Environment,
		},
	}, nil
}

func buildGraph(jobs map[string]JobDTO) (*domain.Graph, bool, error) {
	g := domain.NewGraph()
	hasMatrix := false

	// First pass: collect all job names to verify dependencies later.
	jobNames := make(map[string]bool, len(jobs))
	for name := range jobs {
		jobNames[name] = true
	}

	// Second pass: create jobs and add to graph.
	for name, dto := range jobs {
		if reservedJobNames[name] {
			return nil, false, zerr.With(zerr.New("job name is reserved"), "job", name)
		}

		for _, dep := range dto.Needs {
			if !jobNames[dep] {
				return nil, false, zerr.With(zerr.With(domain.ErrMissingDependency, "job", name), "dependency", dep)
			}
		}

		if len(dto.Steps) == 0 {
			return nil, false, zerr.With(zerr.New("job has no steps"), "job", name)
		}

		if dto.Matrix {
			hasMatrix = true
		}

		job := &domain.Job{
			Name:            domain.NewInternedString(name),
			Needs:           internStrings(dto.Needs),
			Steps:           mapSteps(dto.Steps),
			RunsOn:          dto.RunsOn,
			Matrix:          dto.Matrix,
			FailFast:        dto.FailFast,
			ContinueOnError: dto.ContinueOnError,
			Environment:     dto.Environment,
		}

		if err := g.AddJob(job); err != nil {
			return nil, false, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, false, err
	}

	return g, hasMatrix, nil
}

func mapSelectors(dtos []SelectorDTO) []domain.Selector {
	res := make([]domain.Selector, len(dtos))
	for i, dto := range dtos {
		res[i] = domain.Selector{
			PDK: domain.NewInternedString(dto.PDK),
			SCL: domain.NewInternedString(dto.SCL),
		}
	}
	return res
}

func mapSteps(dtos []StepDTO) []domain.Step {
	if len(dtos) == 0 {
		return nil
	}
	res := make([]domain.Step, len(dtos))
	for i, dto := range dtos {
		name := dto.Name
		if name == "" && len(dto.Run) > 0 {
			name = dto.Run[0]
		}
		res[i] = domain.Step{Name: name, Command: dto.Run}
	}
	return res
}

func internStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}
	res := make([]domain.InternedString, len(strs))
	for i, s := range strs {
		res[i] = domain.NewInternedString(s)
	}
	return res
}
