// Package app implements the application layer for fablane.
package app

import (
	"context"
	"fmt"
	"runtime"

	"github.com/fablane/fablane/internal/core/domain"
	"github.com/fablane/fablane/internal/core/ports"
	"github.com/fablane/fablane/internal/engine/gate"
	"github.com/fablane/fablane/internal/engine/matrix"
	"github.com/fablane/fablane/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App orchestrates one pipeline run: load, expand, execute, publish.
type App struct {
	configLoader ports.ConfigLoader
	env          ports.EnvResolver
	generator    *matrix.Generator
	scheduler    *scheduler.Scheduler
	gate         *gate.Gate
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	env ports.EnvResolver,
	generator *matrix.Generator,
	sched *scheduler.Scheduler,
	g *gate.Gate,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		env:          env,
		generator:    generator,
		scheduler:    sched,
		gate:         g,
		logger:       logger,
	}
}

// RunOptions configures a pipeline run.
type RunOptions struct {
	// TestSets restricts the matrix to the named catalog designs.
	TestSets []string
	// Parallelism bounds concurrent jobs and matrix instances.
	// Zero means runtime.NumCPU().
	Parallelism int
	// SkipPublish leaves the publish block untouched even when the gate
	// would open.
	SkipPublish bool
	// SmokeTest truncates the matrix to a single entry. An empty matrix
	// fails the run with domain.ErrEmptyMatrix.
	SmokeTest bool
}

// Run executes the pipeline found in cwd.
func (a *App) Run(ctx context.Context, cwd string, opts RunOptions) (*scheduler.Report, error) {
	pipeline, entries, err := a.plan(ctx, cwd, opts)
	if err != nil {
		return nil, err
	}

	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	runTag := matrix.RunTag(pipeline.Name, entries)

	report, err := a.scheduler.Run(ctx, pipeline.Graph, entries, runTag, parallelism)
	if err != nil {
		return report, zerr.Wrap(err, "pipeline execution failed")
	}

	a.logReport(report)

	if !opts.SkipPublish {
		if err := a.gate.Run(ctx, pipeline.Publish); err != nil {
			return report, zerr.Wrap(err, "release failed")
		}
	}

	return report, nil
}

// Matrix loads the pipeline and returns the expanded matrix without
// executing anything.
func (a *App) Matrix(ctx context.Context, cwd string, testSets []string) ([]domain.MatrixEntry, error) {
	_, entries, err := a.plan(ctx, cwd, RunOptions{TestSets: testSets})
	return entries, err
}

// plan loads the pipeline, verifies the flow environment and expands the
// matrix. All configuration errors surface here, before any job starts.
func (a *App) plan(ctx context.Context, cwd string, opts RunOptions) (*domain.Pipeline, []domain.MatrixEntry, error) {
	pipeline, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load pipeline")
	}

	if len(pipeline.Selectors) > 0 {
		if err := a.env.Verify(ctx, pipeline.Selectors); err != nil {
			return nil, nil, zerr.Wrap(err, "flow environment verification failed")
		}
	}

	entries, err := a.generator.Generate(pipeline.Catalog, pipeline.Selectors, opts.TestSets)
	if err != nil {
		return nil, nil, err
	}

	if opts.SmokeTest {
		if len(entries) == 0 {
			return nil, nil, domain.ErrEmptyMatrix
		}
		entries = entries[:1]
	}

	return pipeline, entries, nil
}

func (a *App) logReport(report *scheduler.Report) {
	counts := make(map[domain.JobStatus]int)
	for _, st := range report.Jobs {
		counts[st]++
	}
	a.logger.Info(fmt.Sprintf(
		"run finished: %d succeeded, %d failed, %d skipped, %d cancelled, %d cache hits",
		counts[domain.StatusSucceeded],
		counts[domain.StatusFailed],
		counts[domain.StatusSkipped],
		counts[domain.StatusCancelled],
		report.CacheHits,
	))
}
