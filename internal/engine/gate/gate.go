// Package gate implements the conditional publish gate.
package gate

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/fablane/fablane/internal/core/domain"
	"github.com/fablane/fablane/internal/core/ports"
	"go.trai.ch/zerr"
)

// Condition evaluates the publish decision. It is called exactly once per
// run; all gated steps read the cached result.
type Condition func() (allowed bool, tag string)

// EnvCondition derives the decision from the environment boundary: a truthy
// PUBLISH flag and a non-empty NEW_TAG.
func EnvCondition() (bool, string) {
	tag := os.Getenv("NEW_TAG")
	return isTruthy(os.Getenv("PUBLISH")) && tag != "", tag
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// Gate computes the publish condition once and runs the release steps
// behind it. The decision is never recomputed mid-run, so the publish
// sequence cannot observe a condition flip partway through.
type Gate struct {
	executor ports.Executor
	tracer   ports.Tracer
	logger   ports.Logger
	cond     Condition

	once    sync.Once
	allowed bool
	tag     string
}

// New creates a Gate with the given condition.
func New(executor ports.Executor, tracer ports.Tracer, logger ports.Logger, cond Condition) *Gate {
	return &Gate{
		executor: executor,
		tracer:   tracer,
		logger:   logger,
		cond:     cond,
	}
}

// Allowed returns the cached publish decision, computing it on first use.
func (g *Gate) Allowed() bool {
	g.once.Do(func() {
		g.allowed, g.tag = g.cond()
	})
	return g.allowed
}

// Tag returns the release tag the condition resolved. Empty when the gate
// is closed.
func (g *Gate) Tag() string {
	g.Allowed()
	return g.tag
}

// Run executes the publish steps when the gate is open. Steps run
// sequentially in declaration order; the first failure aborts the remaining
// sequence and is fatal to the release. A closed gate runs nothing and
// returns nil regardless of upstream outcomes.
func (g *Gate) Run(ctx context.Context, spec domain.PublishSpec) error {
	if len(spec.Steps) == 0 {
		return nil
	}

	if !g.Allowed() {
		g.logger.Info("publish condition is false, skipping release steps")
		return nil
	}

	env := []string{"NEW_TAG=" + g.tag}
	for k, v := range spec.Environment {
		env = append(env, k+"="+v)
	}

	for i := range spec.Steps {
		step := &spec.Steps[i]

		stepCtx, vertex := g.tracer.Record(ctx, "publish: "+step.Name)
		if err := g.executor.Execute(stepCtx, step, env, ""); err != nil {
			wrapped := zerr.With(
				zerr.With(errors.Join(domain.ErrPublishRejected, err), "step", step.Name),
				"tag", g.tag,
			)
			vertex.Complete(wrapped)
			return wrapped
		}
		vertex.Complete(nil)
	}

	return nil
}
