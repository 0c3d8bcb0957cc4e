package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fablane/fablane/internal/adapters/telemetry"
	"github.com/fablane/fablane/internal/app"
	"github.com/fablane/fablane/internal/core/ports/mocks"
	"github.com/fablane/fablane/internal/engine/gate"
	"github.com/fablane/fablane/internal/engine/matrix"
	"github.com/fablane/fablane/internal/engine/scheduler"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func testComponents(t *testing.T) *app.Components {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	loader := mocks.NewMockConfigLoader(ctrl)
	env := mocks.NewMockEnvResolver(ctrl)
	executor := mocks.NewMockExecutor(ctrl)
	tracer := telemetry.NewNoOpTracer()

	sched := scheduler.NewScheduler(executor, env, nil, tracer, logger)
	g := gate.New(executor, tracer, logger, gate.EnvCondition)

	return &app.Components{
		App:    app.New(loader, env, matrix.NewGenerator(), sched, g, logger),
		Logger: logger,
		Tracer: tracer,
	}
}

func TestRun_Success(t *testing.T) {
	components := testComponents(t)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ExecutionError(t *testing.T) {
	components := testComponents(t)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"run", "--bogus-flag"}, stderr, provider)
	assert.Equal(t, 1, exitCode)
}
