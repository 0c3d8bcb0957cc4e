package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fablane/fablane/internal/adapters/telemetry"
	"github.com/fablane/fablane/internal/app"
	"github.com/fablane/fablane/internal/core/domain"
	"github.com/fablane/fablane/internal/core/ports/mocks"
	"github.com/fablane/fablane/internal/engine/gate"
	"github.com/fablane/fablane/internal/engine/matrix"
	"github.com/fablane/fablane/internal/engine/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	env      *mocks.MockEnvResolver
	executor *mocks.MockExecutor
	app      *app.App
}

func newFixture(t *testing.T, allowPublish bool) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	loader := mocks.NewMockConfigLoader(ctrl)
	env := mocks.NewMockEnvResolver(ctrl)
	executor := mocks.NewMockExecutor(ctrl)
	tracer := telemetry.NewNoOpTracer()

	sched := scheduler.NewScheduler(executor, env, nil, tracer, logger)
	g := gate.New(executor, tracer, logger, func() (bool, string) {
		return allowPublish, "v2.0.1"
	})

	return &fixture{
		loader:   loader,
		env:      env,
		executor: executor,
		app:      app.New(loader, env, matrix.NewGenerator(), sched, g, logger),
	}
}

func testPipeline() *domain.Pipeline {
	g := domain.NewGraph()
	_ = g.AddJob(&domain.Job{
		Name:   domain.NewInternedString("test"),
		Matrix: true,
		Steps:  []domain.Step{{Name: "flow", Command: []string{"openlane"}}},
	})

	sel := domain.Selector{
		PDK: domain.NewInternedString("sky130A"),
		SCL: domain.NewInternedString("sky130_fd_sc_hd"),
	}

	return &domain.Pipeline{
		Name:      "openlane-test",
		Graph:     g,
		Selectors: []domain.Selector{sel},
		Catalog: []domain.Design{
			{Name: domain.NewInternedString("spm")},
			{Name: domain.NewInternedString("aes")},
		},
		Publish: domain.PublishSpec{
			Steps: []domain.Step{{Name: "upload", Command: []string{"twine"}}},
		},
	}
}

func TestApp_Run_Success(t *testing.T) {
	f := newFixture(t, false)

	f.loader.EXPECT().Load(".").Return(testPipeline(), nil)
	f.env.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)
	f.env.EXPECT().Environment(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	// Two matrix instances, one step each; closed gate runs nothing more.
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	report, err := f.app.Run(context.Background(), ".", app.RunOptions{Parallelism: 2})
	require.NoError(t, err)
	require.False(t, report.Failed())
	assert.Len(t, report.Instances, 2)
}

func TestApp_Run_PublishAfterSuccess(t *testing.T) {
	f := newFixture(t, true)

	f.loader.EXPECT().Load(".").Return(testPipeline(), nil)
	f.env.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)
	f.env.EXPECT().Environment(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	// Two matrix instances plus the publish step behind the open gate.
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(3)

	_, err := f.app.Run(context.Background(), ".", app.RunOptions{Parallelism: 2})
	require.NoError(t, err)
}

func TestApp_Run_SkipPublish(t *testing.T) {
	f := newFixture(t, true)

	f.loader.EXPECT().Load(".").Return(testPipeline(), nil)
	f.env.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)
	f.env.EXPECT().Environment(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	_, err := f.app.Run(context.Background(), ".", app.RunOptions{
		Parallelism: 2,
		SkipPublish: true,
	})
	require.NoError(t, err)
}

func TestApp_Run_SmokeTestTruncatesMatrix(t *testing.T) {
	f := newFixture(t, false)

	f.loader.EXPECT().Load(".").Return(testPipeline(), nil)
	f.env.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)
	f.env.EXPECT().Environment(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	report, err := f.app.Run(context.Background(), ".", app.RunOptions{
		Parallelism: 1,
		SmokeTest:   true,
	})
	require.NoError(t, err)
	assert.Len(t, report.Instances, 1)
}

func TestApp_Run_SmokeTestEmptyMatrix(t *testing.T) {
	f := newFixture(t, false)

	pipeline := testPipeline()
	pipeline.Catalog = nil

	f.loader.EXPECT().Load(".").Return(pipeline, nil)
	f.env.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.app.Run(context.Background(), ".", app.RunOptions{
		Parallelism: 1,
		SkipPublish: true,
		SmokeTest:   true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyMatrix))
}

func TestApp_Run_ConfigLoadError(t *testing.T) {
	f := newFixture(t, false)

	loadErr := errors.New("no pipeline file")
	f.loader.EXPECT().Load(".").Return(nil, loadErr)

	_, err := f.app.Run(context.Background(), ".", app.RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, loadErr))
}

func TestApp_Run_VerifyError(t *testing.T) {
	f := newFixture(t, false)

	f.loader.EXPECT().Load(".").Return(testPipeline(), nil)
	f.env.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(domain.ErrPDKNotFound)

	_, err := f.app.Run(context.Background(), ".", app.RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPDKNotFound))
}

func TestApp_Run_ExecutionFailure(t *testing.T) {
	f := newFixture(t, true)

	f.loader.EXPECT().Load(".").Return(testPipeline(), nil)
	f.env.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)
	f.env.EXPECT().Environment(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	// Both instances fail; the gate must not run even though it is open.
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("flow crashed")).
		Times(2)

	report, err := f.app.Run(context.Background(), ".", app.RunOptions{Parallelism: 2})
	require.Error(t, err)
	require.NotNil(t, report)
	assert.True(t, report.Failed())
}

func TestApp_Matrix(t *testing.T) {
	f := newFixture(t, false)

	f.loader.EXPECT().Load(".").Return(testPipeline(), nil)
	f.env.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)

	entries, err := f.app.Matrix(context.Background(), ".", []string{"aes"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "aes/sky130A/sky130_fd_sc_hd", entries[0].ID())
}

func TestApp_Matrix_UnknownTestSet(t *testing.T) {
	f := newFixture(t, false)

	f.loader.EXPECT().Load(".").Return(testPipeline(), nil)
	f.env.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.app.Matrix(context.Background(), ".", []string{"nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownTestSet))
}
