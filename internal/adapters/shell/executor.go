// Package shell provides the step executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fablane/fablane/internal/core/domain"
	"github.com/fablane/fablane/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new shell Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the step's command with the given environment layered on top
// of the system environment. PATH entries from env are prepended to the
// system PATH. Output streams to the telemetry vertex carried by ctx when
// present, otherwise to the logger.
func (e *Executor) Execute(ctx context.Context, step *domain.Step, env []string, dir string) error {
	if len(step.Command) == 0 {
		return nil
	}

	name := step.Command[0]
	args := step.Command[1:]

	cmdEnv := resolveEnvironment(os.Environ(), env)

	// Resolve the executable against the merged PATH, not the parent's.
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command
	if len(cmd.Args) > 0 {
		// Preserve the command name as invoked.
		cmd.Args[0] = name
	}
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = cmdEnv
	cmd.Stdout, cmd.Stderr = e.outputWriters(ctx)

	if err := cmd.Run(); err != nil {
		exitCode := -1 // Unknown or signal
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(
			zerr.With(zerr.Wrap(err, "step failed"), "step", step.Name),
			"exit_code", exitCode,
		)
	}

	return nil
}

func (e *Executor) outputWriters(ctx context.Context) (stdout, stderr io.Writer) {
	if v := ports.VertexFromContext(ctx); v != nil {
		return v.Stdout(), v.Stderr()
	}
	return &logWriter{logger: e.logger, level: domain.LogLevelInfo},
		&logWriter{logger: e.logger, level: domain.LogLevelError}
}

type logWriter struct {
	logger ports.Logger
	level  domain.LogLevel
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSuffix(string(p), "\n")
	for _, line := range strings.Split(msg, "\n") {
		if w.level >= domain.LogLevelError {
			w.logger.Error(zerr.New(line))
		} else {
			w.logger.Info(line)
		}
	}
	return len(p), nil
}

// resolveEnvironment merges environment variables. Flow entries override
// system entries, except PATH which is prepended.
func resolveEnvironment(sysEnv, flowEnv []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(flowEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for _, entry := range flowEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
			} else {
				envMap[k] = v
			}
		} else {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
