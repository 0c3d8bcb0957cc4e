// Package pdk resolves process design kits and builds the flow execution
// environment for matrix instances.
package pdk

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fablane/fablane/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// libsRefDir is the conventional subdirectory holding standard cell
// libraries inside an installed PDK tree.
const libsRefDir = "libs.ref"

// Resolver implements ports.EnvResolver against a local PDK installation
// tree (volare-style layout: <root>/<pdk>/libs.ref/<scl>).
type Resolver struct {
	root string
}

// NewResolver creates a Resolver rooted at the given PDK root. An empty
// root falls back to $PDK_ROOT, then to the conventional ~/.volare.
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		root = os.Getenv("PDK_ROOT")
	}
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to determine pdk root")
		}
		root = filepath.Join(home, ".volare")
	}
	return &Resolver{root: filepath.Clean(root)}, nil
}

// Root returns the resolved PDK root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Verify checks that every selector's PDK and SCL are installed. Selectors
// are checked concurrently; the first missing tree fails the run before any
// job starts.
func (r *Resolver) Verify(ctx context.Context, selectors []domain.Selector) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, sel := range selectors {
		g.Go(func() error {
			pdkPath := filepath.Join(r.root, sel.PDK.String())
			if _, err := os.Stat(pdkPath); err != nil {
				return zerr.With(
					zerr.With(domain.ErrPDKNotFound, "pdk", sel.PDK.String()),
					"pdk_root", r.root,
				)
			}

			sclPath := filepath.Join(pdkPath, libsRefDir, sel.SCL.String())
			if _, err := os.Stat(sclPath); err != nil {
				return zerr.With(
					zerr.With(domain.ErrSCLNotFound, "pdk", sel.PDK.String()),
					"scl", sel.SCL.String(),
				)
			}
			return nil
		})
	}

	return g.Wait()
}

// Environment returns the "KEY=VALUE" pairs handed to every step of a
// matrix instance. Variable names follow the flow CLI's conventions.
func (r *Resolver) Environment(entry domain.MatrixEntry, runTag string) []string {
	return []string{
		"PDK_ROOT=" + r.root,
		"PDK=" + entry.PDK.String(),
		"STD_CELL_LIBRARY=" + entry.SCL.String(),
		"DESIGN_CONFIG=" + entry.ConfigPath,
		"RUN_TAG=" + runTag,
	}
}
