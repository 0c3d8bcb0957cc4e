package pdk_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fablane/fablane/internal/adapters/pdk"
	"github.com/fablane/fablane/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func selector(p, s string) domain.Selector {
	return domain.Selector{
		PDK: domain.NewInternedString(p),
		SCL: domain.NewInternedString(s),
	}
}

// installPDK lays out a volare-style tree: <root>/<pdk>/libs.ref/<scl>.
func installPDK(t *testing.T, root, pdkName, scl string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, pdkName, "libs.ref", scl), 0o750))
}

func TestResolver_Verify(t *testing.T) {
	root := t.TempDir()
	installPDK(t, root, "sky130A", "sky130_fd_sc_hd")
	installPDK(t, root, "gf180mcuC", "gf180mcu_fd_sc_mcu7t5v0")

	r, err := pdk.NewResolver(root)
	require.NoError(t, err)

	err = r.Verify(context.Background(), []domain.Selector{
		selector("sky130A", "sky130_fd_sc_hd"),
		selector("gf180mcuC", "gf180mcu_fd_sc_mcu7t5v0"),
	})
	require.NoError(t, err)
}

func TestResolver_Verify_PDKNotFound(t *testing.T) {
	r, err := pdk.NewResolver(t.TempDir())
	require.NoError(t, err)

	err = r.Verify(context.Background(), []domain.Selector{
		selector("sky130A", "sky130_fd_sc_hd"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrPDKNotFound))
}

func TestResolver_Verify_SCLNotFound(t *testing.T) {
	root := t.TempDir()
	installPDK(t, root, "sky130A", "sky130_fd_sc_hd")

	r, err := pdk.NewResolver(root)
	require.NoError(t, err)

	err = r.Verify(context.Background(), []domain.Selector{
		selector("sky130A", "sky130_fd_sc_hs"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrSCLNotFound))
}

func TestResolver_RootFromEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("PDK_ROOT", root)

	r, err := pdk.NewResolver("")
	require.NoError(t, err)
	require.Equal(t, root, r.Root())
}

func TestResolver_Environment(t *testing.T) {
	r, err := pdk.NewResolver("/opt/pdks")
	require.NoError(t, err)

	entry := domain.NewMatrixEntry(
		domain.Design{
			Name:       domain.NewInternedString("spm"),
			ConfigPath: "designs/spm/config.json",
		},
		selector("sky130A", "sky130_fd_sc_hd"),
	)

	env := r.Environment(entry, "abc123")
	require.Contains(t, env, "PDK_ROOT=/opt/pdks")
	require.Contains(t, env, "PDK=sky130A")
	require.Contains(t, env, "STD_CELL_LIBRARY=sky130_fd_sc_hd")
	require.Contains(t, env, "DESIGN_CONFIG=designs/spm/config.json")
	require.Contains(t, env, "RUN_TAG=abc123")
}
