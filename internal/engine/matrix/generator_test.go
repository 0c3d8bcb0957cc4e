package matrix_test

import (
	"errors"
	"testing"

	"github.com/fablane/fablane/internal/core/domain"
	"github.com/fablane/fablane/internal/engine/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	skySelector = domain.Selector{
		PDK: domain.NewInternedString("sky130A"),
		SCL: domain.NewInternedString("sky130_fd_sc_hd"),
	}
	gfSelector = domain.Selector{
		PDK: domain.NewInternedString("gf180mcuC"),
		SCL: domain.NewInternedString("gf180mcu_fd_sc_mcu7t5v0"),
	}
)

func design(name string, scls ...string) domain.Design {
	return domain.Design{
		Name:       domain.NewInternedString(name),
		ConfigPath: "designs/" + name + "/config.json",
		SCLs:       scls,
	}
}

func entryIDs(entries []domain.MatrixEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID()
	}
	return ids
}

func TestGenerator_Generate_FullCross(t *testing.T) {
	g := matrix.NewGenerator()

	entries, err := g.Generate(
		[]domain.Design{design("spm"), design("aes")},
		[]domain.Selector{skySelector, gfSelector},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"spm/sky130A/sky130_fd_sc_hd",
		"spm/gf180mcuC/gf180mcu_fd_sc_mcu7t5v0",
		"aes/sky130A/sky130_fd_sc_hd",
		"aes/gf180mcuC/gf180mcu_fd_sc_mcu7t5v0",
	}, entryIDs(entries))
}

func TestGenerator_Generate_SCLRestriction(t *testing.T) {
	g := matrix.NewGenerator()

	entries, err := g.Generate(
		[]domain.Design{design("aes", "sky130_fd_sc_hd")},
		[]domain.Selector{skySelector, gfSelector},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"aes/sky130A/sky130_fd_sc_hd"}, entryIDs(entries))
}

func TestGenerator_Generate_TestSetSubset(t *testing.T) {
	g := matrix.NewGenerator()
	catalog := []domain.Design{design("spm"), design("aes"), design("usb")}

	entries, err := g.Generate(catalog, []domain.Selector{skySelector}, []string{"usb", "spm"})
	require.NoError(t, err)

	// Test-set order wins over catalog order.
	assert.Equal(t, []string{
		"usb/sky130A/sky130_fd_sc_hd",
		"spm/sky130A/sky130_fd_sc_hd",
	}, entryIDs(entries))
}

func TestGenerator_Generate_UnknownTestSet(t *testing.T) {
	g := matrix.NewGenerator()

	_, err := g.Generate(
		[]domain.Design{design("spm")},
		[]domain.Selector{skySelector},
		[]string{"nope"},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownTestSet))
}

func TestGenerator_Generate_EmptySelectors(t *testing.T) {
	g := matrix.NewGenerator()

	entries, err := g.Generate([]domain.Design{design("spm")}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunTag_Deterministic(t *testing.T) {
	entries, err := matrix.NewGenerator().Generate(
		[]domain.Design{design("spm")},
		[]domain.Selector{skySelector},
		nil,
	)
	require.NoError(t, err)

	tag := matrix.RunTag("openlane-test", entries)
	assert.Len(t, tag, 16)
	assert.Equal(t, tag, matrix.RunTag("openlane-test", entries))
	assert.NotEqual(t, tag, matrix.RunTag("other-pipeline", entries))
}
