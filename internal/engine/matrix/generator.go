// Package matrix expands the design catalog into concrete test tuples.
package matrix

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fablane/fablane/internal/core/domain"
	"go.trai.ch/zerr"
)

// Generator expands (design x selector) combinations into matrix entries.
// It is pure: the only output is the returned sequence.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns one entry per eligible (design x selector) combination,
// in catalog order with selectors expanded per design.
//
// testSets optionally restricts the catalog to the named designs; a
// test-set identifier matching no catalog design fails with
// domain.ErrUnknownTestSet. Designs whose SCL restriction excludes a
// selector are skipped for that selector.
func (g *Generator) Generate(
	catalog []domain.Design,
	selectors []domain.Selector,
	testSets []string,
) ([]domain.MatrixEntry, error) {
	designs, err := filterCatalog(catalog, testSets)
	if err != nil {
		return nil, err
	}

	var entries []domain.MatrixEntry
	for _, d := range designs {
		for _, sel := range selectors {
			if !d.Supports(sel) {
				continue
			}
			entries = append(entries, domain.NewMatrixEntry(d, sel))
		}
	}
	return entries, nil
}

func filterCatalog(catalog []domain.Design, testSets []string) ([]domain.Design, error) {
	if len(testSets) == 0 {
		return catalog, nil
	}

	byName := make(map[string]domain.Design, len(catalog))
	for _, d := range catalog {
		byName[d.Name.String()] = d
	}

	designs := make([]domain.Design, 0, len(testSets))
	for _, id := range testSets {
		d, ok := byName[id]
		if !ok {
			return nil, zerr.With(domain.ErrUnknownTestSet, "test_set", id)
		}
		designs = append(designs, d)
	}
	return designs, nil
}

// RunTag derives a deterministic tag for the run from the pipeline name and
// the expanded matrix. Steps receive it as RUN_TAG; the flow CLI uses it to
// name its output folder.
func RunTag(pipelineName string, entries []domain.MatrixEntry) string {
	hasher := xxhash.New()
	_, _ = hasher.WriteString(pipelineName)
	_, _ = hasher.Write([]byte{0})
	for _, e := range entries {
		_, _ = hasher.WriteString(e.ID())
		_, _ = hasher.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", hasher.Sum64())
}
