package domain

// Selector names one (PDK, standard cell library) combination the pipeline
// tests against.
type Selector struct {
	PDK InternedString
	SCL InternedString
}

// String returns the canonical "pdk/scl" form of the selector.
func (s Selector) String() string {
	return s.PDK.String() + "/" + s.SCL.String()
}

// Design is one entry of the design catalog. An empty SCLs list means the
// design runs under every selector.
type Design struct {
	Name       InternedString
	ConfigPath string
	SCLs       []string
}

// Supports reports whether the design runs under the given selector.
func (d Design) Supports(sel Selector) bool {
	if len(d.SCLs) == 0 {
		return true
	}
	for _, scl := range d.SCLs {
		if scl == sel.SCL.String() {
			return true
		}
	}
	return false
}

// MatrixEntry is one concrete (design x selector) tuple of the expanded
// test matrix.
type MatrixEntry struct {
	Design     InternedString `json:"design"`
	PDK        InternedString `json:"pdk"`
	SCL        InternedString `json:"scl"`
	ConfigPath string         `json:"config,omitempty"`
	RunDir     string         `json:"run_dir"`
}

// NewMatrixEntry creates the entry for a design under a selector. The run
// directory mirrors the entry identity so concurrent instances never share
// output paths.
func NewMatrixEntry(d Design, sel Selector) MatrixEntry {
	e := MatrixEntry{
		Design:     d.Name,
		PDK:        sel.PDK,
		SCL:        sel.SCL,
		ConfigPath: d.ConfigPath,
	}
	e.RunDir = e.ID()
	return e
}

// ID returns the unique "design/pdk/scl" identity of the entry.
func (e MatrixEntry) ID() string {
	return e.Design.String() + "/" + e.PDK.String() + "/" + e.SCL.String()
}
