package domain

import "go.trai.ch/zerr"

var (
	// ErrJobAlreadyExists is returned when adding a job whose name is taken.
	ErrJobAlreadyExists = zerr.New("job already exists")

	// ErrMissingDependency is returned when a job needs another job that
	// does not exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when the job graph is not acyclic.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrJobNotFound is returned when a requested job is not in the graph.
	ErrJobNotFound = zerr.New("job not found")

	// ErrUnknownTestSet is returned by the matrix generator when a test-set
	// override names no catalog design.
	ErrUnknownTestSet = zerr.New("unknown test set")

	// ErrNoSelectors is returned when a matrixed job exists but the
	// pipeline declares no PDK/SCL selectors.
	ErrNoSelectors = zerr.New("no selectors configured")

	// ErrEmptyMatrix is returned when a smoke run expands to an empty test
	// matrix and there is nothing to execute.
	ErrEmptyMatrix = zerr.New("empty test matrix")

	// ErrCacheMiss is returned by the artifact store when a key has no
	// stored blob. Callers rebuild instead of failing.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrPublishRejected is returned when a gated publish step fails.
	// Publish failures are fatal to the release.
	ErrPublishRejected = zerr.New("publish rejected")

	// ErrPDKNotFound is returned when a selector references a PDK that is
	// not installed under the PDK root.
	ErrPDKNotFound = zerr.New("pdk not found")

	// ErrSCLNotFound is returned when a selector references a standard cell
	// library missing from its PDK.
	ErrSCLNotFound = zerr.New("standard cell library not found")
)
