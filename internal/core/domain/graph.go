// Package domain contains the core models for the pipeline job graph.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Graph represents the dependency graph of pipeline jobs.
type Graph struct {
	jobs           map[InternedString]Job
	dependents     map[InternedString][]InternedString
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		jobs:       make(map[InternedString]Job),
		dependents: make(map[InternedString][]InternedString),
	}
}

// AddJob adds a job to the graph.
// It returns an error if a job with the same name already exists.
func (g *Graph) AddJob(j *Job) error {
	if _, exists := g.jobs[j.Name]; exists {
		return zerr.With(ErrJobAlreadyExists, "job", j.Name.String())
	}
	g.jobs[j.Name] = *j
	return nil
}

// Job returns the job with the given name.
func (g *Graph) Job(name InternedString) (Job, error) {
	j, ok := g.jobs[name]
	if !ok {
		return Job{}, zerr.With(ErrJobNotFound, "job", name.String())
	}
	return j, nil
}

// JobCount returns the number of jobs in the graph.
func (g *Graph) JobCount() int {
	return len(g.jobs)
}

// Validate checks for missing dependencies and cycles via a depth-first
// topological sort. On success it populates the execution order and the
// reverse (dependents) index used for readiness propagation.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.jobs))
	g.dependents = make(map[InternedString][]InternedString, len(g.jobs))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		job, exists := g.jobs[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range job.Needs {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for name := range g.jobs {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	for name, job := range g.jobs {
		for _, dep := range job.Needs {
			g.dependents[dep] = append(g.dependents[dep], name)
		}
	}

	return nil
}

// buildCycleError constructs an error carrying the cycle path as metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

// Dependents returns the jobs that declare a direct dependency on name.
// Valid only after Validate() has returned nil.
func (g *Graph) Dependents(name InternedString) []InternedString {
	return g.dependents[name]
}

// Walk returns an iterator that yields jobs in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Job] {
	return func(yield func(Job) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.jobs[name]) {
				return
			}
		}
	}
}
