// Package scheduler implements the pipeline job graph executor.
package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/fablane/fablane/internal/core/domain"
	"github.com/fablane/fablane/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler manages the execution of jobs in the dependency graph.
type Scheduler struct {
	executor ports.Executor
	env      ports.EnvResolver
	store    ports.ArtifactStore
	tracer   ports.Tracer
	logger   ports.Logger

	mu             sync.RWMutex
	jobStatus      map[domain.InternedString]domain.JobStatus
	instanceStatus map[string]domain.JobStatus
	cacheHits      int
}

// NewScheduler creates a new Scheduler. store may be nil to disable result
// caching.
func NewScheduler(
	executor ports.Executor,
	env ports.EnvResolver,
	store ports.ArtifactStore,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor: executor,
		env:      env,
		store:    store,
		tracer:   tracer,
		logger:   logger,
	}
}

// Report summarizes the terminal state of every job and matrix instance of
// a run.
type Report struct {
	Jobs      map[domain.InternedString]domain.JobStatus
	Instances map[string]domain.JobStatus
	CacheHits int
}

// Failed reports whether any job reached Failure.
func (r *Report) Failed() bool {
	for _, st := range r.Jobs {
		if st == domain.StatusFailed {
			return true
		}
	}
	return false
}

func (s *Scheduler) setJobStatus(name domain.InternedString, st domain.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobStatus[name] = st
}

func (s *Scheduler) setInstanceStatus(id string, st domain.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instanceStatus[id] = st
}

// Run executes the graph with the specified parallelism. Matrix jobs fan
// into one instance per entry. The returned error joins all hard job
// failures; failures of continue-on-error jobs are recorded in the report
// only.
func (s *Scheduler) Run(
	ctx context.Context,
	graph *domain.Graph,
	entries []domain.MatrixEntry,
	runTag string,
	parallelism int,
) (*Report, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if parallelism < 1 {
		parallelism = 1
	}

	s.mu.Lock()
	s.jobStatus = make(map[domain.InternedString]domain.JobStatus, graph.JobCount())
	s.instanceStatus = make(map[string]domain.JobStatus)
	s.cacheHits = 0
	s.mu.Unlock()
	for job := range graph.Walk() {
		s.setJobStatus(job.Name, domain.StatusPending)
	}

	state := s.newRunState(ctx, graph, entries, runTag, parallelism)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			break
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	s.finalize(state)

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return s.report(), state.errs
}

func (s *Scheduler) report() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep := &Report{
		Jobs:      make(map[domain.InternedString]domain.JobStatus, len(s.jobStatus)),
		Instances: make(map[string]domain.JobStatus, len(s.instanceStatus)),
		CacheHits: s.cacheHits,
	}
	for name, st := range s.jobStatus {
		rep.Jobs[name] = st
	}
	for id, st := range s.instanceStatus {
		rep.Instances[id] = st
	}
	return rep
}

// finalize assigns a terminal state to jobs that never ran: Cancelled when
// the run context was cut, Skipped when an upstream failure starved them.
func (s *Scheduler) finalize(state *runState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, st := range s.jobStatus {
		if st.IsTerminal() || st == domain.StatusRunning {
			continue
		}
		if state.ctx.Err() != nil {
			s.jobStatus[name] = domain.StatusCancelled
		} else {
			s.jobStatus[name] = domain.StatusSkipped
		}
	}
}

type result struct {
	job domain.InternedString
	err error
}

type runState struct {
	graph       *domain.Graph
	entries     []domain.MatrixEntry
	runTag      string
	inDegree    map[domain.InternedString]int
	jobs        map[domain.InternedString]domain.Job
	ready       []domain.InternedString
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	parallelism int
	s           *Scheduler
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	graph *domain.Graph,
	entries []domain.MatrixEntry,
	runTag string,
	parallelism int,
) *runState {
	jobCount := graph.JobCount()
	inDegree := make(map[domain.InternedString]int, jobCount)
	jobs := make(map[domain.InternedString]domain.Job, jobCount)

	for job := range graph.Walk() {
		jobs[job.Name] = job
		inDegree[job.Name] = len(job.Needs)
	}

	var ready []domain.InternedString
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}

	return &runState{
		graph:       graph,
		entries:     entries,
		runTag:      runTag,
		inDegree:    inDegree,
		jobs:        jobs,
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		parallelism: parallelism,
		s:           s,
	}
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		jobName := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.setJobStatus(jobName, domain.StatusRunning)

		go func(j domain.Job) {
			state.resultsCh <- result{job: j.Name, err: state.executeJob(state.ctx, j)}
		}(state.jobs[jobName])
	}
}

func (state *runState) executeJob(ctx context.Context, job domain.Job) error {
	if !job.Matrix {
		return state.s.runInstance(ctx, job, nil, state.runTag)
	}
	if job.FailFast {
		return state.fanOutFailFast(ctx, job)
	}
	return state.fanOutIsolated(ctx, job)
}

// fanOutIsolated runs every matrix instance to a terminal state. A failing
// instance never cancels its siblings; all failures are joined.
func (state *runState) fanOutIsolated(ctx context.Context, job domain.Job) error {
	g := new(errgroup.Group)
	g.SetLimit(state.parallelism)

	var mu sync.Mutex
	var errs error

	for _, entry := range state.entries {
		g.Go(func() error {
			if err := state.s.runInstance(ctx, job, &entry, state.runTag); err != nil {
				mu.Lock()
				errs = errors.Join(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return errs
}

// fanOutFailFast cancels unstarted sibling instances after the first
// failure. Already-running instances finish under their own step context.
func (state *runState) fanOutFailFast(ctx context.Context, job domain.Job) error {
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(state.parallelism)

	for _, entry := range state.entries {
		g.Go(func() error {
			if groupCtx.Err() != nil {
				state.s.setInstanceStatus(instanceID(job, &entry), domain.StatusCancelled)
				return nil
			}
			return state.s.runInstance(groupCtx, job, &entry, state.runTag)
		})
	}

	return g.Wait()
}

func instanceID(job domain.Job, entry *domain.MatrixEntry) string {
	if entry == nil {
		return job.Name.String()
	}
	return job.Name.String() + ":" + entry.ID()
}

// runInstance executes the job's steps for one matrix entry (or once, for
// non-matrix jobs) and records the outcome on a telemetry vertex.
func (s *Scheduler) runInstance(
	ctx context.Context,
	job domain.Job,
	entry *domain.MatrixEntry,
	runTag string,
) error {
	id := instanceID(job, entry)
	s.setInstanceStatus(id, domain.StatusRunning)

	ctx, vertex := s.tracer.Record(ctx, id)

	if s.checkCacheHit(runTag, id) {
		vertex.Cached()
		vertex.Complete(nil)
		s.mu.Lock()
		s.cacheHits++
		s.mu.Unlock()
		s.setInstanceStatus(id, domain.StatusSucceeded)
		return nil
	}

	env := []string{"RUN_TAG=" + runTag}
	dir := ""
	if entry != nil {
		env = s.env.Environment(*entry, runTag)
		dir = entry.RunDir
		if err := os.MkdirAll(dir, 0o750); err != nil {
			wrapped := zerr.With(zerr.Wrap(err, "failed to create run directory"), "instance", id)
			vertex.Complete(wrapped)
			s.setInstanceStatus(id, domain.StatusFailed)
			return wrapped
		}
	}
	for k, v := range job.Environment {
		env = append(env, k+"="+v)
	}

	for i := range job.Steps {
		step := &job.Steps[i]
		if err := s.executor.Execute(ctx, step, env, dir); err != nil {
			wrapped := zerr.With(zerr.Wrap(err, "job instance failed"), "instance", id)
			vertex.Complete(wrapped)
			s.setInstanceStatus(id, domain.StatusFailed)
			return wrapped
		}
	}

	vertex.Complete(nil)
	s.setInstanceStatus(id, domain.StatusSucceeded)
	s.updateCache(runTag, id)
	return nil
}

// instanceRecord is the blob pushed to the artifact cache after a
// successful instance. Content is deterministic for a given key, keeping
// re-pushes idempotent.
type instanceRecord struct {
	Instance string `json:"instance"`
	RunTag   string `json:"run_tag"`
	Status   string `json:"status"`
}

func cacheKey(runTag, id string) string {
	return "instance/" + runTag + "/" + id
}

// checkCacheHit reports whether a prior run already completed this instance
// under the same run tag. A miss (or any store error) is non-fatal.
func (s *Scheduler) checkCacheHit(runTag, id string) bool {
	if s.store == nil {
		return false
	}
	info, err := s.store.Stat(cacheKey(runTag, id))
	return err == nil && info != nil
}

// updateCache records the successful instance. Push is best-effort.
func (s *Scheduler) updateCache(runTag, id string) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(instanceRecord{
		Instance: id,
		RunTag:   runTag,
		Status:   string(domain.StatusSucceeded),
	})
	if err != nil {
		return
	}
	if err := s.store.Push(cacheKey(runTag, id), bytes.NewReader(data)); err != nil {
		s.logger.Warn("failed to push instance record to artifact cache: " + err.Error())
	}
}

func (state *runState) handleResult(res result) {
	state.active--
	job := state.jobs[res.job]

	if res.err != nil {
		state.s.setJobStatus(res.job, domain.StatusFailed)
		if !job.ContinueOnError {
			state.errs = errors.Join(state.errs, res.err)
			// Dependents are starved and resolve to Skipped in finalize.
			return
		}
		state.s.logger.Warn("job failed but is marked continue-on-error: " + res.job.String())
	} else {
		state.s.setJobStatus(res.job, domain.StatusSucceeded)
	}

	for _, dep := range state.graph.Dependents(res.job) {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}
