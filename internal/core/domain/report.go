package domain

import "sync"

// Failure records an item that could not be built in tolerant mode.
type Failure struct {
	Item string
	Err  error
}

// TaskReport summarises what a task did during one run.
// It is safe for concurrent use.
type TaskReport struct {
	mu        sync.Mutex
	written   []string
	unchanged []string
	failed    []Failure
	stale     []string
}

// Written records an output that was written to disk.
func (r *TaskReport) Written(p string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written = append(r.written, p)
}

// Unchanged records an output skipped because its content did not change.
func (r *TaskReport) Unchanged(p string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unchanged = append(r.unchanged, p)
}

// Failed records an item that failed. Failed bundles keep their previous
// output on disk and are also listed as stale.
func (r *TaskReport) Failed(item string, err error, stale bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, Failure{Item: item, Err: err})
	if stale {
		r.stale = append(r.stale, item)
	}
}

// WrittenPaths returns a copy of the written outputs.
func (r *TaskReport) WrittenPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.written...)
}

// UnchangedPaths returns a copy of the skipped outputs.
func (r *TaskReport) UnchangedPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.unchanged...)
}

// Failures returns a copy of the recorded failures.
func (r *TaskReport) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.failed...)
}

// Stale returns the items whose previous output was kept after a failure.
func (r *TaskReport) Stale() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stale...)
}
