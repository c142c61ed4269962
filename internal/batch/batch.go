// Package batch converts every export found under a root directory.
package batch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ALT-F4-LLC/bbredmine/internal/convert"
	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
)

const (
	inputExt  = ".json"
	outputExt = ".csv"
)

// Job is one export to convert and the CSV it produces.
type Job struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// OutputPath derives the CSV path for an export: same directory, extension
// replaced.
func OutputPath(input string) string {
	dir, name := filepath.Split(input)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		stem = name
	}
	return filepath.Join(dir, stem+outputExt)
}

// Discover lists the exports in the immediate subdirectories of root. Files
// directly under root and deeper levels are not considered. Jobs are sorted
// by input path.
func Discover(root string) ([]Job, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.WithPath(failure.Wrap(failure.ErrInputNotFound, err, "reading root directory"), root)
		}
		return nil, failure.WithPath(failure.Wrap(failure.ErrMalformedInput, err, "reading root directory"), root)
	}

	var jobs []Job
	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		if !isDir(dir) {
			continue
		}
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, failure.WithPath(failure.Wrap(failure.ErrMalformedInput, err, "reading directory"), dir)
		}
		for _, f := range files {
			if !strings.HasSuffix(strings.ToLower(f.Name()), inputExt) {
				continue
			}
			path := filepath.Join(dir, f.Name())
			if isDir(path) {
				continue
			}
			jobs = append(jobs, Job{Input: path, Output: OutputPath(path)})
		}
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Input < jobs[j].Input })
	return jobs, nil
}

// isDir follows symlinks.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Func converts a single job.
type Func func(ctx context.Context, job Job) (*convert.Result, error)

// Options control how Run schedules jobs.
type Options struct {
	// FailFast stops scheduling new jobs after the first failure.
	FailFast bool
	// Jobs is the number of files converted concurrently. Values below 1
	// mean 1.
	Jobs int
	// OnDone, if set, is called once per finished job. Calls never overlap.
	OnDone func(Outcome)
}

// Status of a job after Run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome is the result of one job.
type Outcome struct {
	Job
	Status Status          `json:"status"`
	Result *convert.Result `json:"result,omitempty"`
	Err    error           `json:"-"`
	Error  string          `json:"error,omitempty"`
}

// Report collects the outcomes of a run in job order.
type Report struct {
	Outcomes []Outcome `json:"files"`
}

// Run converts jobs with fn. A failing job is recorded and, unless
// opts.FailFast is set, the remaining jobs still run. Jobs that never start,
// because of fail-fast or a cancelled ctx, are reported as skipped. When two
// jobs share an output path, such as a.json and a.JSON, only the first one
// runs and the later one fails with failure.ErrIOWrite.
func Run(ctx context.Context, jobs []Job, fn Func, opts Options) *Report {
	rep := &Report{Outcomes: make([]Outcome, len(jobs))}
	for i, job := range jobs {
		rep.Outcomes[i] = Outcome{Job: job, Status: StatusSkipped}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Jobs, 1))

	writers := make(map[string]string, len(jobs))
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}

		// A second job writing the same CSV fails without running.
		var conflict error
		if first, taken := writers[job.Output]; taken {
			conflict = failure.WithPath(failure.New(failure.ErrIOWrite, "output %s is also written by %s", job.Output, first), job.Input)
		} else {
			writers[job.Output] = job.Input
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			var (
				res *convert.Result
				err = conflict
			)
			if err == nil {
				res, err = fn(gctx, job)
			}
			out := Outcome{Job: job, Status: StatusOK, Result: res}
			if err != nil {
				out = Outcome{Job: job, Status: StatusFailed, Err: err, Error: err.Error()}
			}
			rep.Outcomes[i] = out

			if opts.OnDone != nil {
				mu.Lock()
				opts.OnDone(out)
				mu.Unlock()
			}
			if err != nil && opts.FailFast {
				return err
			}
			return nil
		})
	}
	_ = g.Wait()

	return rep
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Failures returns the failed outcomes in job order.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}

// FirstError returns the error of the first failed job, or nil.
func (r *Report) FirstError() error {
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			return o.Err
		}
	}
	return nil
}

// Totals are the summed statistics of a run.
type Totals struct {
	convert.Stats
	Bytes int64 `json:"bytes"`
}

// Totals sums the statistics of every successful job.
func (r *Report) Totals() Totals {
	var t Totals
	for _, o := range r.Outcomes {
		if o.Result == nil {
			continue
		}
		t.Issues += o.Result.Issues
		t.Comments += o.Result.Comments
		t.Orphans += o.Result.Orphans
		t.Bytes += o.Result.Bytes
	}
	return t
}
