package acmatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gitrdm/acmatch/internal/parallel"
)

// Job is one independent top-level match request.
type Job struct {
	Expr    Id
	Pattern Pattern
}

// Result is the outcome of a Job. Subst is populated only when Matched is
// true. Err is set when the job hit a contract violation (wrapping
// ErrContractViolation) or was cancelled before it ran.
type Result struct {
	Matched bool
	Subst   *Substitution
	Err     error
}

// MatchBatch matches every job against arena on a pool of workers, each job
// starting from a fresh Substitution. Results are returned in job order.
// If workers is 0 or negative the pool uses one worker per CPU.
//
// The arena is only read; nobody may Insert into it until MatchBatch
// returns. A contract violation in one job is reported in that job's Result
// and does not affect the others. If ctx is cancelled, MatchBatch returns
// ctx.Err() along with whatever results were produced.
func (m *Matcher) MatchBatch(ctx context.Context, arena *Arena, jobs []Job, workers int) ([]Result, error) {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	pool := parallel.NewWorkerPool(workers)
	defer pool.Shutdown()

	m.logger.Debug("acmatch: batch started",
		slog.Int("jobs", len(jobs)),
		slog.Int("workers", pool.Workers()))

	var wg sync.WaitGroup
	var submitErr error
	for i := range jobs {
		i := i
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			results[i] = m.runJob(ctx, arena, jobs[i])
		})
		if err != nil {
			wg.Done()
			submitErr = err
			for j := i; j < len(jobs); j++ {
				results[j] = Result{Err: err}
			}
			break
		}
	}
	wg.Wait()

	if submitErr != nil {
		return results, submitErr
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (m *Matcher) runJob(ctx context.Context, arena *Arena, job Job) (res Result) {
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}
	defer func() {
		if r := recover(); r != nil {
			err := recoverViolation(r)
			m.logger.Warn("acmatch: job aborted", slog.String("error", err.Error()))
			res = Result{Err: fmt.Errorf("match %s against %s: %w", job.Pattern, job.Expr, err)}
		}
	}()
	s := NewSubstitution()
	if m.Match(arena, job.Expr, job.Pattern, s) {
		return Result{Matched: true, Subst: s}
	}
	return Result{}
}
