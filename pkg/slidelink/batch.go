package slidelink

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/models"
)

// Job is one independent export in a batch.
type Job struct {
	InPath  string
	OutPath string
	Meta    *models.PostProcessMeta
}

// JobResult pairs a job with its outcome.
type JobResult struct {
	Job    Job
	Report *models.Report
	Err    error
}

// ProcessBatch runs ProcessFile for every job with at most parallelism
// exports in flight. Exports share no state. A failed job does not stop the
// others; jobs that start after ctx is cancelled report its error.
// Results are returned in job order.
func ProcessBatch(ctx context.Context, jobs []Job, opts Options, parallelism int) ([]JobResult, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	results := make([]JobResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = JobResult{Job: job, Err: err}
				return nil
			}
			report, err := ProcessFile(job.InPath, job.OutPath, job.Meta, opts)
			results[i] = JobResult{Job: job, Report: report, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
