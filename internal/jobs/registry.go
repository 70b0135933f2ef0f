package jobs

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"

	"github.com/fedesecco/skibidi-bot/internal/logger"
	"github.com/fedesecco/skibidi-bot/internal/metrics"
)

// Job is a named piece of scheduled work that can also be run by hand.
type Job struct {
	ID  string
	Run func(ctx context.Context) error
}

// Registry resolves jobs by id.
type Registry struct {
	jobs map[string]Job
}

func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{jobs: make(map[string]Job, len(jobs))}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.jobs))
	for id := range r.jobs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Run executes job id once.
func (r *Registry) Run(ctx context.Context, id string) error {
	j, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("unknown job %q (available: %s)", id, strings.Join(r.IDs(), ", "))
	}
	return j.Run(ctx)
}

// RunJobArgs is the river job that runs a registered Job.
type RunJobArgs struct {
	JobID string `json:"job_id"`
}

func (RunJobArgs) Kind() string { return "run_cron_job" }

// RunJobWorker runs registered jobs from the river queue.
type RunJobWorker struct {
	river.WorkerDefaults[RunJobArgs]
	registry *Registry
	metrics  *metrics.Manager
	log      logger.Logger
}

func NewRunJobWorker(r *Registry, m *metrics.Manager, log logger.Logger) *RunJobWorker {
	if log == nil {
		log = logger.Nop()
	}
	return &RunJobWorker{registry: r, metrics: m, log: log}
}

func (w *RunJobWorker) Work(ctx context.Context, job *river.Job[RunJobArgs]) error {
	id := job.Args.JobID
	if err := w.registry.Run(ctx, id); err != nil {
		w.metrics.IncJobRun(id, "error")
		w.log.Error(ctx, "cron job failed", logger.String("job", id), logger.Error(err))
		return err
	}
	w.metrics.IncJobRun(id, "ok")
	return nil
}

// PeriodicJob builds a river periodic job that enqueues id on a standard
// five-field cron schedule.
func PeriodicJob(id, schedule string) (*river.PeriodicJob, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q for %s: %w", schedule, id, err)
	}
	return river.NewPeriodicJob(
		sched,
		func() (river.JobArgs, *river.InsertOpts) {
			return RunJobArgs{JobID: id}, &river.InsertOpts{MaxAttempts: 1}
		},
		nil,
	), nil
}
