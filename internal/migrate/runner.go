// Package migrate wires loading, transformation and the remote store into
// per-entity import runs.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopmigrate/internal/batch"
	"shopmigrate/internal/journal"
	"shopmigrate/internal/logger"
	"shopmigrate/internal/models"
	"shopmigrate/internal/telemetry"
)

// ReasonDryRun is the skip reason of rows left untouched by a dry run.
const ReasonDryRun = "dry-run"

const progressEvery = 10

// Options configure one run. Journal and Metrics are optional.
type Options struct {
	Journal       *journal.Journal
	Metrics       *telemetry.Metrics
	RunID         string
	Source        string
	Window        batch.Window
	MaxConcurrent int
	Delay         time.Duration
	DryRun        bool
}

// Report is the result of a completed run.
type Report struct {
	Stats    *models.Statistics
	RunID    string
	Entity   string
	Source   string
	Failures []models.Outcome
	Start    int
	End      int
	Total    int
	HasMore  bool
	DryRun   bool
}

// NextWindow returns the window a follow-up run should use.
func (r *Report) NextWindow() batch.Window {
	return batch.Window{Start: r.End, Size: r.End - r.Start}
}

type rowFunc func(ctx context.Context, rec models.RawRecord) models.Outcome

type runner struct {
	opts   Options
	log    logger.Sink
	entity string
}

func newRunner(entity string, opts Options, log logger.Sink) runner {
	if log == nil {
		log = logger.Nop()
	}

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	return runner{opts: opts, log: logger.WithAttrs(log, "run_id", opts.RunID, "entity", entity), entity: entity}
}

// run selects the configured window of records and feeds every row through
// fn on the bounded executor. Per-row failures never abort the run.
func (r runner) run(ctx context.Context, records []models.RawRecord, fn rowFunc) (*Report, error) {
	sel := batch.Select(records, r.opts.Window)

	r.log.Info("📦 Selected rows",
		"start", sel.Start,
		"end", sel.End,
		"total", sel.Total,
		"has_more", sel.HasMore,
		"dry_run", r.opts.DryRun,
	)

	if r.opts.Journal != nil {
		err := r.opts.Journal.BeginRun(ctx, journal.Run{
			ID:     r.opts.RunID,
			Entity: r.entity,
			Source: r.opts.Source,
			DryRun: r.opts.DryRun,
		})
		if err != nil {
			return nil, err
		}
	}

	report := &Report{
		Stats:   models.NewStatistics(len(sel.Rows)),
		RunID:   r.opts.RunID,
		Entity:  r.entity,
		Source:  r.opts.Source,
		Start:   sel.Start,
		End:     sel.End,
		Total:   sel.Total,
		HasMore: sel.HasMore,
		DryRun:  r.opts.DryRun,
	}

	tasks := make([]batch.Task[models.Outcome], len(sel.Rows))
	for i, rec := range sel.Rows {
		tasks[i] = func(ctx context.Context) (models.Outcome, error) {
			o := fn(ctx, rec)
			return o, o.Err
		}
	}

	exec := &batch.Executor[models.Outcome]{
		MaxConcurrent: r.opts.MaxConcurrent,
		Delay:         r.opts.Delay,
		OnComplete: func(out batch.Outcome[models.Outcome]) {
			o := out.Value
			if o.Kind == "" {
				// the task panicked before producing an outcome
				o = models.Failed(sel.Rows[out.Index].Index, "", out.Err)
			}

			r.record(ctx, report, o)
		},
		OnProgress: func(done, total int, _ error) {
			if done%progressEvery == 0 || done == total {
				r.log.Info(fmt.Sprintf("Progress: %d/%d", done, total))
			}
		},
	}

	if _, err := exec.Run(ctx, tasks); err != nil {
		return nil, err
	}

	report.Stats.Finish()

	if r.opts.Journal != nil {
		if err := r.opts.Journal.FinishRun(ctx, r.opts.RunID, report.Stats); err != nil {
			r.log.Warn("Failed to finish journal run", "error", err)
		}
	}

	r.log.Info("✨ Run complete", "stats", report.Stats)

	return report, nil
}

// record is called from the executor's serialized completion callback.
func (r runner) record(ctx context.Context, report *Report, o models.Outcome) {
	report.Stats.Record(o)
	r.opts.Metrics.Outcome(ctx, r.entity, string(o.Kind))

	switch o.Kind {
	case models.OutcomeFailed:
		report.Failures = append(report.Failures, o)
		r.log.Error("❌ Row failed", "row", o.Row, "key", o.Key, "error", o.Err)
	case models.OutcomeSkipped:
		r.log.Debug("Row skipped", "row", o.Row, "key", o.Key, "reason", o.Reason)
	default:
		r.log.Debug("Row done", "row", o.Row, "key", o.Key, "outcome", o.Kind, "remote_id", o.RemoteID)
	}

	if r.opts.Journal != nil {
		if err := r.opts.Journal.Append(ctx, r.opts.RunID, o); err != nil {
			r.log.Warn("Failed to journal outcome", "row", o.Row, "error", err)
		}
	}
}
