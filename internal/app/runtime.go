// Package app assembles the shared runtime of the migration commands from a
// validated configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"shopmigrate/internal/commerce"
	"shopmigrate/internal/config"
	"shopmigrate/internal/ingest"
	"shopmigrate/internal/journal"
	"shopmigrate/internal/logger"
	"shopmigrate/internal/migrate"
	"shopmigrate/internal/normalizer"
	"shopmigrate/internal/report"
	"shopmigrate/internal/telemetry"
)

// Runtime holds the collaborators of one command invocation.
type Runtime struct {
	Config     *config.Config
	Profile    *config.Profile
	Log        *logger.Logger
	Metrics    *telemetry.Metrics
	Journal    *journal.Journal
	Loader     *ingest.Loader
	Client     *commerce.GraphQLClient
	Store      *commerce.Store
	Normalizer *normalizer.Normalizer
	RunID      string

	closers []func() error
}

// New builds the runtime. cfg must already be validated; stderr receives the
// log, teed into RUN_LOG when set.
func New(ctx context.Context, cfg *config.Config, stderr io.Writer) (*Runtime, error) {
	rt := &Runtime{Config: cfg, RunID: uuid.NewString()}

	w := stderr
	if cfg.RunLog != "" {
		f, err := os.OpenFile(cfg.RunLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open run log %s: %w", cfg.RunLog, err)
		}

		rt.closers = append(rt.closers, f.Close)
		w = io.MultiWriter(stderr, f)
	}

	rt.Log = logger.NewLoggerWithWriter(cfg.LogLevel, w).With("run_id", rt.RunID)

	profile, err := config.LoadProfile(cfg.FeedProfile)
	if err != nil {
		return nil, errors.Join(err, rt.Close())
	}

	rt.Profile = profile
	rt.Normalizer = normalizer.New(profile.NormalizerTables(), rt.Log)

	rt.Metrics, err = telemetry.New()
	if err != nil {
		return nil, errors.Join(err, rt.Close())
	}

	rt.closers = append(rt.closers, func() error { return rt.Metrics.Shutdown(context.Background()) })

	if cfg.RunJournal != "" {
		rt.Journal, err = journal.Open(ctx, cfg.RunJournal)
		if err != nil {
			return nil, errors.Join(err, rt.Close())
		}

		rt.closers = append(rt.closers, rt.Journal.Close)
	}

	rt.Loader = ingest.NewLoader(rt.Log).WithWeb(ingest.NewHTTPSource(ingest.HTTPConfig{Token: cfg.SourceToken}))
	rt.Client = commerce.NewGraphQLClient(cfg.Endpoint, cfg.Token, commerce.Options{
		Metrics:       rt.Metrics,
		LowWater:      cfg.CostLowWater,
		ThrottlePause: cfg.ThrottlePause,
		RateLimit:     cfg.RateLimitRPS,
	}, rt.Log)
	rt.Store = commerce.NewStore(rt.Client, cfg.LocationID, rt.Log)

	return rt, nil
}

// Load reads the CSV configured for entity, using delimiter when set.
func (rt *Runtime) Load(ctx context.Context, entity config.Entity, delimiter string) (*ingest.Table, error) {
	pattern, err := rt.Config.Source(entity)
	if err != nil {
		return nil, err
	}

	if ingest.IsS3(pattern) && rt.Loader.Remote == nil {
		src, err := ingest.NewS3Source(ctx, ingest.S3Config{Region: rt.Config.AWSRegion})
		if err != nil {
			return nil, err
		}

		rt.Loader.WithRemote(src)
	}

	return rt.Loader.Load(ctx, pattern, config.Comma(delimiter))
}

// Options returns the run options derived from the configuration.
func (rt *Runtime) Options(source string) migrate.Options {
	return migrate.Options{
		Journal:       rt.Journal,
		Metrics:       rt.Metrics,
		RunID:         rt.RunID,
		Source:        source,
		Window:        rt.Config.Window(),
		MaxConcurrent: rt.Config.MaxConcurrent,
		Delay:         rt.Config.RequestDelay,
		DryRun:        rt.Config.DryRun,
	}
}

// WarnMissingLocation logs when product quantities cannot be set.
func (rt *Runtime) WarnMissingLocation() {
	if rt.Config.LocationID == "" {
		rt.Log.Warn("⚠️  "+config.ErrMissingLocation.Error(), "effect", "on-hand quantities are left untouched")
	}
}

// Summarize renders the end-of-run summary of r to w.
func (rt *Runtime) Summarize(ctx context.Context, r *migrate.Report, w io.Writer) error {
	counters, err := rt.Metrics.Snapshot(ctx)
	if err != nil {
		rt.Log.Warn("Failed to collect metrics", "error", err)
	}

	if remaining, ok := rt.Client.Budget(); ok {
		rt.Log.Info("Remaining cost budget", "remaining", remaining)
	}

	if r.HasMore {
		next := r.NextWindow()
		rt.Log.Info(fmt.Sprintf("➡️  More rows remain: rerun with START_ROW=%d BATCH_SIZE=%d", next.Start, next.Size))
	}

	s := &report.Summary{
		Stats:    r.Stats,
		Counters: counters,
		RunID:    r.RunID,
		Entity:   r.Entity,
		Source:   r.Source,
		Failures: r.Failures,
		DryRun:   r.DryRun,
	}

	return s.Render(w)
}

// Close releases the run log, the journal and the metrics provider.
func (rt *Runtime) Close() error {
	var errs []error

	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}

	rt.closers = nil

	return errors.Join(errs...)
}
