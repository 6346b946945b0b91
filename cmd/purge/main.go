// Package main provides the purge command, which deletes the store entities
// keyed by a CSV export.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"shopmigrate/internal/app"
	"shopmigrate/internal/config"
	"shopmigrate/internal/ingest"
	"shopmigrate/internal/migrate"
	"shopmigrate/internal/transformer"
)

func main() {
	os.Exit(run())
}

func run() int {
	entity := flag.String("entity", "products", "What to purge: products or customers")
	feedName := flag.String("feed", "catalog", "Product feed used to derive SKUs")
	dryRun := flag.Bool("dry-run", false, "Look entities up but do not delete them")
	profile := flag.String("profile", "", "Feed profile YAML (overrides FEED_PROFILE)")
	flag.Parse()

	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration:\n%v\n", err)
		return 1
	}

	cfg.DryRun = cfg.DryRun || *dryRun
	if *profile != "" {
		cfg.FeedProfile = *profile
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	ent := config.Entity(*entity)
	if ent != config.EntityProducts && ent != config.EntityCustomers {
		fmt.Fprintf(os.Stderr, "❌ -entity must be products or customers, got %q\n", *entity)
		flag.PrintDefaults()

		return 1
	}

	ctx := context.Background()

	rt, err := app.New(ctx, cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Startup failed: %v\n", err)
		return 1
	}
	defer rt.Close()

	rt.Log.Warn(fmt.Sprintf("🗑️  Purging %s", ent), "dry_run", cfg.DryRun)

	purger, table, err := build(ctx, rt, ent, *feedName)
	if err != nil {
		rt.Log.Error(fmt.Sprintf("❌ %v", err))
		return 1
	}

	if len(table.Rows) == 0 {
		rt.Log.Error(fmt.Sprintf("❌ %s has no data rows", table.Path))
		return 1
	}

	report, err := purger.Purge(ctx, table)
	if err != nil {
		rt.Log.Error(fmt.Sprintf("❌ Purge aborted: %v", err))
		return 1
	}

	if err := rt.Summarize(ctx, report, os.Stdout); err != nil {
		rt.Log.Warn(fmt.Sprintf("Failed to print summary: %v", err))
	}

	return 0
}

func build(ctx context.Context, rt *app.Runtime, ent config.Entity, feedName string) (*migrate.Purger, *ingest.Table, error) {
	if ent == config.EntityCustomers {
		feed := rt.Profile.Customers

		table, err := rt.Load(ctx, ent, feed.Delimiter)
		if err != nil {
			return nil, nil, err
		}

		return migrate.NewCustomerPurger(
			rt.Store,
			transformer.NewProcessor(feed.Mapping(), rt.Log),
			transformer.NewCustomerTransformer(feed.Feed(), rt.Normalizer, rt.Log),
			rt.Options(table.Path),
			rt.Log,
		), table, nil
	}

	feed, err := rt.Profile.ProductFeed(feedName)
	if err != nil {
		return nil, nil, err
	}

	table, err := rt.Load(ctx, ent, feed.Delimiter)
	if err != nil {
		return nil, nil, err
	}

	return migrate.NewProductPurger(
		rt.Store,
		transformer.NewProcessor(feed.Mapping(), rt.Log),
		transformer.NewProductTransformer(feed.Feed(feedName), rt.Normalizer, rt.Log),
		rt.Options(table.Path),
		rt.Log,
	), table, nil
}
