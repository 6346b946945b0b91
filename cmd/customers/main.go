// Package main provides the customer import command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"shopmigrate/internal/app"
	"shopmigrate/internal/config"
	"shopmigrate/internal/migrate"
	"shopmigrate/internal/transformer"
)

func main() {
	os.Exit(run())
}

func run() int {
	dryRun := flag.Bool("dry-run", false, "Transform and look up only, never write to the store")
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

	ctx := context.Background()

	rt, err := app.New(ctx, cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Startup failed: %v\n", err)
		return 1
	}
	defer rt.Close()

	rt.Log.Info("🚀 Starting customer import", "config", cfg.String())

	feed := rt.Profile.Customers

	table, err := rt.Load(ctx, config.EntityCustomers, feed.Delimiter)
	if err != nil {
		rt.Log.Error(fmt.Sprintf("❌ Failed to load input: %v", err))
		return 1
	}

	if len(table.Rows) == 0 {
		rt.Log.Error(fmt.Sprintf("❌ %s has no data rows", table.Path))
		return 1
	}

	importer := migrate.NewCustomerImporter(
		rt.Store,
		transformer.NewProcessor(feed.Mapping(), rt.Log),
		transformer.NewCustomerTransformer(feed.Feed(), rt.Normalizer, rt.Log),
		rt.Options(table.Path),
		rt.Log,
	)

	report, err := importer.Import(ctx, table)
	if err != nil {
		rt.Log.Error(fmt.Sprintf("❌ Import aborted: %v", err))
		return 1
	}

	if err := rt.Summarize(ctx, report, os.Stdout); err != nil {
		rt.Log.Warn(fmt.Sprintf("Failed to print summary: %v", err))
	}

	return 0
}
