// Package main provides the product import command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"shopmigrate/internal/app"
	"shopmigrate/internal/config"
	"shopmigrate/internal/migrate"
	"shopmigrate/internal/transformer"
)

var errNoRows = errors.New("input file has no data rows")

func main() {
	os.Exit(run())
}

func run() int {
	feedName := flag.String("feed", "catalog", "Product feed name from the feed profile")
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

	log := rt.Log.With("feed", *feedName)
	log.Info("🚀 Starting product import", "config", cfg.String())

	feed, err := rt.Profile.ProductFeed(*feedName)
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		return 1
	}

	table, err := rt.Load(ctx, config.EntityProducts, feed.Delimiter)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to load input: %v", err))
		return 1
	}

	if len(table.Rows) == 0 {
		log.Error(fmt.Sprintf("❌ %s: %v", table.Path, errNoRows))
		return 1
	}

	rt.WarnMissingLocation()

	importer := migrate.NewProductImporter(
		rt.Store,
		transformer.NewProcessor(feed.Mapping(), log),
		transformer.NewProductTransformer(feed.Feed(*feedName), rt.Normalizer, log),
		rt.Options(table.Path),
		log,
	)

	report, err := importer.Import(ctx, table)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Import aborted: %v", err))
		return 1
	}

	if err := rt.Summarize(ctx, report, os.Stdout); err != nil {
		log.Warn(fmt.Sprintf("Failed to print summary: %v", err))
	}

	return 0
}
