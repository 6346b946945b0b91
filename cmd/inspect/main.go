// Package main provides the inspect command for exploring CSV exports: row
// counts, columns, distinct values, row filters and per-value splits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"shopmigrate/internal/config"
	"shopmigrate/internal/ingest"
	"shopmigrate/internal/logger"
	"shopmigrate/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	file := flag.String("file", "", "CSV file, glob pattern, s3:// or http(s):// location (required)")
	column := flag.String("column", "", "List the distinct values of this column")
	where := flag.String("where", "", "Keep only rows where column=value (case-insensitive)")
	split := flag.String("split", "", "Write one CSV per distinct value of this column")
	out := flag.String("out", ".", "Output directory for -split")
	delimiter := flag.String("delimiter", "", "Field delimiter (auto-detected when empty)")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: -file flag is required")
		fmt.Println("Usage: inspect -file <path> [-where col=value] [-column name] [-split name -out dir]")
		flag.PrintDefaults()

		return 1
	}

	log := logger.NewLogger(*logLevel)
	ctx := context.Background()

	loader := ingest.NewLoader(log).WithWeb(ingest.NewHTTPSource(ingest.HTTPConfig{Token: os.Getenv("SOURCE_TOKEN")}))

	if ingest.IsS3(*file) {
		src, err := ingest.NewS3Source(ctx, ingest.S3Config{Region: os.Getenv("AWS_REGION")})
		if err != nil {
			log.Error(fmt.Sprintf("❌ %v", err))
			return 1
		}

		loader.WithRemote(src)
	}

	table, err := loader.Load(ctx, *file, config.Comma(*delimiter))
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to load %s: %v", *file, err))
		return 1
	}

	if *where != "" {
		name, value, ok := strings.Cut(*where, "=")
		if !ok {
			log.Error(fmt.Sprintf("❌ -where must look like column=value, got %q", *where))
			return 1
		}

		table, err = table.Filter(strings.TrimSpace(name), strings.TrimSpace(value))
		if err != nil {
			log.Error(fmt.Sprintf("❌ %v", err))
			return 1
		}
	}

	if err := report.Columns(os.Stdout, table); err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		return 1
	}

	if *column != "" {
		values, err := table.Distinct(*column)
		if err != nil {
			log.Error(fmt.Sprintf("❌ %v", err))
			return 1
		}

		fmt.Println()

		if err := report.Distinct(os.Stdout, *column, values); err != nil {
			log.Error(fmt.Sprintf("❌ %v", err))
			return 1
		}
	}

	if *split != "" {
		paths, err := table.Split(*split, *out)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Split failed: %v", err))
			return 1
		}

		for _, p := range paths {
			log.Info(fmt.Sprintf("✅ Wrote %s", p))
		}
	}

	return 0
}
