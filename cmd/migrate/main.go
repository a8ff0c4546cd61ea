package main

import (
	"context"
	"flag"
	"time"

	"github.com/dvignesh/smsledger/internal/category"
	"github.com/dvignesh/smsledger/internal/config"
	"github.com/dvignesh/smsledger/internal/logger"
	"github.com/dvignesh/smsledger/internal/store/bigquery"
)

// Sets up the BigQuery dataset for the worker: creates every table the
// repositories use and seeds the default categories on first run. Safe to
// rerun; existing tables and categories are left alone.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	project := flag.String("project", cfg.BigQueryProject, "GCP project ID")
	dataset := flag.String("dataset", cfg.BigQueryDataset, "BigQuery dataset ID")
	flag.Parse()

	if *project == "" {
		log.Fatal().Msg("Error: -project flag or SMSLEDGER_BQ_PROJECT is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	client, err := bigquery.NewClient(ctx, *project, *dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer client.Close()

	log.Info().Str("project", *project).Str("dataset", *dataset).Msg("Ensuring table schema")
	if err := client.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create tables")
	}

	seeded, err := category.EnsureSeeded(ctx, bigquery.NewCategoryRepository(client))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed categories")
	}
	if seeded > 0 {
		log.Info().Int("categories", seeded).Msg("Seeded default categories")
	} else {
		log.Info().Msg("Categories already present, seed skipped")
	}

	log.Info().Msg("Migration finished")
}
