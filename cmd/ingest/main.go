package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvignesh/smsledger/internal/account"
	"github.com/dvignesh/smsledger/internal/category"
	"github.com/dvignesh/smsledger/internal/config"
	"github.com/dvignesh/smsledger/internal/dedup"
	"github.com/dvignesh/smsledger/internal/ingest"
	"github.com/dvignesh/smsledger/internal/logger"
	"github.com/dvignesh/smsledger/internal/pipeline"
	"github.com/dvignesh/smsledger/internal/store/bigquery"
	"github.com/dvignesh/smsledger/internal/store/memory"
)

func main() {
	log := logger.New()

	backupPath := flag.String("backup", "", "Backup XML to ingest: local path or gs://bucket/object")
	flag.Parse()

	if *backupPath == "" {
		log.Fatal().Msg("Error: --backup is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	deps, closeStores, err := buildDeps(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize stores")
	}
	defer closeStores()

	log.Info().Str("backup", *backupPath).Msg("Starting backup ingestion")

	data, err := ingest.ReadBackup(ctx, *backupPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read backup")
	}
	messages, dropped, err := ingest.DecodeBackup(bytes.NewReader(data))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to decode backup")
	}
	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("Some backup entries were malformed and skipped")
	}

	processor := pipeline.NewProcessor(deps)

	var recorded, skipped, failed int
	for _, msg := range messages {
		outcome, err := processor.Process(ctx, msg, config.SourceBackup)
		if err != nil {
			failed++
			continue
		}
		switch outcome.Status {
		case pipeline.StatusRecorded:
			recorded++
		case pipeline.StatusSkipped:
			skipped++
		}
	}

	log.Info().
		Int("total", len(messages)).
		Int("recorded", recorded).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Backup ingestion finished")

	fmt.Printf("Ingested %d messages: %d recorded, %d skipped, %d failed.\n",
		len(messages), recorded, skipped, failed)
}

// buildDeps mirrors the worker wiring: BigQuery-backed stores when a project
// is configured, in-memory stores otherwise.
func buildDeps(ctx context.Context, cfg *config.Config) (pipeline.Deps, func(), error) {
	settings := memory.NewSettingsStore()
	if err := cfg.ApplySettings(ctx, settings); err != nil {
		return pipeline.Deps{}, nil, err
	}

	if cfg.BigQueryProject != "" {
		client, err := bigquery.NewClient(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
		if err != nil {
			return pipeline.Deps{}, nil, err
		}
		txns := bigquery.NewTransactionRepository(client)
		accounts := bigquery.NewAccountRepository(client)
		deps := pipeline.Deps{
			Ledger:    bigquery.NewLedger(client, txns),
			Settings:  settings,
			Syntactic: dedup.NewSyntactic(bigquery.NewSyntacticMarkerRepository(client), cfg.SyntacticCap),
			Semantic: dedup.NewSemantic(
				txns,
				bigquery.NewEventMarkerRepository(client),
				bigquery.NewContentMarkerRepository(client),
				cfg.DedupWindow,
				dedup.DefaultAmountTolerance,
			),
			Accounts:   account.NewResolver(accounts, txns, settings),
			Categories: category.NewResolver(bigquery.NewCategoryRepository(client)),
		}
		return deps, func() { _ = client.Close() }, nil
	}

	txns := memory.NewTransactionStore()
	accounts := memory.NewAccountStore()
	deps := pipeline.Deps{
		Ledger:    memory.NewLedger(txns, accounts),
		Settings:  settings,
		Syntactic: dedup.NewSyntactic(memory.NewMarkerStore(), cfg.SyntacticCap),
		Semantic: dedup.NewSemantic(
			txns,
			memory.NewMarkerStore(),
			memory.NewMarkerStore(),
			cfg.DedupWindow,
			dedup.DefaultAmountTolerance,
		),
		Accounts:   account.NewResolver(accounts, txns, settings),
		Categories: category.NewResolver(memory.NewCategoryStore(category.DefaultCategories())),
	}
	return deps, func() {}, nil
}
