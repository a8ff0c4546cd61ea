package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"

	"github.com/dvignesh/smsledger/internal/account"
	"github.com/dvignesh/smsledger/internal/category"
	"github.com/dvignesh/smsledger/internal/config"
	"github.com/dvignesh/smsledger/internal/dedup"
	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/jobs"
	"github.com/dvignesh/smsledger/internal/jobs/inmemory"
	"github.com/dvignesh/smsledger/internal/logger"
	"github.com/dvignesh/smsledger/internal/pipeline"
	"github.com/dvignesh/smsledger/internal/store/bigquery"
	"github.com/dvignesh/smsledger/internal/store/memory"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	deps, closeStores, err := buildDeps(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize stores")
	}
	defer closeStores()

	processor := pipeline.NewProcessor(deps)

	// Initialize job store and queue
	// In production, this would be replaced with Cloud Tasks or Pub/Sub
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, cfg.Workers, jobStore)

	log.Info().
		Int("workers", cfg.Workers).
		Bool("bigquery", cfg.BigQueryProject != "").
		Msg("Starting worker service")

	handler := func(ctx context.Context, job jobs.Job) error {
		msgJob, ok := job.(*jobs.ProcessMessageJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", msgJob.JobID).
			Str("sender", msgJob.Sender).
			Str("source", msgJob.Source).
			Msg("Processing message job")

		msg := domain.Message{
			Sender:     msgJob.Sender,
			Body:       msgJob.Body,
			ReceivedAt: msgJob.ReceivedAt,
		}
		outcome, err := processor.Process(ctx, msg, msgJob.Source)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", msgJob.JobID).
				Msg("Message processing failed")
			return err
		}

		log.Info().
			Str("job_id", msgJob.JobID).
			Str("status", string(outcome.Status)).
			Str("reason", string(outcome.Reason)).
			Msg("Message processing completed")
		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	// Periodic marker cleanup keeps the dedup tables bounded.
	schedule := cron.New()
	cleanupLog := logger.ForComponent(log, "cleanup")
	err = schedule.AddFunc(cfg.CleanupSchedule, func() {
		now := time.Now().UTC()
		removed, err := deps.Syntactic.Cleanup(ctx, now, cfg.SyntacticRetention)
		if err != nil {
			cleanupLog.Error().Err(err).Msg("Syntactic marker cleanup failed")
		}
		semRemoved, err := deps.Semantic.Cleanup(ctx, now, cfg.ContentRetention)
		if err != nil {
			cleanupLog.Error().Err(err).Msg("Semantic marker cleanup failed")
		}
		cleanupLog.Debug().Int("removed", removed+semRemoved).Msg("Marker cleanup finished")
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.CleanupSchedule).Msg("Invalid cleanup schedule")
	}
	schedule.Start()
	defer schedule.Stop()

	log.Info().Msg("Worker service started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Worker service exited")
}

// buildDeps wires the pipeline collaborators over BigQuery when a project is
// configured, and over the in-memory stores otherwise. Source toggles and the
// default account come from the environment in both modes.
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
		categories := bigquery.NewCategoryRepository(client)
		syntactic := dedup.NewSyntactic(bigquery.NewSyntacticMarkerRepository(client), cfg.SyntacticCap)
		semantic := dedup.NewSemantic(
			txns,
			bigquery.NewEventMarkerRepository(client),
			bigquery.NewContentMarkerRepository(client),
			cfg.DedupWindow,
			dedup.DefaultAmountTolerance,
		)
		deps := pipeline.Deps{
			Ledger:     bigquery.NewLedger(client, txns),
			Settings:   settings,
			Syntactic:  syntactic,
			Semantic:   semantic,
			Accounts:   account.NewResolver(accounts, txns, settings),
			Categories: category.NewResolver(categories),
		}
		return deps, func() { _ = client.Close() }, nil
	}

	txns := memory.NewTransactionStore()
	accounts := memory.NewAccountStore()
	categories := memory.NewCategoryStore(category.DefaultCategories())
	deps := pipeline.Deps{
		Ledger:     memory.NewLedger(txns, accounts),
		Settings:   settings,
		Syntactic:  dedup.NewSyntactic(memory.NewMarkerStore(), cfg.SyntacticCap),
		Semantic: dedup.NewSemantic(
			txns,
			memory.NewMarkerStore(),
			memory.NewMarkerStore(),
			cfg.DedupWindow,
			dedup.DefaultAmountTolerance,
		),
		Accounts:   account.NewResolver(accounts, txns, settings),
		Categories: category.NewResolver(categories),
	}
	return deps, func() {}, nil
}
