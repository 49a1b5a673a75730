package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/sejin-dev/statement-converter/internal/convert"
	"github.com/sejin-dev/statement-converter/internal/extract"
	"github.com/sejin-dev/statement-converter/internal/gcsuploader"
	infraBQ "github.com/sejin-dev/statement-converter/internal/infra/bigquery"
	"github.com/sejin-dev/statement-converter/internal/jobs"
	"github.com/sejin-dev/statement-converter/internal/jobs/inmemory"
	"github.com/sejin-dev/statement-converter/internal/logger"
	"github.com/sejin-dev/statement-converter/internal/rules"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := infraBQ.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	defer repo.Close()

	svc := convert.NewService(rules.NewRegistry(), decimal.Zero, log)
	ingestor := &convert.Ingestor{
		Service:   svc,
		Extractor: extract.NewGeminiExtractor(),
		Repo:      repo,
		Fetch:     gcsuploader.FetchFromGCS,
	}

	// In production the in-memory queue would be replaced with Cloud Tasks
	// or Pub/Sub.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	log.Info().Msg("Starting worker service")

	handler := func(ctx context.Context, job jobs.Job) error {
		convJob, ok := job.(*jobs.ConvertStatementJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", convJob.JobID).
			Str("document_id", convJob.DocumentID).
			Str("file_uri", convJob.FileURI).
			Msg("Processing conversion job")

		ctx = logger.WithContext(ctx, log)
		if err := ingestor.IngestStatement(ctx, convJob.DocumentID, convJob.FileURI, convJob.BankID, convJob.MimeType); err != nil {
			log.Error().
				Err(err).
				Str("job_id", convJob.JobID).
				Str("document_id", convJob.DocumentID).
				Msg("Conversion pipeline failed")
			return err
		}

		log.Info().
			Str("job_id", convJob.JobID).
			Str("document_id", convJob.DocumentID).
			Msg("Conversion pipeline completed")

		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

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
