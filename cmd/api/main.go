package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/sejin-dev/statement-converter/internal/api/handlers"
	"github.com/sejin-dev/statement-converter/internal/api/middleware"
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
	// .env is optional; deployed environments configure directly
	_ = godotenv.Load()

	var (
		port      = flag.String("port", "8080", "HTTP server port")
		bucket    = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for statement uploads (or set GCS_BUCKET env)")
		threshold = flag.String("highlight-threshold", os.Getenv("HIGHLIGHT_THRESHOLD"), "amount at or above which export rows are highlighted (KRW)")
	)
	flag.Parse()

	log := logger.New()

	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - statement uploads will be disabled")
	}

	highlightAt := decimal.Zero
	if *threshold != "" {
		var err error
		highlightAt, err = decimal.NewFromString(*threshold)
		if err != nil {
			log.Fatal().Err(err).Str("value", *threshold).Msg("Invalid highlight threshold")
		}
	}

	ctx := context.Background()

	repo, err := infraBQ.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	defer repo.Close()

	registry := rules.NewRegistry()
	svc := convert.NewService(registry, highlightAt, log)

	ingestor := &convert.Ingestor{
		Service:   svc,
		Extractor: extract.NewGeminiExtractor(),
		Repo:      repo,
		Fetch:     gcsuploader.FetchFromGCS,
	}

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
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

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	rulesHandler := handlers.NewRulesHandler(registry, log)
	convertHandler := handlers.NewConvertHandler(svc, repo, log)
	statementsHandler := handlers.NewStatementsHandler(repo, jobQueue, *bucket, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	// Rules endpoints
	mux.HandleFunc("/api/rules", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			rulesHandler.ListRules(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/rules/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			bankID := strings.TrimPrefix(r.URL.Path, "/api/rules/")
			if bankID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Bank ID is required")
				return
			}
			rulesHandler.GetRule(w, r, bankID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Conversion endpoints
	mux.HandleFunc("/api/convert", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			convertHandler.Convert(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/export", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			convertHandler.Export(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Statements endpoints
	mux.HandleFunc("/api/statements", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			statementsHandler.ListStatements(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/statements/upload-url", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.CreateUploadURL(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/statements/upload/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			documentID := strings.TrimPrefix(r.URL.Path, "/api/statements/upload/")
			if documentID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Document ID is required")
				return
			}
			statementsHandler.Upload(w, r, documentID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/statements/parse", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.EnqueueConvert(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	limiter := middleware.NewRateLimiter(120, time.Minute)

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					limiter.Middleware(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Server exited")
}
