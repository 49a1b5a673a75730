package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sejin-dev/statement-converter/internal/api/middleware"
	"github.com/sejin-dev/statement-converter/internal/gcsuploader"
	infra "github.com/sejin-dev/statement-converter/internal/infra/bigquery"
	"github.com/sejin-dev/statement-converter/internal/jobs"
)

// StatementsHandler handles statement file endpoints: upload, listing, and
// queueing the extraction + conversion pipeline.
type StatementsHandler struct {
	repo      infra.Repository
	publisher jobs.Publisher
	bucket    string
	log       zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(repo infra.Repository, publisher jobs.Publisher, bucket string, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		repo:      repo,
		publisher: publisher,
		bucket:    bucket,
		log:       log,
	}
}

// ListStatements handles GET /api/statements
func (h *StatementsHandler) ListStatements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documents, err := h.repo.ListAllDocuments(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list statements")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list statements")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"statements": documents,
		"count":      len(documents),
	})
}

// CreateUploadURL handles POST /api/statements/upload-url
func (h *StatementsHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
		BankID      string `json:"bank_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Filename == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Filename is required")
		return
	}

	objectName := fmt.Sprintf("statements/%s/%s", time.Now().Format("2006/01/02"), uuid.New().String()+"-"+req.Filename)
	gcsURI := fmt.Sprintf("gs://%s/%s", h.bucket, objectName)
	documentID := uuid.New().String()

	// Local development uploads go through this service with the caller's
	// credentials; production would hand back a signed URL instead.
	uploadURL := fmt.Sprintf("/api/statements/upload/%s?object_name=%s&filename=%s&bank_id=%s",
		documentID, url.QueryEscape(objectName), url.QueryEscape(req.Filename), url.QueryEscape(req.BankID))

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"upload_url":  uploadURL,
		"gcs_uri":     gcsURI,
		"object_name": objectName,
		"document_id": documentID,
	})
}

// Upload handles POST /api/statements/upload/{documentId}. The request body
// is the raw statement file.
func (h *StatementsHandler) Upload(w http.ResponseWriter, r *http.Request, documentID string) {
	ctx := r.Context()

	objectName := r.URL.Query().Get("object_name")
	if objectName == "" {
		middleware.WriteError(w, http.StatusBadRequest, "object_name is required")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	gcsURI := fmt.Sprintf("gs://%s/%s", h.bucket, objectName)

	written, err := gcsuploader.Upload(ctx, h.bucket, objectName, contentType, r.Body)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to upload statement file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	h.log.Info().
		Str("document_id", documentID).
		Str("gcs_uri", gcsURI).
		Int64("bytes", written).
		Msg("Statement file uploaded")

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "statement.pdf"
	}
	if idx := strings.Index(filename, "?"); idx > 0 {
		filename = filename[:idx]
	}
	filename = filepath.Base(filename)

	doc := &infra.DocumentRow{
		DocumentID:       documentID,
		GCSURI:           gcsURI,
		BankID:           r.URL.Query().Get("bank_id"),
		UploadTS:         time.Now(),
		ConversionStatus: "PENDING",
		OriginalFilename: filename,
		FileMimeType:     contentType,
	}

	if err := h.repo.InsertDocument(ctx, doc); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert statement metadata")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save statement metadata")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"document_id": documentID,
		"gcs_uri":     gcsURI,
		"status":      "uploaded",
	})
}

// EnqueueConvert handles POST /api/statements/parse
func (h *StatementsHandler) EnqueueConvert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentID string `json:"document_id"`
		GCSURI     string `json:"gcs_uri"`
		BankID     string `json:"bank_id"`
		MimeType   string `json:"mime_type"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DocumentID == "" || req.GCSURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "document_id and gcs_uri are required")
		return
	}

	ctx := r.Context()

	job := &jobs.ConvertStatementJob{
		DocumentID: req.DocumentID,
		FileURI:    req.GCSURI,
		BankID:     req.BankID,
		MimeType:   req.MimeType,
	}

	if err := h.publisher.PublishConvertStatement(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue conversion job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue conversion job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("document_id", req.DocumentID).Msg("Conversion job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":      job.JobID,
		"document_id": req.DocumentID,
		"status":      string(job.Status),
	})
}
