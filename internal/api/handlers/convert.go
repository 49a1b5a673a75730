package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sejin-dev/statement-converter/internal/api/middleware"
	"github.com/sejin-dev/statement-converter/internal/convert"
	"github.com/sejin-dev/statement-converter/internal/export"
	infra "github.com/sejin-dev/statement-converter/internal/infra/bigquery"
)

// ConvertHandler runs raw extracted statements through the engine, either
// returning the normalized table as JSON or as a highlighted spreadsheet.
type ConvertHandler struct {
	svc  *convert.Service
	repo infra.Repository // nil disables the audit trail (local runs)
	log  zerolog.Logger
}

// NewConvertHandler creates a new conversion handler.
func NewConvertHandler(svc *convert.Service, repo infra.Repository, log zerolog.Logger) *ConvertHandler {
	return &ConvertHandler{
		svc:  svc,
		repo: repo,
		log:  log,
	}
}

// Convert handles POST /api/convert. The request body is the raw extraction
// payload; ?strict=true makes unmatched required columns a 422 instead of a
// diagnostic. The response always carries the full diagnostics bundle.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convert.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Headers) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "headers are required")
		return
	}
	if r.URL.Query().Get("strict") == "true" {
		req.Strict = true
	}

	result, err := h.svc.Convert(r.Context(), req)
	if err != nil {
		var matchErr *convert.ColumnMatchError
		if errors.As(err, &matchErr) {
			// The result still holds complete diagnostics; return it
			// alongside the failure so the caller can show what is
			// missing.
			middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  matchErr.Error(),
				"result": result,
			})
			return
		}
		h.log.Error().Err(err).Msg("Conversion failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Conversion failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

type exportRequest struct {
	convert.Request
	DocumentID string `json:"document_id,omitempty"`
}

// Export handles POST /api/export. Exports always run strict, produce the
// highlighted workbook, and record an audit entry with the row counts.
func (h *ConvertHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Headers) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "headers are required")
		return
	}
	req.Strict = true

	result, err := h.svc.Convert(r.Context(), req.Request)
	if err != nil {
		var matchErr *convert.ColumnMatchError
		if errors.As(err, &matchErr) {
			middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  matchErr.Error(),
				"result": result,
			})
			return
		}
		h.log.Error().Err(err).Msg("Conversion failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Conversion failed")
		return
	}

	wb, summary, err := export.Workbook(result.Transactions, result.HighlightedRows)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build workbook")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build workbook")
		return
	}

	if h.repo != nil {
		entry := &infra.AuditEntryRow{
			DocumentID:       req.DocumentID,
			BankID:           result.Diagnostics.BankID,
			RowCount:         summary.RowCount,
			HighlightedCount: summary.HighlightedCount,
			FindingCount:     len(result.Diagnostics.ContinuityIssues),
		}
		if err := h.repo.InsertAuditEntry(r.Context(), entry); err != nil {
			// The export itself succeeded; losing one audit row is an
			// operator problem, not a user-facing failure.
			h.log.Error().Err(err).Msg("Failed to record audit entry")
		}
	}

	filename := fmt.Sprintf("statement-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	if err := wb.Write(w); err != nil {
		h.log.Error().Err(err).Msg("Failed to stream workbook")
	}

	h.log.Info().
		Str("bank_id", result.Diagnostics.BankID).
		Int("rows", summary.RowCount).
		Int("highlighted", summary.HighlightedCount).
		Msg("Statement exported")
}
