// Package handlers exposes the rule catalog, the conversion engine and the
// upload/convert job surface over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sejin-dev/statement-converter/internal/api/middleware"
	"github.com/sejin-dev/statement-converter/internal/rules"
)

// RulesHandler serves the per-bank rule catalog.
type RulesHandler struct {
	registry *rules.Registry
	now      func() time.Time
	log      zerolog.Logger
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(registry *rules.Registry, log zerolog.Logger) *RulesHandler {
	return &RulesHandler{
		registry: registry,
		now:      time.Now,
		log:      log,
	}
}

// ListRules handles GET /api/rules
func (h *RulesHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	summaries := h.registry.List(h.now())

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"rules": summaries,
		"count": len(summaries),
	})
}

// GetRule handles GET /api/rules/{bankId}
func (h *RulesHandler) GetRule(w http.ResponseWriter, r *http.Request, bankID string) {
	rule, err := h.registry.Get(bankID)
	if err != nil {
		if errors.Is(err, rules.ErrRuleNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Rule not found")
			return
		}
		h.log.Error().Err(err).Str("bank_id", bankID).Msg("Failed to load rule")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load rule")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"rule":              rule,
		"validation_status": rules.Validate(rule, h.now()),
	})
}
