package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gosettle/internal/domain"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileGroup(ctx context.Context, groupID string) (*domain.ReconciliationReport, error)
}

// ReconciliationHandler handles reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Reconcile replays mirror settlement events into the ledger and
// returns the drift report. The report is already JSON-shaped, so it
// goes out as is.
func (h *ReconciliationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	report, err := h.reconciliationUC.ReconcileGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile group", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}
