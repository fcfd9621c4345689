package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	RecordSettlement(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Settlement, error)
	GetSettlement(ctx context.Context, id string) (*domain.Settlement, error)
	ListSettlements(ctx context.Context, input usecase.ListSettlementsInput) ([]*domain.Settlement, error)
}

// SettlementHandler handles settlement-related HTTP requests.
type SettlementHandler struct {
	settlementUC SettlementService
	scale        int32
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService, scale int32) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC, scale: scale}
}

// Record records a repayment. A replayed external reference answers
// 409 without touching the original settlement.
func (h *SettlementHandler) Record(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	var req dto.RecordSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(groupID, h.scale)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid settlement request", err.Error())
		return
	}

	settlement, err := h.settlementUC.RecordSettlement(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SettlementFromDomain(settlement, h.scale))
}

// Get retrieves a settlement by ID.
func (h *SettlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "settlementID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing settlement ID", "")
		return
	}

	settlement, err := h.settlementUC.GetSettlement(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(settlement, h.scale))
}

// ListByGroup lists a group's settlements, newest first.
func (h *SettlementHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	settlements, err := h.settlementUC.ListSettlements(r.Context(), usecase.ListSettlementsInput{
		GroupID: groupID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list settlements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListSettlementsResponse{
		Settlements: dto.SettlementsFromDomain(settlements, h.scale),
		Total:       int64(len(settlements)),
	})
}
