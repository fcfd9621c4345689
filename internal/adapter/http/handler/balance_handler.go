package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetGroupBalances(ctx context.Context, groupID string) (*usecase.GroupBalances, error)
	GetMemberBalance(ctx context.Context, groupID string, member domain.Address) (*domain.MemberBalance, error)
	SimplifyDebts(ctx context.Context, groupID string) ([]domain.SimplifiedDebt, error)
}

// BalanceHandler handles balance and simplification HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
	scale     int32
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService, scale int32) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC, scale: scale}
}

// GetBalances returns every member's net balance in roster order.
func (h *BalanceHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	balances, err := h.balanceUC.GetGroupBalances(r.Context(), groupID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromUseCase(balances, h.scale))
}

// GetMemberBalance returns one member's net balance.
func (h *BalanceHandler) GetMemberBalance(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	member, err := domain.ParseAddress(chi.URLParam(r, "member"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member address", err.Error())
		return
	}

	balance, err := h.balanceUC.GetMemberBalance(r.Context(), groupID, member)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get member balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberBalanceFromDomain(balance, h.scale))
}

// SimplifyDebts returns the minimal transfer plan for the group's
// current balances. The plan is advice; nothing is recorded.
func (h *BalanceHandler) SimplifyDebts(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	debts, err := h.balanceUC.SimplifyDebts(r.Context(), groupID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to simplify debts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementPlanFromDomain(groupID, debts, h.scale))
}
