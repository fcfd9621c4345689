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

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	RecordExpense(ctx context.Context, input usecase.RecordExpenseInput) (*usecase.RecordExpenseResult, error)
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.Expense, error)
}

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
	scale     int32
}

// NewExpenseHandler creates a new ExpenseHandler. scale is the number
// of decimal places one base unit represents in the API surface.
func NewExpenseHandler(expenseUC ExpenseService, scale int32) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC, scale: scale}
}

// Record records an expense against a group.
func (h *ExpenseHandler) Record(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	var req dto.RecordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(groupID, h.scale)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense request", err.Error())
		return
	}

	result, err := h.expenseUC.RecordExpense(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record expense", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(result.Expense, h.scale))
}

// Get retrieves an expense by ID.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "expenseID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	expense, err := h.expenseUC.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense, h.scale))
}

// ListByGroup lists a group's expenses, newest first.
func (h *ExpenseHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	expenses, err := h.expenseUC.ListExpenses(r.Context(), usecase.ListExpensesInput{
		GroupID: groupID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListExpensesResponse{
		Expenses: dto.ExpensesFromDomain(expenses, h.scale),
		Total:    int64(len(expenses)),
	})
}
