package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrSettlementNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateReference),
		errors.Is(err, domain.ErrMemberExists),
		errors.Is(err, domain.ErrMemberHasHistory),
		errors.Is(err, domain.ErrGroupExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotAGroupMember),
		errors.Is(err, domain.ErrOverpaymentRejected),
		errors.Is(err, domain.ErrNotDebtor),
		errors.Is(err, domain.ErrNotCreditor):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrEmptyParticipants),
		errors.Is(err, domain.ErrDuplicateParticipant),
		errors.Is(err, domain.ErrSelfSettlement),
		errors.Is(err, domain.ErrEmptyRoster):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
