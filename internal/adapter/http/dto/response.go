package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Creator   string    `json:"creator"`
	Members   []string  `json:"members"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupFromDomain converts a domain group to a response.
func GroupFromDomain(g *domain.Group) *GroupResponse {
	members := make([]string, len(g.Members))
	for i, m := range g.Members {
		members[i] = m.String()
	}

	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Creator:   g.Creator.String(),
		Members:   members,
		Version:   g.Version,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// GroupsFromDomain converts domain groups to responses.
func GroupsFromDomain(groups []*domain.Group) []*GroupResponse {
	result := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		result[i] = GroupFromDomain(g)
	}
	return result
}

// ExpenseResponse represents an expense in API responses. Share and
// Remainder expose the floor division: share*participants + remainder
// equals the amount, and the remainder stays with no one.
type ExpenseResponse struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id"`
	Payer        string          `json:"payer"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
	Participants []string        `json:"participants"`
	Share        decimal.Decimal `json:"share"`
	Remainder    decimal.Decimal `json:"remainder"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts a domain expense to a response, rendering
// base units as decimals at the given scale.
func ExpenseFromDomain(e *domain.Expense, scale int32) *ExpenseResponse {
	participants := make([]string, len(e.Participants))
	for i, p := range e.Participants {
		participants[i] = p.String()
	}

	return &ExpenseResponse{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Payer:        e.Payer.String(),
		Amount:       e.Amount.Decimal(scale),
		Description:  e.Description,
		Participants: participants,
		Share:        e.Share().Decimal(scale),
		Remainder:    e.Remainder().Decimal(scale),
		CreatedAt:    e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense, scale int32) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e, scale)
	}
	return result
}

// SettlementResponse represents a settlement in API responses.
type SettlementResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	ExternalRef *string         `json:"external_ref,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SettlementFromDomain converts a domain settlement to a response.
func SettlementFromDomain(s *domain.Settlement, scale int32) *SettlementResponse {
	return &SettlementResponse{
		ID:          s.ID,
		GroupID:     s.GroupID,
		From:        s.From.String(),
		To:          s.To.String(),
		Amount:      s.Amount.Decimal(scale),
		ExternalRef: s.ExternalRef,
		CreatedAt:   s.CreatedAt,
	}
}

// SettlementsFromDomain converts domain settlements to responses.
func SettlementsFromDomain(settlements []*domain.Settlement, scale int32) []*SettlementResponse {
	result := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		result[i] = SettlementFromDomain(s, scale)
	}
	return result
}

// MemberBalanceResponse represents one member's net balance.
type MemberBalanceResponse struct {
	Member  string          `json:"member"`
	Balance decimal.Decimal `json:"balance"`
}

// BalancesResponse represents a group balance sheet at one version.
type BalancesResponse struct {
	GroupID  string                  `json:"group_id"`
	Version  int64                   `json:"version"`
	Balances []MemberBalanceResponse `json:"balances"`
}

// BalancesFromUseCase converts a balance sheet to a response, keeping
// roster order.
func BalancesFromUseCase(b *usecase.GroupBalances, scale int32) *BalancesResponse {
	balances := make([]MemberBalanceResponse, len(b.Balances))
	for i, mb := range b.Balances {
		balances[i] = MemberBalanceResponse{
			Member:  mb.Member.String(),
			Balance: mb.Balance.Decimal(scale),
		}
	}

	return &BalancesResponse{
		GroupID:  b.GroupID,
		Version:  b.Version,
		Balances: balances,
	}
}

// MemberBalanceFromDomain converts a single member balance.
func MemberBalanceFromDomain(mb *domain.MemberBalance, scale int32) *MemberBalanceResponse {
	return &MemberBalanceResponse{
		Member:  mb.Member.String(),
		Balance: mb.Balance.Decimal(scale),
	}
}

// SimplifiedDebtResponse represents one transfer of a settlement plan.
type SimplifiedDebtResponse struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// SettlementPlanResponse represents a debt simplification plan. The
// plan is advisory and never persisted.
type SettlementPlanResponse struct {
	GroupID   string                   `json:"group_id"`
	Transfers []SimplifiedDebtResponse `json:"transfers"`
	Count     int                      `json:"count"`
}

// SettlementPlanFromDomain converts a simplification plan to a response.
func SettlementPlanFromDomain(groupID string, debts []domain.SimplifiedDebt, scale int32) *SettlementPlanResponse {
	transfers := make([]SimplifiedDebtResponse, len(debts))
	for i, d := range debts {
		transfers[i] = SimplifiedDebtResponse{
			From:   d.From.String(),
			To:     d.To.String(),
			Amount: d.Amount.Decimal(scale),
		}
	}

	return &SettlementPlanResponse{
		GroupID:   groupID,
		Transfers: transfers,
		Count:     len(transfers),
	}
}

// ListGroupsResponse wraps a page of groups.
type ListGroupsResponse struct {
	Groups []*GroupResponse `json:"groups"`
	Total  int64            `json:"total"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    int64              `json:"total"`
}

// ListSettlementsResponse wraps a page of settlements.
type ListSettlementsResponse struct {
	Settlements []*SettlementResponse `json:"settlements"`
	Total       int64                 `json:"total"`
}

// UserResponse represents an authenticated principal.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserFromDomain converts a domain user to a response DTO.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	}
}

// LoginResponse represents an issued access token and its principal.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
