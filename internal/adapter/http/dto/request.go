package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// CreateGroupRequest represents a request to create a group.
type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Creator string   `json:"creator"`
	Members []string `json:"members"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGroupRequest) ToUseCaseInput() (usecase.CreateGroupInput, error) {
	creator, err := domain.ParseAddress(r.Creator)
	if err != nil {
		return usecase.CreateGroupInput{}, err
	}

	members, err := parseAddresses(r.Members)
	if err != nil {
		return usecase.CreateGroupInput{}, err
	}

	return usecase.CreateGroupInput{
		Name:    r.Name,
		Creator: creator,
		Members: members,
	}, nil
}

// AddMemberRequest represents a request to add a roster member.
type AddMemberRequest struct {
	Member string `json:"member"`
}

// Address parses the member address.
func (r *AddMemberRequest) Address() (domain.Address, error) {
	return domain.ParseAddress(r.Member)
}

// RecordExpenseRequest represents a request to record an expense.
type RecordExpenseRequest struct {
	Payer        string          `json:"payer"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
	Participants []string        `json:"participants"`
}

// ToUseCaseInput converts to use case input. The amount is converted to
// base units at the given scale; sub-scale residue is rejected.
func (r *RecordExpenseRequest) ToUseCaseInput(groupID string, scale int32) (usecase.RecordExpenseInput, error) {
	payer, err := domain.ParseAddress(r.Payer)
	if err != nil {
		return usecase.RecordExpenseInput{}, err
	}

	amount, err := domain.MoneyFromDecimal(r.Amount, scale)
	if err != nil {
		return usecase.RecordExpenseInput{}, err
	}

	participants, err := parseAddresses(r.Participants)
	if err != nil {
		return usecase.RecordExpenseInput{}, err
	}

	return usecase.RecordExpenseInput{
		GroupID:      groupID,
		Payer:        payer,
		Amount:       amount,
		Participants: participants,
		Description:  r.Description,
	}, nil
}

// RecordSettlementRequest represents a request to record a repayment.
// ExternalRef carries the mirror transfer reference for on-chain
// settlements and is omitted for manual ones.
type RecordSettlementRequest struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	ExternalRef *string         `json:"external_ref,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordSettlementRequest) ToUseCaseInput(groupID string, scale int32) (usecase.RecordSettlementInput, error) {
	from, err := domain.ParseAddress(r.From)
	if err != nil {
		return usecase.RecordSettlementInput{}, err
	}

	to, err := domain.ParseAddress(r.To)
	if err != nil {
		return usecase.RecordSettlementInput{}, err
	}

	amount, err := domain.MoneyFromDecimal(r.Amount, scale)
	if err != nil {
		return usecase.RecordSettlementInput{}, err
	}

	return usecase.RecordSettlementInput{
		GroupID:     groupID,
		From:        from,
		To:          to,
		Amount:      amount,
		ExternalRef: r.ExternalRef,
	}, nil
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func parseAddresses(raw []string) ([]domain.Address, error) {
	addrs := make([]domain.Address, 0, len(raw))
	for _, s := range raw {
		addr, err := domain.ParseAddress(s)
		if err != nil {
			return nil, err
		}

		addrs = append(addrs, addr)
	}

	return addrs, nil
}
