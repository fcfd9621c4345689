package domain

import "errors"

var (
	// Group errors
	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupExists      = errors.New("group already exists")
	ErrNotAGroupMember  = errors.New("address is not a member of the group")
	ErrMemberExists     = errors.New("address is already a member of the group")
	ErrMemberHasHistory = errors.New("member is referenced by recorded history")
	ErrEmptyRoster      = errors.New("group must have at least one member")

	// Amount and identity errors
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrInvalidAddress = errors.New("invalid address")

	// Expense errors
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrEmptyParticipants    = errors.New("expense must have at least one participant")
	ErrDuplicateParticipant = errors.New("duplicate participant in expense")

	// Settlement errors
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrSelfSettlement     = errors.New("cannot settle with yourself")
	ErrDuplicateReference = errors.New("external reference already recorded")

	// Mirror errors
	ErrOverpaymentRejected = errors.New("settlement would overpay past zero")
	ErrNotDebtor           = errors.New("caller has no outstanding debt")
	ErrNotCreditor         = errors.New("recipient has no outstanding credit")
	ErrReentrantCall       = errors.New("reentrant call rejected")
)
