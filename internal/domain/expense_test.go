package domain

import (
	"errors"
	"testing"
)

func TestExpense_Validate(t *testing.T) {
	alice := testAddr(0x01)
	bob := testAddr(0x02)

	tests := []struct {
		name        string
		expense     Expense
		expectError error
	}{
		{
			name:    "valid expense",
			expense: Expense{Payer: alice, Amount: NewMoney(150), Participants: []Address{alice, bob}},
		},
		{
			name:        "zero amount",
			expense:     Expense{Payer: alice, Amount: NewMoney(0), Participants: []Address{alice, bob}},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			expense:     Expense{Payer: alice, Amount: NewMoney(-10), Participants: []Address{alice, bob}},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "no participants",
			expense:     Expense{Payer: alice, Amount: NewMoney(150)},
			expectError: ErrEmptyParticipants,
		},
		{
			name:        "duplicate participant",
			expense:     Expense{Payer: alice, Amount: NewMoney(150), Participants: []Address{bob, bob}},
			expectError: ErrDuplicateParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate()
			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestExpense_ShareAndRemainder(t *testing.T) {
	alice := testAddr(0x01)
	bob := testAddr(0x02)
	carol := testAddr(0x03)

	e := Expense{Payer: alice, Amount: NewMoney(100), Participants: []Address{alice, bob, carol}}

	if got := e.Share(); !got.Equal(NewMoney(33)) {
		t.Errorf("expected share 33, got %s", got)
	}
	if got := e.Remainder(); !got.Equal(NewMoney(1)) {
		t.Errorf("expected remainder 1, got %s", got)
	}

	// Remainder is bounded by participants-1.
	if e.Remainder().Cmp(NewMoney(int64(len(e.Participants)-1))) > 0 {
		t.Error("remainder exceeds participants-1")
	}
}
