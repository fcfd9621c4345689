package domain

import (
	"errors"
	"testing"
)

func TestSettlement_Validate(t *testing.T) {
	alice := testAddr(0x01)
	bob := testAddr(0x02)

	tests := []struct {
		name        string
		settlement  Settlement
		expectError error
	}{
		{
			name:       "valid settlement",
			settlement: Settlement{From: bob, To: alice, Amount: NewMoney(50)},
		},
		{
			name:        "self settlement",
			settlement:  Settlement{From: alice, To: alice, Amount: NewMoney(50)},
			expectError: ErrSelfSettlement,
		},
		{
			name:        "zero amount",
			settlement:  Settlement{From: bob, To: alice, Amount: NewMoney(0)},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			settlement:  Settlement{From: bob, To: alice, Amount: NewMoney(-5)},
			expectError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settlement.Validate()
			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}
