package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/mirror"
)

func simAddr(b byte) domain.Address {
	var a domain.Address
	a[19] = b
	return a
}

func TestSimulatorSettleAndReplay(t *testing.T) {
	alice := simAddr(1)
	bob := simAddr(2)

	sim := NewSimulator(mirror.NewContract(NewLosslessTransfer()))
	if err := sim.CreateGroup("grp-1", alice, []domain.Address{alice, bob}); err != nil {
		t.Fatalf("create group: %v", err)
	}

	share, remainder, err := sim.AddExpense("grp-1", alice, domain.NewMoney(100), []domain.Address{alice, bob})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if share.String() != "50" || !remainder.IsZero() {
		t.Fatalf("share = %s remainder = %s, want 50 and 0", share.String(), remainder.String())
	}

	ev, err := sim.Settle("grp-1", bob, alice, domain.NewMoney(50))
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if ev.Ref == "" || ev.Seq != 1 {
		t.Fatalf("unexpected event: %+v", ev)
	}

	events, err := sim.SettlementEvents(context.Background(), "grp-1", 0, 10)
	if err != nil {
		t.Fatalf("settlement events: %v", err)
	}
	if len(events) != 1 || events[0].Ref != ev.Ref || events[0].Amount.String() != "50" {
		t.Fatalf("unexpected events: %+v", events)
	}

	balances, err := sim.GroupBalances(context.Background(), "grp-1")
	if err != nil {
		t.Fatalf("group balances: %v", err)
	}
	for addr, balance := range balances {
		if !balance.IsZero() {
			t.Errorf("balance for %s = %s, want 0", addr.String(), balance.String())
		}
	}
}

func TestSimulatorCursorSkipsReplayedEvents(t *testing.T) {
	alice := simAddr(1)
	bob := simAddr(2)
	carol := simAddr(3)

	sim := NewSimulator(mirror.NewContract(NewLosslessTransfer()))
	if err := sim.CreateGroup("grp-1", alice, []domain.Address{alice, bob, carol}); err != nil {
		t.Fatalf("create group: %v", err)
	}
	if _, _, err := sim.AddExpense("grp-1", alice, domain.NewMoney(150), []domain.Address{alice, bob, carol}); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	if _, err := sim.Settle("grp-1", bob, alice, domain.NewMoney(50)); err != nil {
		t.Fatalf("settle bob: %v", err)
	}
	if _, err := sim.Settle("grp-1", carol, alice, domain.NewMoney(50)); err != nil {
		t.Fatalf("settle carol: %v", err)
	}

	events, err := sim.SettlementEvents(context.Background(), "grp-1", 1, 10)
	if err != nil {
		t.Fatalf("settlement events: %v", err)
	}
	if len(events) != 1 || events[0].Seq != 2 {
		t.Fatalf("expected only the second event, got %+v", events)
	}
}

func TestSimulatorUnknownGroup(t *testing.T) {
	sim := NewSimulator(mirror.NewContract(nil))

	if _, err := sim.GroupBalances(context.Background(), "missing"); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	if _, err := sim.SettlementEvents(context.Background(), "missing", 0, 10); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}
