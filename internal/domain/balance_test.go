package domain

import (
	"math/rand"
	"testing"
)

// testAddr builds a distinct address from a single byte, for fixtures.
func testAddr(b byte) Address {
	var a Address
	a[AddressLength-1] = b
	return a
}

func TestComputeBalances_SingleExpense(t *testing.T) {
	alice := testAddr(0x01)
	bob := testAddr(0x02)
	carol := testAddr(0x03)
	roster := []Address{alice, bob, carol}

	expenses := []*Expense{
		{Payer: alice, Amount: NewMoney(150), Participants: roster},
	}

	balances := ComputeBalances(roster, expenses, nil)

	want := map[Address]int64{alice: 100, bob: -50, carol: -50}
	for member, units := range want {
		if !balances[member].Equal(NewMoney(units)) {
			t.Errorf("%s: expected %d, got %s", member, units, balances[member])
		}
	}
	if !BalanceSum(balances).IsZero() {
		t.Errorf("balances must sum to zero, got %s", BalanceSum(balances))
	}
}

func TestComputeBalances_TwoExpenses(t *testing.T) {
	alice := testAddr(0x01)
	bob := testAddr(0x02)
	carol := testAddr(0x03)
	roster := []Address{alice, bob, carol}

	expenses := []*Expense{
		{Payer: alice, Amount: NewMoney(150), Participants: roster},
		{Payer: bob, Amount: NewMoney(60), Participants: roster},
	}

	balances := ComputeBalances(roster, expenses, nil)

	want := map[Address]int64{alice: 80, bob: -10, carol: -70}
	for member, units := range want {
		if !balances[member].Equal(NewMoney(units)) {
			t.Errorf("%s: expected %d, got %s", member, units, balances[member])
		}
	}
}

func TestComputeBalances_WithSettlement(t *testing.T) {
	alice := testAddr(0x01)
	bob := testAddr(0x02)
	carol := testAddr(0x03)
	roster := []Address{alice, bob, carol}

	expenses := []*Expense{
		{Payer: alice, Amount: NewMoney(150), Participants: roster},
	}
	settlements := []*Settlement{
		{From: bob, To: alice, Amount: NewMoney(50)},
	}

	balances := ComputeBalances(roster, expenses, settlements)

	want := map[Address]int64{alice: 50, bob: 0, carol: -50}
	for member, units := range want {
		if !balances[member].Equal(NewMoney(units)) {
			t.Errorf("%s: expected %d, got %s", member, units, balances[member])
		}
	}
	if !BalanceSum(balances).IsZero() {
		t.Errorf("balances must sum to zero, got %s", BalanceSum(balances))
	}
}

func TestComputeBalances_RoundingLoss(t *testing.T) {
	alice := testAddr(0x01)
	bob := testAddr(0x02)
	carol := testAddr(0x03)
	roster := []Address{alice, bob, carol}

	e := &Expense{Payer: alice, Amount: NewMoney(100), Participants: roster}
	balances := ComputeBalances(roster, []*Expense{e}, nil)

	// share = floor(100/3) = 33; the payer is credited 99, each
	// participant debited 33, and 1 base unit is dropped entirely.
	want := map[Address]int64{alice: 66, bob: -33, carol: -33}
	for member, units := range want {
		if !balances[member].Equal(NewMoney(units)) {
			t.Errorf("%s: expected %d, got %s", member, units, balances[member])
		}
	}

	debits := e.Share().MulCount(len(e.Participants))
	if !debits.Equal(e.Amount.Sub(e.Remainder())) {
		t.Errorf("debits %s should equal amount minus remainder %s", debits, e.Amount.Sub(e.Remainder()))
	}
	if !BalanceSum(balances).IsZero() {
		t.Errorf("ledger must stay closed despite rounding, got sum %s", BalanceSum(balances))
	}
}

func TestComputeBalances_RandomHistoryStaysClosed(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(6)
		roster := make([]Address, n)
		for i := range roster {
			roster[i] = testAddr(byte(i + 1))
		}

		var expenses []*Expense
		for i := 0; i < 1+rng.Intn(10); i++ {
			k := 1 + rng.Intn(n)
			participants := make([]Address, 0, k)
			for _, idx := range rng.Perm(n)[:k] {
				participants = append(participants, roster[idx])
			}
			expenses = append(expenses, &Expense{
				Payer:        roster[rng.Intn(n)],
				Amount:       NewMoney(int64(1 + rng.Intn(100000))),
				Participants: participants,
			})
		}

		var settlements []*Settlement
		for i := 0; i < rng.Intn(5); i++ {
			from, to := rng.Intn(n), rng.Intn(n)
			if from == to {
				continue
			}
			settlements = append(settlements, &Settlement{
				From:   roster[from],
				To:     roster[to],
				Amount: NewMoney(int64(1 + rng.Intn(10000))),
			})
		}

		balances := ComputeBalances(roster, expenses, settlements)
		if sum := BalanceSum(balances); !sum.IsZero() {
			t.Fatalf("trial %d: balances sum to %s, expected 0", trial, sum)
		}
	}
}

func TestOrderBalances(t *testing.T) {
	alice := testAddr(0x01)
	bob := testAddr(0x02)
	roster := []Address{bob, alice} // deliberate non-sorted roster order

	balances := map[Address]Money{alice: NewMoney(-10), bob: NewMoney(10)}
	ordered := OrderBalances(roster, balances)

	if len(ordered) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ordered))
	}
	if ordered[0].Member != bob || ordered[1].Member != alice {
		t.Error("expected roster order to be preserved")
	}
	if !ordered[0].Balance.Equal(NewMoney(10)) {
		t.Errorf("expected 10, got %s", ordered[0].Balance)
	}
}
