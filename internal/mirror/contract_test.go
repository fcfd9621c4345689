package mirror

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosettle/internal/domain"
)

func testAddr(b byte) domain.Address {
	var a domain.Address
	a[domain.AddressLength-1] = b
	return a
}

func newTestContract(t *testing.T) (*Contract, []domain.Address) {
	t.Helper()
	alice, bob, carol := testAddr(0x01), testAddr(0x02), testAddr(0x03)
	roster := []domain.Address{alice, bob, carol}

	c := NewContract(nil)
	require.NoError(t, c.CreateGroup("grp-1", alice, roster))
	return c, roster
}

func TestContract_CreateGroup(t *testing.T) {
	alice, bob := testAddr(0x01), testAddr(0x02)

	c := NewContract(nil)
	require.NoError(t, c.CreateGroup("grp-1", alice, []domain.Address{alice, bob}))

	err := c.CreateGroup("grp-1", alice, []domain.Address{alice})
	assert.ErrorIs(t, err, domain.ErrGroupExists)

	err = c.CreateGroup("grp-2", alice, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyRoster)

	err = c.CreateGroup("grp-3", alice, []domain.Address{bob})
	assert.ErrorIs(t, err, domain.ErrNotAGroupMember)

	err = c.CreateGroup("grp-4", alice, []domain.Address{alice, alice})
	assert.ErrorIs(t, err, domain.ErrMemberExists)
}

func TestContract_AddExpense(t *testing.T) {
	c, roster := newTestContract(t)
	alice, bob, carol := roster[0], roster[1], roster[2]

	share, remainder, err := c.AddExpense("grp-1", alice, big.NewInt(150), roster)
	require.NoError(t, err)
	assert.Equal(t, int64(50), share.Int64())
	assert.Equal(t, int64(0), remainder.Int64())

	balance := func(m domain.Address) int64 {
		b, err := c.MemberBalance("grp-1", m)
		require.NoError(t, err)
		return b.Int64()
	}
	assert.Equal(t, int64(100), balance(alice))
	assert.Equal(t, int64(-50), balance(bob))
	assert.Equal(t, int64(-50), balance(carol))

	// Second expense shifts the sheet without reopening it.
	_, _, err = c.AddExpense("grp-1", bob, big.NewInt(60), roster)
	require.NoError(t, err)
	assert.Equal(t, int64(80), balance(alice))
	assert.Equal(t, int64(-10), balance(bob))
	assert.Equal(t, int64(-70), balance(carol))
}

func TestContract_AddExpenseRounding(t *testing.T) {
	c, roster := newTestContract(t)

	share, remainder, err := c.AddExpense("grp-1", roster[0], big.NewInt(100), roster)
	require.NoError(t, err)
	assert.Equal(t, int64(33), share.Int64())
	assert.Equal(t, int64(1), remainder.Int64())

	all, err := c.AllBalances("grp-1")
	require.NoError(t, err)
	sum := new(big.Int)
	for _, b := range all {
		sum.Add(sum, b)
	}
	assert.Zero(t, sum.Sign(), "mirror balances must stay closed")
}

func TestContract_AddExpenseValidation(t *testing.T) {
	c, roster := newTestContract(t)
	outsider := testAddr(0x99)

	_, _, err := c.AddExpense("grp-1", roster[0], big.NewInt(0), roster)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, _, err = c.AddExpense("grp-1", roster[0], big.NewInt(10), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyParticipants)

	_, _, err = c.AddExpense("grp-1", outsider, big.NewInt(10), roster)
	assert.ErrorIs(t, err, domain.ErrNotAGroupMember)

	_, _, err = c.AddExpense("grp-1", roster[0], big.NewInt(10), []domain.Address{outsider})
	assert.ErrorIs(t, err, domain.ErrNotAGroupMember)

	_, _, err = c.AddExpense("grp-1", roster[0], big.NewInt(10), []domain.Address{roster[1], roster[1]})
	assert.ErrorIs(t, err, domain.ErrDuplicateParticipant)

	_, _, err = c.AddExpense("missing", roster[0], big.NewInt(10), roster)
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestContract_Settle(t *testing.T) {
	c, roster := newTestContract(t)
	alice, bob := roster[0], roster[1]

	_, _, err := c.AddExpense("grp-1", alice, big.NewInt(150), roster)
	require.NoError(t, err)

	ev, err := c.Settle("grp-1", bob, alice, big.NewInt(50))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), ev.Seq)
	assert.Equal(t, bob, ev.From)
	assert.Equal(t, alice, ev.To)
	assert.Equal(t, int64(50), ev.Amount.Int64())
	assert.NotEmpty(t, ev.Ref)

	b, err := c.MemberBalance("grp-1", bob)
	require.NoError(t, err)
	assert.Zero(t, b.Sign())

	a, err := c.MemberBalance("grp-1", alice)
	require.NoError(t, err)
	assert.Equal(t, int64(50), a.Int64())
}

func TestContract_SettleValidation(t *testing.T) {
	c, roster := newTestContract(t)
	alice, bob, carol := roster[0], roster[1], roster[2]
	outsider := testAddr(0x99)

	_, _, err := c.AddExpense("grp-1", alice, big.NewInt(150), roster)
	require.NoError(t, err)

	tests := []struct {
		name     string
		caller   domain.Address
		creditor domain.Address
		value    int64
		wantErr  error
	}{
		{name: "zero value", caller: bob, creditor: alice, value: 0, wantErr: domain.ErrInvalidAmount},
		{name: "creditor not a member", caller: bob, creditor: outsider, value: 10, wantErr: domain.ErrNotAGroupMember},
		{name: "caller not a member", caller: outsider, creditor: alice, value: 10, wantErr: domain.ErrNotAGroupMember},
		{name: "caller has no debt", caller: alice, creditor: alice, value: 10, wantErr: domain.ErrNotDebtor},
		{name: "creditor has no credit", caller: bob, creditor: carol, value: 10, wantErr: domain.ErrNotCreditor},
		{name: "overpays caller debt", caller: bob, creditor: alice, value: 60, wantErr: domain.ErrOverpaymentRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Settle("grp-1", tt.caller, tt.creditor, big.NewInt(tt.value))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing above may have moved a balance.
	b, err := c.MemberBalance("grp-1", bob)
	require.NoError(t, err)
	assert.Equal(t, int64(-50), b.Int64())
}

func TestContract_SettleOverpaysCreditorCredit(t *testing.T) {
	alice, bob, carol := testAddr(0x01), testAddr(0x02), testAddr(0x03)
	roster := []domain.Address{alice, bob, carol}

	c := NewContract(nil)
	require.NoError(t, c.CreateGroup("grp-1", alice, roster))

	// bob owes 80 in total but alice is owed only 40: settling 50
	// toward alice would push her past zero.
	_, _, err := c.AddExpense("grp-1", alice, big.NewInt(80), []domain.Address{bob, carol})
	require.NoError(t, err)
	_, _, err = c.AddExpense("grp-1", carol, big.NewInt(40), []domain.Address{bob})
	require.NoError(t, err)

	_, err = c.Settle("grp-1", bob, alice, big.NewInt(50))
	assert.ErrorIs(t, err, domain.ErrOverpaymentRejected)

	_, err = c.Settle("grp-1", bob, alice, big.NewInt(40))
	assert.NoError(t, err)
}

func TestContract_SettleTransferHook(t *testing.T) {
	var gotFrom, gotTo domain.Address
	var gotAmount *big.Int
	hook := func(from, to domain.Address, amount *big.Int) error {
		gotFrom, gotTo, gotAmount = from, to, amount
		return nil
	}

	alice, bob := testAddr(0x01), testAddr(0x02)
	c := NewContract(hook)
	require.NoError(t, c.CreateGroup("grp-1", alice, []domain.Address{alice, bob}))
	_, _, err := c.AddExpense("grp-1", alice, big.NewInt(100), []domain.Address{alice, bob})
	require.NoError(t, err)

	_, err = c.Settle("grp-1", bob, alice, big.NewInt(50))
	require.NoError(t, err)
	assert.Equal(t, bob, gotFrom)
	assert.Equal(t, alice, gotTo)
	assert.Equal(t, int64(50), gotAmount.Int64())
}

func TestContract_SettleTransferFailureAppliesNothing(t *testing.T) {
	hookErr := errors.New("rpc unavailable")
	c := NewContract(func(_, _ domain.Address, _ *big.Int) error { return hookErr })

	alice, bob := testAddr(0x01), testAddr(0x02)
	require.NoError(t, c.CreateGroup("grp-1", alice, []domain.Address{alice, bob}))
	_, _, err := c.AddExpense("grp-1", alice, big.NewInt(100), []domain.Address{alice, bob})
	require.NoError(t, err)

	_, err = c.Settle("grp-1", bob, alice, big.NewInt(50))
	assert.ErrorIs(t, err, hookErr)

	b, err := c.MemberBalance("grp-1", bob)
	require.NoError(t, err)
	assert.Equal(t, int64(-50), b.Int64(), "failed transfer must not move balances")

	events, err := c.EventsAfter("grp-1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestContract_SettleReentrancyRejected(t *testing.T) {
	alice, bob := testAddr(0x01), testAddr(0x02)

	var c *Contract
	var nestedErr error
	c = NewContract(func(_, _ domain.Address, _ *big.Int) error {
		_, nestedErr = c.Settle("grp-1", bob, alice, big.NewInt(1))
		return nil
	})

	require.NoError(t, c.CreateGroup("grp-1", alice, []domain.Address{alice, bob}))
	_, _, err := c.AddExpense("grp-1", alice, big.NewInt(100), []domain.Address{alice, bob})
	require.NoError(t, err)

	_, err = c.Settle("grp-1", bob, alice, big.NewInt(50))
	require.NoError(t, err, "outer settle should survive the nested attempt")
	assert.ErrorIs(t, nestedErr, domain.ErrReentrantCall)

	// The guard released after the outer call, so settling works again.
	_, _, err = c.AddExpense("grp-1", alice, big.NewInt(10), []domain.Address{bob})
	require.NoError(t, err)
	_, err = c.Settle("grp-1", bob, alice, big.NewInt(10))
	assert.NoError(t, err)
}

func TestContract_EventsAfter(t *testing.T) {
	c, roster := newTestContract(t)
	alice, bob, carol := roster[0], roster[1], roster[2]

	_, _, err := c.AddExpense("grp-1", alice, big.NewInt(300), roster)
	require.NoError(t, err)

	for _, debtor := range []domain.Address{bob, carol} {
		_, err = c.Settle("grp-1", debtor, alice, big.NewInt(50))
		require.NoError(t, err)
	}

	events, err := c.EventsAfter("grp-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[0].Seq)
	assert.Equal(t, uint64(2), events[1].Seq)
	assert.NotEqual(t, events[0].Ref, events[1].Ref)

	tail, err := c.EventsAfter("grp-1", 1, 0)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, uint64(2), tail[0].Seq)

	limited, err := c.EventsAfter("grp-1", 0, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

// The mirror derives its plan independently of the ledger packages;
// both must agree on any reachable state.
func TestContract_SimplifiedDebtsMatchesLedgerDerivation(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 25; trial++ {
		n := 2 + rng.Intn(5)
		roster := make([]domain.Address, n)
		for i := range roster {
			roster[i] = testAddr(byte(i + 1))
		}

		c := NewContract(nil)
		groupID := "grp-x"
		require.NoError(t, c.CreateGroup(groupID, roster[0], roster))

		var expenses []*domain.Expense
		for i := 0; i < 1+rng.Intn(8); i++ {
			k := 1 + rng.Intn(n)
			participants := make([]domain.Address, 0, k)
			for _, idx := range rng.Perm(n)[:k] {
				participants = append(participants, roster[idx])
			}
			payer := roster[rng.Intn(n)]
			amount := int64(1 + rng.Intn(50000))

			_, _, err := c.AddExpense(groupID, payer, big.NewInt(amount), participants)
			require.NoError(t, err)
			expenses = append(expenses, &domain.Expense{
				Payer:        payer,
				Amount:       domain.NewMoney(amount),
				Participants: participants,
			})
		}

		mirrorPlan, err := c.SimplifiedDebts(groupID)
		require.NoError(t, err)

		ledgerPlan := domain.SimplifyDebts(roster, domain.ComputeBalances(roster, expenses, nil))

		require.Len(t, mirrorPlan, len(ledgerPlan), "trial %d", trial)
		for i := range ledgerPlan {
			assert.Equal(t, ledgerPlan[i].From, mirrorPlan[i].From, "trial %d leg %d", trial, i)
			assert.Equal(t, ledgerPlan[i].To, mirrorPlan[i].To, "trial %d leg %d", trial, i)
			assert.Equal(t, ledgerPlan[i].Amount.String(), mirrorPlan[i].Amount.String(), "trial %d leg %d", trial, i)
		}
	}
}

func TestContract_SimplifiedDebtsIsReadOnly(t *testing.T) {
	c, roster := newTestContract(t)

	_, _, err := c.AddExpense("grp-1", roster[0], big.NewInt(150), roster)
	require.NoError(t, err)

	before, err := c.AllBalances("grp-1")
	require.NoError(t, err)

	_, err = c.SimplifiedDebts("grp-1")
	require.NoError(t, err)

	after, err := c.AllBalances("grp-1")
	require.NoError(t, err)
	for m, b := range before {
		assert.Zero(t, b.Cmp(after[m]), "balance of %s changed", m)
	}
}
