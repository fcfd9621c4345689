package integration

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/tests/testutil"
)

func TestBalanceSheetFollowsRosterOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := newTestStack(t)

	alice := testutil.Addr(1).String()
	bob := testutil.Addr(2).String()
	carol := testutil.Addr(3).String()

	_, body := stack.postJSON(t, "/api/v1/groups", dto.CreateGroupRequest{
		Name:    "weekend",
		Creator: alice,
		Members: []string{alice, bob, carol},
	})

	var group dto.GroupResponse
	unmarshal(t, body, &group)

	resp, body := stack.postJSON(t, "/api/v1/groups/"+group.ID+"/expenses", map[string]any{
		"payer":        bob,
		"amount":       "9.00",
		"participants": []string{alice, bob, carol},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.StatusCode, body)
	}

	balances := stack.fetchBalances(t, group.ID)
	if balances.GroupID != group.ID {
		t.Errorf("expected group %s, got %s", group.ID, balances.GroupID)
	}
	if balances.Version != 1 {
		t.Errorf("expected version 1 after one expense, got %d", balances.Version)
	}

	if len(balances.Balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(balances.Balances))
	}
	for i, member := range []string{alice, bob, carol} {
		if balances.Balances[i].Member != member {
			t.Errorf("position %d: expected %s, got %s", i, member, balances.Balances[i].Member)
		}
	}

	// The sheet always sums to zero.
	sum := decimal.Zero
	for _, mb := range balances.Balances {
		sum = sum.Add(mb.Balance)
	}
	if !sum.IsZero() {
		t.Errorf("expected balances to sum to zero, got %s", sum)
	}
}

func TestBalanceSnapshotRollsOverOnNewExpense(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := newTestStack(t)

	alice := testutil.Addr(1).String()
	bob := testutil.Addr(2).String()

	_, body := stack.postJSON(t, "/api/v1/groups", dto.CreateGroupRequest{
		Name:    "cache check",
		Creator: alice,
		Members: []string{alice, bob},
	})

	var group dto.GroupResponse
	unmarshal(t, body, &group)

	stack.postJSON(t, "/api/v1/groups/"+group.ID+"/expenses", map[string]any{
		"payer":        alice,
		"amount":       "10.00",
		"participants": []string{alice, bob},
	})

	// Read twice; the second read is served from the version-keyed
	// snapshot and must agree with the first.
	first := stack.fetchBalances(t, group.ID)
	second := stack.fetchBalances(t, group.ID)
	if first.Version != second.Version {
		t.Errorf("version changed between reads: %d vs %d", first.Version, second.Version)
	}
	assertBalance(t, second, alice, "5")
	assertBalance(t, second, bob, "-5")

	// A new expense bumps the version, so the cached snapshot cannot be
	// served stale.
	stack.postJSON(t, "/api/v1/groups/"+group.ID+"/expenses", map[string]any{
		"payer":        alice,
		"amount":       "4.00",
		"participants": []string{alice, bob},
	})

	third := stack.fetchBalances(t, group.ID)
	if third.Version != second.Version+1 {
		t.Errorf("expected version %d, got %d", second.Version+1, third.Version)
	}
	assertBalance(t, third, alice, "7")
	assertBalance(t, third, bob, "-7")
}

func TestGetMemberBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := newTestStack(t)

	alice := testutil.Addr(1).String()
	bob := testutil.Addr(2).String()
	dave := testutil.Addr(4).String()

	_, body := stack.postJSON(t, "/api/v1/groups", dto.CreateGroupRequest{
		Name:    "single member",
		Creator: alice,
		Members: []string{alice, bob},
	})

	var group dto.GroupResponse
	unmarshal(t, body, &group)

	stack.postJSON(t, "/api/v1/groups/"+group.ID+"/expenses", map[string]any{
		"payer":        alice,
		"amount":       "8.00",
		"participants": []string{alice, bob},
	})

	resp, body := stack.getJSON(t, "/api/v1/groups/"+group.ID+"/balances/"+bob)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var balance dto.MemberBalanceResponse
	unmarshal(t, body, &balance)
	if balance.Member != bob {
		t.Errorf("expected member %s, got %s", bob, balance.Member)
	}
	if !balance.Balance.Equal(decimal.RequireFromString("-4")) {
		t.Errorf("expected balance -4, got %s", balance.Balance)
	}

	// Outsiders have no balance.
	resp, _ = stack.getJSON(t, "/api/v1/groups/"+group.ID+"/balances/"+dave)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", resp.StatusCode)
	}
}

func TestSimplifyDebtsCollapsesTransfers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := newTestStack(t)

	alice := testutil.Addr(1).String()
	bob := testutil.Addr(2).String()
	carol := testutil.Addr(3).String()

	_, body := stack.postJSON(t, "/api/v1/groups", dto.CreateGroupRequest{
		Name:    "simplify",
		Creator: alice,
		Members: []string{alice, bob, carol},
	})

	var group dto.GroupResponse
	unmarshal(t, body, &group)

	stack.postJSON(t, "/api/v1/groups/"+group.ID+"/expenses", map[string]any{
		"payer":        alice,
		"amount":       "30.00",
		"participants": []string{alice, bob, carol},
	})

	resp, body := stack.getJSON(t, "/api/v1/groups/"+group.ID+"/simplify")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var plan dto.SettlementPlanResponse
	unmarshal(t, body, &plan)

	if plan.Count != 2 || len(plan.Transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(plan.Transfers))
	}

	// Bob and carol owe the same amount; roster order breaks the tie.
	ten := decimal.RequireFromString("10")
	if plan.Transfers[0].From != bob || plan.Transfers[0].To != alice || !plan.Transfers[0].Amount.Equal(ten) {
		t.Errorf("unexpected first transfer: %+v", plan.Transfers[0])
	}
	if plan.Transfers[1].From != carol || plan.Transfers[1].To != alice || !plan.Transfers[1].Amount.Equal(ten) {
		t.Errorf("unexpected second transfer: %+v", plan.Transfers[1])
	}
}

func TestSimplifySettledGroupIsEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := newTestStack(t)

	alice := testutil.Addr(1).String()
	bob := testutil.Addr(2).String()

	_, body := stack.postJSON(t, "/api/v1/groups", dto.CreateGroupRequest{
		Name:    "all square",
		Creator: alice,
		Members: []string{alice, bob},
	})

	var group dto.GroupResponse
	unmarshal(t, body, &group)

	stack.postJSON(t, "/api/v1/groups/"+group.ID+"/expenses", map[string]any{
		"payer":        alice,
		"amount":       "10.00",
		"participants": []string{alice, bob},
	})
	stack.postJSON(t, "/api/v1/groups/"+group.ID+"/settlements", map[string]any{
		"from":   bob,
		"to":     alice,
		"amount": "5.00",
	})

	resp, body := stack.getJSON(t, "/api/v1/groups/"+group.ID+"/simplify")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var plan dto.SettlementPlanResponse
	unmarshal(t, body, &plan)
	if plan.Count != 0 || len(plan.Transfers) != 0 {
		t.Errorf("expected empty plan, got %+v", plan.Transfers)
	}
}
