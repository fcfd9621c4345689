package integration

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/tests/testutil"
)

func TestConcurrentSettlementsShareOneReference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := newTestStack(t)

	alice := testutil.Addr(1).String()
	bob := testutil.Addr(2).String()

	_, body := stack.postJSON(t, "/api/v1/groups", dto.CreateGroupRequest{
		Name:    "race",
		Creator: alice,
		Members: []string{alice, bob},
	})

	var group dto.GroupResponse
	unmarshal(t, body, &group)

	// Every writer claims the same mirror reference. The unique index
	// decides the winner; there is no pre-check to race against.
	const writers = 8
	payload := []byte(fmt.Sprintf(
		`{"from":%q,"to":%q,"amount":"4.00","external_ref":"0xdeadbeef"}`, bob, alice))
	url := stack.url("/api/v1/groups/" + group.ID + "/settlements")

	var wg sync.WaitGroup
	statuses := make(chan int, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	created, conflicts := 0, 0
	for status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("unexpected status %d", status)
		}
	}
	if created != 1 {
		t.Errorf("expected exactly one settlement to win, got %d", created)
	}
	if conflicts != writers-1 {
		t.Errorf("expected %d conflicts, got %d", writers-1, conflicts)
	}

	// Only the winner counts toward balances.
	balances := stack.fetchBalances(t, group.ID)
	assertBalance(t, balances, bob, "4")
	assertBalance(t, balances, alice, "-4")
}

func TestConcurrentExpensesAllRecorded(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stack := newTestStack(t)

	alice := testutil.Addr(1).String()
	bob := testutil.Addr(2).String()

	_, body := stack.postJSON(t, "/api/v1/groups", dto.CreateGroupRequest{
		Name:    "busy",
		Creator: alice,
		Members: []string{alice, bob},
	})

	var group dto.GroupResponse
	unmarshal(t, body, &group)

	// Concurrent writers serialize on the group version bump.
	const writers = 10
	payload := []byte(fmt.Sprintf(
		`{"payer":%q,"amount":"1.00","participants":[%q,%q]}`, alice, alice, bob))
	url := stack.url("/api/v1/groups/" + group.ID + "/expenses")

	var wg sync.WaitGroup
	statuses := make(chan int, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		if status != http.StatusCreated {
			t.Errorf("expected status 201, got %d", status)
		}
	}

	resp, body := stack.getJSON(t, "/api/v1/groups/"+group.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var after dto.GroupResponse
	unmarshal(t, body, &after)
	if after.Version != writers {
		t.Errorf("expected version %d, got %d", writers, after.Version)
	}

	balances := stack.fetchBalances(t, group.ID)
	half := decimal.RequireFromString("0.50").Mul(decimal.NewFromInt(writers))
	assertBalance(t, balances, alice, half.String())
	assertBalance(t, balances, bob, fmt.Sprintf("-%s", half))

	resp, body = stack.getJSON(t, "/api/v1/groups/"+group.ID+"/expenses?limit=100")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var list dto.ListExpensesResponse
	unmarshal(t, body, &list)
	if list.Total != writers {
		t.Errorf("expected %d expenses, got %d", writers, list.Total)
	}
}
