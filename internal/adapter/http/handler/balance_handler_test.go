package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

type balanceServiceStub struct {
	groupFn    func(ctx context.Context, groupID string) (*usecase.GroupBalances, error)
	memberFn   func(ctx context.Context, groupID string, member domain.Address) (*domain.MemberBalance, error)
	simplifyFn func(ctx context.Context, groupID string) ([]domain.SimplifiedDebt, error)
}

func (s *balanceServiceStub) GetGroupBalances(ctx context.Context, groupID string) (*usecase.GroupBalances, error) {
	return s.groupFn(ctx, groupID)
}

func (s *balanceServiceStub) GetMemberBalance(ctx context.Context, groupID string, member domain.Address) (*domain.MemberBalance, error) {
	return s.memberFn(ctx, groupID, member)
}

func (s *balanceServiceStub) SimplifyDebts(ctx context.Context, groupID string) ([]domain.SimplifiedDebt, error) {
	return s.simplifyFn(ctx, groupID)
}

func TestBalanceHandler_GetBalances(t *testing.T) {
	alice := mustAddr(t, addrAlice)
	bob := mustAddr(t, addrBob)

	handler := NewBalanceHandler(&balanceServiceStub{
		groupFn: func(ctx context.Context, groupID string) (*usecase.GroupBalances, error) {
			if groupID != "grp-1" {
				t.Fatalf("expected grp-1, got %s", groupID)
			}
			return &usecase.GroupBalances{
				GroupID: "grp-1",
				Version: 7,
				Balances: []domain.MemberBalance{
					{Member: alice, Balance: domain.NewMoney(100)},
					{Member: bob, Balance: domain.NewMoney(-100)},
				},
			}, nil
		},
		memberFn: func(ctx context.Context, groupID string, member domain.Address) (*domain.MemberBalance, error) {
			return nil, nil
		},
		simplifyFn: func(ctx context.Context, groupID string) ([]domain.SimplifiedDebt, error) { return nil, nil },
	}, 2)

	req := httptest.NewRequest(http.MethodGet, "/groups/grp-1/balances", nil)
	req = setChiURLParam(req, "id", "grp-1")
	rec := httptest.NewRecorder()

	handler.GetBalances(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalancesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Version != 7 || len(resp.Balances) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Balances[0].Balance.String() != "1" || resp.Balances[1].Balance.String() != "-1" {
		t.Fatalf("expected balances rendered at scale, got %+v", resp.Balances)
	}
}

func TestBalanceHandler_GetMemberBalance_InvalidAddress(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		memberFn: func(ctx context.Context, groupID string, member domain.Address) (*domain.MemberBalance, error) {
			t.Fatal("GetMemberBalance should not be called for a bad address")
			return nil, nil
		},
		groupFn:    func(ctx context.Context, groupID string) (*usecase.GroupBalances, error) { return nil, nil },
		simplifyFn: func(ctx context.Context, groupID string) ([]domain.SimplifiedDebt, error) { return nil, nil },
	}, 2)

	req := httptest.NewRequest(http.MethodGet, "/groups/grp-1/balances/nonsense", nil)
	req = setChiURLParam(req, "id", "grp-1")
	req = setChiURLParam(req, "member", "nonsense")
	rec := httptest.NewRecorder()

	handler.GetMemberBalance(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBalanceHandler_GetMemberBalance_NonMember(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		memberFn: func(ctx context.Context, groupID string, member domain.Address) (*domain.MemberBalance, error) {
			return nil, domain.ErrNotAGroupMember
		},
		groupFn:    func(ctx context.Context, groupID string) (*usecase.GroupBalances, error) { return nil, nil },
		simplifyFn: func(ctx context.Context, groupID string) ([]domain.SimplifiedDebt, error) { return nil, nil },
	}, 2)

	req := httptest.NewRequest(http.MethodGet, "/groups/grp-1/balances/"+addrCarol, nil)
	req = setChiURLParam(req, "id", "grp-1")
	req = setChiURLParam(req, "member", addrCarol)
	rec := httptest.NewRecorder()

	handler.GetMemberBalance(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestBalanceHandler_SimplifyDebts(t *testing.T) {
	alice := mustAddr(t, addrAlice)
	bob := mustAddr(t, addrBob)

	handler := NewBalanceHandler(&balanceServiceStub{
		simplifyFn: func(ctx context.Context, groupID string) ([]domain.SimplifiedDebt, error) {
			return []domain.SimplifiedDebt{
				{From: bob, To: alice, Amount: domain.NewMoney(150)},
			}, nil
		},
		groupFn: func(ctx context.Context, groupID string) (*usecase.GroupBalances, error) { return nil, nil },
		memberFn: func(ctx context.Context, groupID string, member domain.Address) (*domain.MemberBalance, error) {
			return nil, nil
		},
	}, 2)

	req := httptest.NewRequest(http.MethodGet, "/groups/grp-1/simplify", nil)
	req = setChiURLParam(req, "id", "grp-1")
	rec := httptest.NewRecorder()

	handler.SimplifyDebts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.SettlementPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || len(resp.Transfers) != 1 {
		t.Fatalf("expected one transfer, got %+v", resp)
	}
	if resp.Transfers[0].Amount.String() != "1.5" {
		t.Fatalf("expected amount 1.5, got %s", resp.Transfers[0].Amount)
	}
}

func TestBalanceHandler_SimplifyDebts_GroupNotFound(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		simplifyFn: func(ctx context.Context, groupID string) ([]domain.SimplifiedDebt, error) {
			return nil, domain.ErrGroupNotFound
		},
		groupFn: func(ctx context.Context, groupID string) (*usecase.GroupBalances, error) { return nil, nil },
		memberFn: func(ctx context.Context, groupID string, member domain.Address) (*domain.MemberBalance, error) {
			return nil, nil
		},
	}, 2)

	req := httptest.NewRequest(http.MethodGet, "/groups/grp-404/simplify", nil)
	req = setChiURLParam(req, "id", "grp-404")
	rec := httptest.NewRecorder()

	handler.SimplifyDebts(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
