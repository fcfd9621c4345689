package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

type settlementServiceStub struct {
	recordFn func(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Settlement, error)
	getFn    func(ctx context.Context, id string) (*domain.Settlement, error)
	listFn   func(ctx context.Context, input usecase.ListSettlementsInput) ([]*domain.Settlement, error)
}

func (s *settlementServiceStub) RecordSettlement(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Settlement, error) {
	return s.recordFn(ctx, input)
}

func (s *settlementServiceStub) GetSettlement(ctx context.Context, id string) (*domain.Settlement, error) {
	return s.getFn(ctx, id)
}

func (s *settlementServiceStub) ListSettlements(ctx context.Context, input usecase.ListSettlementsInput) ([]*domain.Settlement, error) {
	return s.listFn(ctx, input)
}

func TestSettlementHandler_Record_Success(t *testing.T) {
	bob := mustAddr(t, addrBob)
	alice := mustAddr(t, addrAlice)
	ref := "wire-2024-001"

	settlement := &domain.Settlement{
		ID:          "set-1",
		GroupID:     "grp-1",
		From:        bob,
		To:          alice,
		Amount:      domain.NewMoney(625),
		ExternalRef: &ref,
	}

	var captured usecase.RecordSettlementInput
	handler := NewSettlementHandler(&settlementServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Settlement, error) {
			captured = input
			return settlement, nil
		},
		getFn: func(ctx context.Context, id string) (*domain.Settlement, error) { return nil, nil },
		listFn: func(ctx context.Context, input usecase.ListSettlementsInput) ([]*domain.Settlement, error) {
			return nil, nil
		},
	}, 2)

	body, _ := json.Marshal(dto.RecordSettlementRequest{
		From:        addrBob,
		To:          addrAlice,
		Amount:      decimal.RequireFromString("6.25"),
		ExternalRef: &ref,
	})

	req := httptest.NewRequest(http.MethodPost, "/groups/grp-1/settlements", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "grp-1")
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Amount.String() != "625" || captured.ExternalRef == nil || *captured.ExternalRef != ref {
		t.Fatalf("expected converted input, got %+v", captured)
	}

	var resp dto.SettlementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "set-1" || resp.Amount.String() != "6.25" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSettlementHandler_Record_DuplicateReference(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Settlement, error) {
			return nil, domain.ErrDuplicateReference
		},
		getFn: func(ctx context.Context, id string) (*domain.Settlement, error) { return nil, nil },
		listFn: func(ctx context.Context, input usecase.ListSettlementsInput) ([]*domain.Settlement, error) {
			return nil, nil
		},
	}, 2)

	ref := "wire-2024-001"
	body, _ := json.Marshal(dto.RecordSettlementRequest{
		From:        addrBob,
		To:          addrAlice,
		Amount:      decimal.RequireFromString("6.25"),
		ExternalRef: &ref,
	})

	req := httptest.NewRequest(http.MethodPost, "/groups/grp-1/settlements", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "grp-1")
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSettlementHandler_Record_SelfSettlement(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Settlement, error) {
			return nil, domain.ErrSelfSettlement
		},
		getFn: func(ctx context.Context, id string) (*domain.Settlement, error) { return nil, nil },
		listFn: func(ctx context.Context, input usecase.ListSettlementsInput) ([]*domain.Settlement, error) {
			return nil, nil
		},
	}, 2)

	body, _ := json.Marshal(dto.RecordSettlementRequest{
		From:   addrBob,
		To:     addrBob,
		Amount: decimal.RequireFromString("1"),
	})

	req := httptest.NewRequest(http.MethodPost, "/groups/grp-1/settlements", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "grp-1")
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSettlementHandler_Get_NotFound(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Settlement, error) {
			return nil, domain.ErrSettlementNotFound
		},
		recordFn: func(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Settlement, error) {
			return nil, nil
		},
		listFn: func(ctx context.Context, input usecase.ListSettlementsInput) ([]*domain.Settlement, error) {
			return nil, nil
		},
	}, 2)

	req := httptest.NewRequest(http.MethodGet, "/settlements/set-404", nil)
	req = setChiURLParam(req, "settlementID", "set-404")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSettlementHandler_ListByGroup(t *testing.T) {
	bob := mustAddr(t, addrBob)
	alice := mustAddr(t, addrAlice)

	handler := NewSettlementHandler(&settlementServiceStub{
		listFn: func(ctx context.Context, input usecase.ListSettlementsInput) ([]*domain.Settlement, error) {
			if input.GroupID != "grp-1" {
				t.Fatalf("unexpected input %+v", input)
			}
			return []*domain.Settlement{
				{ID: "set-1", From: bob, To: alice, Amount: domain.NewMoney(625)},
			}, nil
		},
		recordFn: func(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Settlement, error) {
			return nil, nil
		},
		getFn: func(ctx context.Context, id string) (*domain.Settlement, error) { return nil, nil },
	}, 2)

	req := httptest.NewRequest(http.MethodGet, "/groups/grp-1/settlements", nil)
	req = setChiURLParam(req, "id", "grp-1")
	rec := httptest.NewRecorder()

	handler.ListByGroup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListSettlementsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Settlements) != 1 || resp.Total != 1 {
		t.Fatalf("expected 1 settlement, got %+v", resp)
	}
}
