package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/gosettle/internal/domain"
)

type reconciliationServiceStub struct {
	reconcileFn func(ctx context.Context, groupID string) (*domain.ReconciliationReport, error)
}

func (s *reconciliationServiceStub) ReconcileGroup(ctx context.Context, groupID string) (*domain.ReconciliationReport, error) {
	return s.reconcileFn(ctx, groupID)
}

func TestReconciliationHandler_Reconcile(t *testing.T) {
	handler := NewReconciliationHandler(&reconciliationServiceStub{
		reconcileFn: func(ctx context.Context, groupID string) (*domain.ReconciliationReport, error) {
			if groupID != "grp-1" {
				t.Fatalf("expected grp-1, got %s", groupID)
			}
			return &domain.ReconciliationReport{
				GroupID:        "grp-1",
				CheckedAt:      time.Now().UTC(),
				EventsSeen:     3,
				Applied:        1,
				AlreadyApplied: 2,
				InSync:         true,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/groups/grp-1/reconcile", nil)
	req = setChiURLParam(req, "id", "grp-1")
	rec := httptest.NewRecorder()

	handler.Reconcile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report domain.ReconciliationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.EventsSeen != 3 || report.Applied != 1 || !report.InSync {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestReconciliationHandler_Reconcile_GroupNotFound(t *testing.T) {
	handler := NewReconciliationHandler(&reconciliationServiceStub{
		reconcileFn: func(ctx context.Context, groupID string) (*domain.ReconciliationReport, error) {
			return nil, domain.ErrGroupNotFound
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/groups/grp-404/reconcile", nil)
	req = setChiURLParam(req, "id", "grp-404")
	rec := httptest.NewRecorder()

	handler.Reconcile(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
