package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/adapter/chain"
	adaptershttp "github.com/iho/gosettle/internal/adapter/http"
	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/adapter/http/handler"
	"github.com/iho/gosettle/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/gosettle/internal/adapter/repository/redis"
	"github.com/iho/gosettle/internal/infrastructure/auth"
	infraredis "github.com/iho/gosettle/internal/infrastructure/redis"
	"github.com/iho/gosettle/internal/mirror"
	"github.com/iho/gosettle/internal/usecase"
	"github.com/iho/gosettle/tests/testutil"
)

const testScale = 2

// testStack wires the full HTTP stack over a real database and Redis,
// with the mirror simulated in process.
type testStack struct {
	db     *testutil.TestDB
	sim    *chain.Simulator
	outbox *postgres.OutboxRepository
	server *httptest.Server
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	return buildTestStack(t, nil, nil)
}

// newAuthedTestStack builds the stack with login and role gates active.
func newAuthedTestStack(t *testing.T, creds []auth.Credential) *testStack {
	t.Helper()

	jwtManager := auth.NewJWTManager("integration-secret", time.Hour)
	store := auth.NewCredentialStore(creds)
	return buildTestStack(t, jwtManager, handler.NewAuthHandler(jwtManager, store))
}

func buildTestStack(t *testing.T, jwtManager *auth.JWTManager, authHandler *handler.AuthHandler) *testStack {
	t.Helper()

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	groupRepo := postgres.NewGroupRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	settlementRepo := postgres.NewSettlementRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	cache := redisrepo.NewCache(redisClient)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	sim := chain.NewSimulator(mirror.NewContract(chain.NewLosslessTransfer()))

	groupUC := usecase.NewGroupUseCase(txManager, groupRepo, outboxRepo, idGen)
	expenseUC := usecase.NewExpenseUseCase(txManager, groupRepo, expenseRepo, outboxRepo, idGen).
		WithRetrier(retrier)
	settlementUC := usecase.NewSettlementUseCase(txManager, groupRepo, settlementRepo, outboxRepo, idGen).
		WithRetrier(retrier)
	balanceUC := usecase.NewBalanceUseCase(groupRepo, expenseRepo, settlementRepo, cache)
	reconciliationUC := usecase.NewReconciliationUseCase(sim, settlementUC, groupRepo, expenseRepo, settlementRepo, cache)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		GroupHandler:          handler.NewGroupHandler(groupUC),
		ExpenseHandler:        handler.NewExpenseHandler(expenseUC, testScale),
		SettlementHandler:     handler.NewSettlementHandler(settlementUC, testScale),
		BalanceHandler:        handler.NewBalanceHandler(balanceUC, testScale),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		AuthHandler:           authHandler,
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      redisrepo.NewIdempotencyStore(redisClient),
		JWTManager:            jwtManager,
		Logger:                zerolog.Nop(),
	})

	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		redisClient.Close()
		testDB.Cleanup()
	})

	return &testStack{
		db:     testDB,
		sim:    sim,
		outbox: outboxRepo,
		server: server,
	}
}

func (s *testStack) url(path string) string {
	return s.server.URL + path
}

func (s *testStack) postJSON(t *testing.T, path string, body any) (*http.Response, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	resp, err := http.Post(s.url(path), "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return resp, data
}

func (s *testStack) getJSON(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(s.url(path))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return resp, data
}

func (s *testStack) deleteReq(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, s.url(path), nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	return resp
}

func (s *testStack) fetchBalances(t *testing.T, groupID string) dto.BalancesResponse {
	t.Helper()

	resp, data := s.getJSON(t, "/api/v1/groups/"+groupID+"/balances")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, data)
	}

	var balances dto.BalancesResponse
	unmarshal(t, data, &balances)
	return balances
}

// assertBalance checks one member's balance on a sheet. want is a
// decimal string such as "-3.33".
func assertBalance(t *testing.T, balances dto.BalancesResponse, member, want string) {
	t.Helper()

	for _, mb := range balances.Balances {
		if mb.Member != member {
			continue
		}
		if !mb.Balance.Equal(decimal.RequireFromString(want)) {
			t.Errorf("balance for %s: expected %s, got %s", member, want, mb.Balance)
		}
		return
	}
	t.Errorf("member %s not on balance sheet", member)
}

func unmarshal(t *testing.T, data []byte, v any) {
	t.Helper()

	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to unmarshal response: %v\n%s", err, data)
	}
}
