package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iho/gosettle/internal/adapter/chain"
	httpAdapter "github.com/iho/gosettle/internal/adapter/http"
	"github.com/iho/gosettle/internal/adapter/http/handler"
	"github.com/iho/gosettle/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gosettle/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gosettle/internal/adapter/repository/redis"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/auth"
	"github.com/iho/gosettle/internal/infrastructure/chainwatch"
	"github.com/iho/gosettle/internal/infrastructure/config"
	"github.com/iho/gosettle/internal/infrastructure/eventpublisher"
	"github.com/iho/gosettle/internal/infrastructure/logger"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
	"github.com/iho/gosettle/internal/infrastructure/postgres"
	"github.com/iho/gosettle/internal/infrastructure/redis"
	"github.com/iho/gosettle/internal/mirror"
	"github.com/iho/gosettle/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	groupRepo := postgresRepo.NewGroupRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	settlementRepo := postgresRepo.NewSettlementRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Mirror gateway
	chainGateway, err := buildChainGateway(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build chain gateway")
	}
	log.Info().Str("mode", cfg.ChainMode).Msg("chain gateway ready")

	m := metrics.New()

	// Initialize use cases
	groupUC := usecase.NewGroupUseCase(txManager, groupRepo, outboxRepo, idGen).
		WithMetrics(m)
	expenseUC := usecase.NewExpenseUseCase(txManager, groupRepo, expenseRepo, outboxRepo, idGen).
		WithRetrier(retrier).
		WithMetrics(m)
	settlementUC := usecase.NewSettlementUseCase(txManager, groupRepo, settlementRepo, outboxRepo, idGen).
		WithRetrier(retrier).
		WithMetrics(m)
	balanceUC := usecase.NewBalanceUseCase(groupRepo, expenseRepo, settlementRepo, cache).
		WithMetrics(m)
	reconciliationUC := usecase.NewReconciliationUseCase(chainGateway, settlementUC, groupRepo, expenseRepo, settlementRepo, cache).
		WithMetrics(m)

	// Authentication is optional; without it every route is open.
	var jwtManager *auth.JWTManager
	var authHandler *handler.AuthHandler
	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			log.Fatal().Msg("AUTH_ENABLED requires JWT_SECRET")
		}
		users, err := cfg.ParseUsers()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse AUTH_USERS")
		}
		credentialStore, err := buildCredentialStore(users)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build credential store")
		}
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		authHandler = handler.NewAuthHandler(jwtManager, credentialStore)
		log.Info().Int("users", len(users)).Msg("authentication enabled")
	}

	// Initialize handlers
	groupHandler := handler.NewGroupHandler(groupUC)
	expenseHandler := handler.NewExpenseHandler(expenseUC, cfg.AmountScale)
	settlementHandler := handler.NewSettlementHandler(settlementUC, cfg.AmountScale)
	balanceHandler := handler.NewBalanceHandler(balanceUC, cfg.AmountScale)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		GroupHandler:          groupHandler,
		ExpenseHandler:        expenseHandler,
		SettlementHandler:     settlementHandler,
		BalanceHandler:        balanceHandler,
		ReconciliationHandler: reconciliationHandler,
		AuthHandler:           authHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		JWTManager:            jwtManager,
		RateLimiter:           middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:                appLogger,
	})

	// Background workers
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(appLogger),
		Logger:     appLogger,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPublishInterval,
	})
	watcher := chainwatch.NewWatcher(chainwatch.Config{
		Reconciler: reconciliationUC,
		GroupRepo:  groupRepo,
		Logger:     appLogger,
		Interval:   cfg.ReconcileInterval,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := publisher.Start(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := watcher.Start(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

// buildChainGateway selects the mirror gateway for the configured mode.
func buildChainGateway(cfg *config.Config) (usecase.ChainGateway, error) {
	switch cfg.ChainMode {
	case "sim":
		return chain.NewSimulator(mirror.NewContract(chain.NewLosslessTransfer())), nil
	case "http":
		return chain.NewClient(cfg.ChainBaseURL, cfg.ChainTimeout), nil
	default:
		return nil, fmt.Errorf("unknown CHAIN_MODE %q, want sim or http", cfg.ChainMode)
	}
}

// buildCredentialStore validates parsed AUTH_USERS entries into a store.
func buildCredentialStore(users []config.APIUser) (*auth.CredentialStore, error) {
	credentials := make([]auth.Credential, 0, len(users))
	for _, u := range users {
		role := domain.Role(u.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("unknown role %q for user %s", u.Role, u.Username)
		}
		credentials = append(credentials, auth.Credential{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         role,
		})
	}
	return auth.NewCredentialStore(credentials), nil
}
