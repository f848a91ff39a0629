package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atieqrehman11/kids-cashflow/internal/config"
	"github.com/atieqrehman11/kids-cashflow/internal/handler"
	"github.com/atieqrehman11/kids-cashflow/internal/ledger"
	"github.com/atieqrehman11/kids-cashflow/internal/middleware"
	"github.com/atieqrehman11/kids-cashflow/internal/stats"
	"github.com/atieqrehman11/kids-cashflow/internal/storage"
	"github.com/atieqrehman11/kids-cashflow/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	store, cleanup, err := newStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to init storage", zap.Error(err))
	}
	defer cleanup()

	router := newRouter(store, logger)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go shutdownOnSignal(srv, logger, quit)

	logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("backend", cfg.StorageBackend))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server stopped", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// shutdownOnSignal drains in-flight requests and stops the server once a
// termination signal arrives. ListenAndServe then returns ErrServerClosed
// and main falls through to the deferred store cleanup.
func shutdownOnSignal(srv *http.Server, logger *zap.Logger, quit <-chan os.Signal) {
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newRouter(store storage.Store, logger *zap.Logger) *gin.Engine {
	ledgerSvc := ledger.NewService(store, logger)
	statsSvc := stats.NewService(store)
	userSvc := user.NewService(store)

	accountHandler := handler.NewAccountHandler(store)
	transactionHandler := handler.NewTransactionHandler(ledgerSvc, store)
	statsHandler := handler.NewStatsHandler(statsSvc)
	userHandler := handler.NewUserHandler(userSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		api.GET("/accounts", accountHandler.ListAccounts)
		api.POST("/accounts", accountHandler.CreateAccount)
		api.GET("/accounts/:id", accountHandler.GetAccount)
		api.PATCH("/accounts/:id", accountHandler.UpdateAccount)
		api.DELETE("/accounts/:id", accountHandler.DeleteAccount)
		api.GET("/accounts/:id/report", statsHandler.AccountReport)

		api.GET("/transactions", transactionHandler.ListTransactions)
		api.POST("/transactions", transactionHandler.CreateTransaction)

		api.GET("/dashboard/stats", statsHandler.DashboardStats)

		api.POST("/users", userHandler.CreateUser)
	}

	return router
}

// newStore selects the Entity Store backend. The ledger and stats services
// are indifferent to the choice.
func newStore(cfg *config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	if cfg.StorageBackend == config.BackendMemory {
		return storage.NewMemoryStore(), func() {}, nil
	}

	if err := storage.RunMigrations(cfg.MigrationsDir, cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("Connected to PostgreSQL")
	return storage.NewPostgresStore(db), func() { db.Close() }, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
