package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "kitabu-backend/internal/adapter/http"
	mw "kitabu-backend/internal/adapter/middleware"
	"kitabu-backend/internal/adapter/remote"
	repo "kitabu-backend/internal/adapter/repository/mysql"
	"kitabu-backend/internal/config"
	"kitabu-backend/internal/infrastructure/cache"
	"kitabu-backend/internal/infrastructure/db"
	"kitabu-backend/internal/observability"
	"kitabu-backend/internal/usecase/audit"
	"kitabu-backend/internal/usecase/bootstrap"
	"kitabu-backend/internal/usecase/expense"
	"kitabu-backend/internal/usecase/ledger"
	"kitabu-backend/internal/usecase/loan"
	"kitabu-backend/internal/usecase/partnership"
	"kitabu-backend/internal/usecase/project"
	"kitabu-backend/internal/usecase/registry"
	"kitabu-backend/internal/usecase/replication"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.AppEnv)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	gdb, err := db.OpenGorm(db.Options{
		Driver:     cfg.DBDriver,
		MySQLDSN:   cfg.MySQLDSN(),
		SQLitePath: cfg.SQLitePath,
		Debug:      cfg.DBDebug,
	})
	if err != nil {
		log.Error("db open", "err", err)
		os.Exit(1)
	}
	if err := repo.AutoMigrate(gdb); err != nil {
		log.Error("db migrate", "err", err)
		os.Exit(1)
	}
	tx := repo.NewGormUoW(gdb)

	reg, err := observability.NewRegistry()
	if err != nil {
		log.Error("metrics registry", "err", err)
		os.Exit(1)
	}

	// remote stays a nil interface when replication is off
	var rem replication.Remote
	if cfg.SyncURL != "" {
		rem = remote.NewClient(cfg.SyncURL, cfg.SyncTimeout, log)
	}
	syncer := replication.NewSyncer(tx, rem, nil, replication.Config{
		Debounce: cfg.SyncDebounce,
		Timeout:  cfg.SyncTimeout,
	}, replication.NewMetrics(reg), log)

	// usecases
	registryUC := registry.NewUsecase(tx, syncer, log)
	ledgerUC := ledger.NewUsecase(tx, syncer, log)
	loanUC := loan.NewUsecase(tx, syncer, log)
	expenseUC := expense.NewUsecase(tx, syncer, log)
	projectUC := project.NewUsecase(tx, syncer, log)
	partnershipUC := partnership.NewUsecase(tx, syncer, log)
	auditUC := audit.NewUsecase(tx, syncer, log)
	boot := bootstrap.NewUsecase(tx, syncer, syncer, log)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	if cfg.ResetOnStart {
		err = boot.Reset(startCtx)
	} else {
		var origin bootstrap.Origin
		origin, err = boot.Init(startCtx, cfg.SyncTenantID)
		log.Info("store ready", "origin", origin)
	}
	cancelStart()
	if err != nil {
		log.Error("store bootstrap", "err", err)
		os.Exit(1)
	}

	routes := httpadp.Routes{
		Health:   httpadp.NewHandler(),
		Metrics:  observability.MetricsHandler(reg),
		Registry: httpadp.NewRegistryHandler(registryUC, log),
		Ledger:   httpadp.NewLedgerHandler(ledgerUC, log),
		Loans:    httpadp.NewLoanHandler(loanUC, log),
		Expenses: httpadp.NewExpenseHandler(expenseUC, log),
		Projects: httpadp.NewProjectHandler(projectUC, partnershipUC, log),
		Audit:    httpadp.NewAuditHandler(auditUC, log),
		Sync:     httpadp.NewSyncHandler(syncer, log),
	}

	if cfg.IdempEnabled {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Error("redis connect", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		routes.Idempotency = mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(observability.NewHTTPMetrics(reg).Middleware())
	e.Use(mw.Identity())
	routes.Register(e)

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", "addr", addr, "db", cfg.DBDriver, "sync", syncer.Enabled())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown", "err", err)
	}
	// waits for an in-flight push; a pending debounced one is dropped
	syncer.Stop()
}
