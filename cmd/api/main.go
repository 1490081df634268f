package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/teafarmpro/teafarm-backend/api/routes"
	"github.com/teafarmpro/teafarm-backend/internal/expenses"
	"github.com/teafarmpro/teafarm-backend/internal/identity"
	"github.com/teafarmpro/teafarm-backend/internal/inventory"
	"github.com/teafarmpro/teafarm-backend/internal/labours"
	"github.com/teafarmpro/teafarm-backend/internal/production"
	"github.com/teafarmpro/teafarm-backend/internal/reports"
	"github.com/teafarmpro/teafarm-backend/internal/sales"
	"github.com/teafarmpro/teafarm-backend/internal/tasks"
	"github.com/teafarmpro/teafarm-backend/pkg/auth/session"
	"github.com/teafarmpro/teafarm-backend/pkg/config"
	"github.com/teafarmpro/teafarm-backend/pkg/db"
	"github.com/teafarmpro/teafarm-backend/pkg/logger"
	"github.com/teafarmpro/teafarm-backend/pkg/migrate"
	"github.com/teafarmpro/teafarm-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	identityRepo := identity.NewRepository(dbClient.DB())
	labourRepo := labours.NewRepository(dbClient.DB())

	identityService, err := identity.NewService(identityRepo, sessionManager, labourRepo, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}
	labourService, err := labours.NewService(labourRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create labour service", err)
		os.Exit(1)
	}
	productionService, err := production.NewService(production.NewRepository(dbClient.DB()), dbClient, identityRepo, labourRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create production service", err)
		os.Exit(1)
	}
	expenseService, err := expenses.NewService(expenses.NewRepository(dbClient.DB()), labourRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create expense service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	taskService, err := tasks.NewService(tasks.NewRepository(dbClient.DB()), identityRepo, labourRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create task service", err)
		os.Exit(1)
	}
	salesService, err := sales.NewService(sales.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}
	reportService, err := reports.NewService(reports.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Sessions:   sessionManager,
			Registry:   prometheus.NewRegistry(),
			Identity:   identityService,
			Labours:    labourService,
			Production: productionService,
			Expenses:   expenseService,
			Inventory:  inventoryService,
			Tasks:      taskService,
			Sales:      salesService,
			Reports:    reportService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
