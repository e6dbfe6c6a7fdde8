package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/moneta-app/moneta/internal/account"
	accountStore "github.com/moneta-app/moneta/internal/account/store"
	"github.com/moneta-app/moneta/internal/auth"
	"github.com/moneta-app/moneta/internal/budget"
	budgetStore "github.com/moneta-app/moneta/internal/budget/store"
	"github.com/moneta-app/moneta/internal/config"
	"github.com/moneta-app/moneta/internal/database"
	monetaHttp "github.com/moneta-app/moneta/internal/http"
	accountHandler "github.com/moneta-app/moneta/internal/http/account"
	"github.com/moneta-app/moneta/internal/http/authapi"
	budgetHandler "github.com/moneta-app/moneta/internal/http/budget"
	reportHandler "github.com/moneta-app/moneta/internal/http/report"
	txHandler "github.com/moneta-app/moneta/internal/http/transaction"
	"github.com/moneta-app/moneta/internal/report"
	reportStore "github.com/moneta-app/moneta/internal/report/store"
	"github.com/moneta-app/moneta/internal/transaction"
	txStore "github.com/moneta-app/moneta/internal/transaction/store"
	"github.com/moneta-app/moneta/internal/user"
	userStore "github.com/moneta-app/moneta/internal/user/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		userService    = user.NewService(userStore.New(db))
		accountService = account.NewService(accountStore.New(db))
		budgetService  = budget.NewService(budgetStore.New(db))
		txService      = transaction.NewService(txStore.New(db), accountService, budgetService)
		reportService  = report.NewService(reportStore.New(db))
	)

	var (
		authH    = authapi.NewHandler(userService, issuer)
		accountH = accountHandler.NewHandler(accountService)
		txH      = txHandler.NewHandler(txService)
		budgetH  = budgetHandler.NewHandler(budgetService)
		reportH  = reportHandler.NewHandler(reportService)
	)

	router := monetaHttp.New(issuer, cfg.CORS.AllowedOrigins, authH, accountH, txH, budgetH, reportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
