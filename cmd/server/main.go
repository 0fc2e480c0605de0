package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/simaogato/fundfolio-backend/internal/adapter/httpapi"
	"github.com/simaogato/fundfolio-backend/internal/adapter/navapi"
	"github.com/simaogato/fundfolio-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/fundfolio-backend/internal/config"
	"github.com/simaogato/fundfolio-backend/internal/logger"
	"github.com/simaogato/fundfolio-backend/internal/usecase/history"
	"github.com/simaogato/fundfolio-backend/internal/usecase/holding"
	"github.com/simaogato/fundfolio-backend/internal/usecase/portfolio"
	"github.com/simaogato/fundfolio-backend/internal/usecase/sip"
)

func main() {
	// 1. Configuration and logging
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting fundfolio backend")

	// 2. Setup Database
	// Add 2-second delay to ensure Postgres is up (Simple retry)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// 3. Initialize Repositories and the NAV data source
	holdingRepo := postgres.NewHoldingRepository(db)
	navClient := navapi.NewClient(cfg.NavAPIBase, log)

	// 4. Initialize Services (Use Cases)
	holdingService := holding.NewHoldingService(holdingRepo, navClient, log)
	portfolioService := portfolio.NewPortfolioService(holdingRepo, navClient, log)
	historyService := history.NewHistoryService(holdingRepo, navClient, log)
	sipService := sip.NewSipService(holdingRepo, navClient, log)

	// 5. Start HTTP Server
	handler := httpapi.NewHandler(holdingService, portfolioService, historyService, sipService, navClient, log)

	server := httpapi.NewServer(httpapi.Config{
		Log:     log,
		Port:    cfg.Port,
		Handler: handler,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve HTTP server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(server, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *httpapi.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("HTTP server stopped")
}
