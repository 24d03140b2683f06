package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"acecoach/internal/clock"
	"acecoach/internal/config"
	"acecoach/internal/db"
	"acecoach/internal/gemini"
	"acecoach/internal/handler"
	"acecoach/internal/repository"
	"acecoach/internal/router"
	"acecoach/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	ctx := context.Background()

	liveRepo := repository.NewLiveSessionRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	analysisRepo := repository.NewAnalysisRepository(database)

	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY is not set; analysis calls will fail until it is configured")
	}
	modelClient, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("create model client: %v", err)
	}

	clk := clock.System{}
	tracker := service.NewTracker(ctx, liveRepo, sessionRepo, clk)
	ledger := service.NewLedger(sessionRepo, clk)
	analyzer := service.NewAnalyzer(modelClient, analysisRepo, clk, cfg.ThinkingBudget)

	liveHandler := handler.NewLiveHandler(tracker)
	sessionHandler := handler.NewSessionHandler(ledger)
	analysisHandler := handler.NewAnalysisHandler(analyzer)

	engine := router.New(liveHandler, sessionHandler, analysisHandler, cfg.CORSOrigins)
	log.Printf("backend listening on :%s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
