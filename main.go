package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"marketscope/adapters/postgres"
	"marketscope/internal"
	"marketscope/internal/analysis"
	"marketscope/internal/api"
	"marketscope/internal/config"
	"marketscope/internal/confidence"
	"marketscope/internal/estimation"
	"marketscope/internal/quality"
	"marketscope/internal/scenario"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := postgres.Connect(appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	facts := postgres.NewFactRepository(db)
	ledger := postgres.NewLedgerRepository(db)
	sources := postgres.NewSourceRepository(db)
	analyses := postgres.NewAnalysisRepository(db)

	assessor := quality.NewAssessor(ledger)
	estimator := estimation.NewEngine(facts, assessor)
	scenarios := scenario.NewEngine(facts)
	scorer := confidence.NewScorer(sources, facts)

	pipeline := analysis.NewPipeline(
		facts, estimator, scenarios, scorer, analyses,
		appConfig.Analysis, internal.DefaultLogger,
	)

	router := api.NewRouter(
		appConfig.Server.GinMode,
		api.NewAnalysisHandler(pipeline, analyses),
		api.NewEvidenceHandler(facts, facts, ledger, sources),
	)

	internal.DefaultLogger.Info("Starting server on port %s", appConfig.Server.Port)
	if err := router.Run(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
