package ports

import (
	"context"

	"marketscope/domain/core"
	"marketscope/domain/decision"
	"marketscope/domain/evidence"
	"marketscope/domain/market"
)

// FactReaderPort provides read-only access to the extracted-fact store.
// Core functions receive a snapshot from here and never touch storage directly.
type FactReaderPort interface {
	// FactSnapshot returns all non-inferred facts grouped by category.
	FactSnapshot(ctx context.Context) (market.FactSet, error)

	// AllFacts returns every stored fact, inferred placeholders included.
	// Confidence scoring needs the inferred records to measure their proportion.
	AllFacts(ctx context.Context) ([]market.Fact, error)
}

// CredibilityPort answers whether low-credibility claims exist in the evidence
// ledger. An empty claimType checks across all claim types.
type CredibilityPort interface {
	HasLowCredibility(ctx context.Context, claimType string) (bool, error)
}

// SourceReaderPort provides read-only access to retrieved sources
type SourceReaderPort interface {
	AllSources(ctx context.Context) ([]evidence.Source, error)
}

// LedgerWriterPort provides append-only write access to the evidence ledger
type LedgerWriterPort interface {
	StoreClaim(ctx context.Context, claim evidence.Claim) (core.ClaimID, error)
}

// AnalysisRecord is a persisted pipeline result
type AnalysisRecord struct {
	ID          core.AnalysisID         `json:"id"`
	Idea        string                  `json:"idea"`
	Model       market.MarketModel      `json:"market_model"`
	Scenarios   market.ScenarioSet      `json:"scenarios"`
	Decision    decision.DecisionResult `json:"decision"`
	Confidence  decision.ConfidenceReport `json:"confidence"`
	Competitors []decision.CompetitorInfo `json:"competitors"`
	Risks       decision.RiskAnalysis   `json:"risks"`
	Sensitivity []market.SensitivityImpact `json:"sensitivity"`
	Warnings    []string                `json:"warnings"`
	CreatedAt   core.Timestamp          `json:"created_at"`
}

// AnalysisRepositoryPort persists and retrieves completed analyses
type AnalysisRepositoryPort interface {
	SaveAnalysis(ctx context.Context, record AnalysisRecord) error
	GetAnalysis(ctx context.Context, id core.AnalysisID) (*AnalysisRecord, error)
	ListAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error)
}
