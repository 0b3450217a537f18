package evidence

import (
	"marketscope/domain/core"
)

// Credibility is a categorical trust rating for a source
type Credibility string

const (
	CredibilityHigh   Credibility = "high"
	CredibilityMedium Credibility = "medium"
	CredibilityLow    Credibility = "low"
)

// Source is a retrieved web source with its trust rating
type Source struct {
	ID          core.SourceID  `json:"id"`
	URL         string         `json:"url"`
	Credibility Credibility    `json:"credibility_score"`
	RetrievedAt core.Timestamp `json:"timestamp"`
}

// Claim is an evidence-ledger entry: a statement tied to a source excerpt.
// Every claim carries a credibility rating; low-credibility claims widen
// estimation ranges downstream.
type Claim struct {
	ID          core.ClaimID   `json:"id"`
	Text        string         `json:"claim_text"`
	Type        string         `json:"claim_type"`
	Value       *float64       `json:"value"`
	Unit        string         `json:"unit"`
	SourceURL   string         `json:"source_url"`
	Excerpt     string         `json:"excerpt"`
	Credibility Credibility    `json:"credibility_score"`
	Confidence  Credibility    `json:"claim_confidence"`
	RetrievedAt core.Timestamp `json:"retrieved_at"`
}

// ConfidenceFor maps source credibility to claim confidence.
// Low credibility sources always produce low-confidence claims.
func ConfidenceFor(c Credibility) Credibility {
	switch c {
	case CredibilityLow:
		return CredibilityLow
	case CredibilityMedium:
		return CredibilityMedium
	default:
		return CredibilityHigh
	}
}
