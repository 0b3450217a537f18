package decision

// Verdict is the final market viability call
type Verdict string

const (
	VerdictGo          Verdict = "GO"
	VerdictNoGo        Verdict = "NO-GO"
	VerdictConditional Verdict = "CONDITIONAL"
)

// Factor names used in factor score maps and reasoning maps
const (
	FactorMarketSize     = "market_size"
	FactorCompetition    = "competition"
	FactorRegulatory     = "regulatory"
	FactorDataConfidence = "data_confidence"
)

// CompetitorInfo aggregates all mentions of one competitor.
// Name is the canonicalization key (title-cased); MentionCount is the number
// of context sentences that referenced it. Derived per request, never persisted.
type CompetitorInfo struct {
	Name           string `json:"name"`
	Positioning    string `json:"positioning"`
	Pricing        string `json:"pricing"`
	Geography      string `json:"geography"`
	Differentiator string `json:"differentiator"`
	SourceURL      string `json:"source_url"`
	MentionCount   int    `json:"mention_count"`
}

// RiskAnalysis groups human-readable, data-driven risk statements by category.
// Statements are not scored here; scoring happens downstream by keyword match.
type RiskAnalysis struct {
	Market       []string `json:"market"`
	Competition  []string `json:"competition"`
	Regulatory   []string `json:"regulatory"`
	Distribution []string `json:"distribution"`
}

// All returns every risk statement across categories
func (r RiskAnalysis) All() []string {
	var out []string
	out = append(out, r.Market...)
	out = append(out, r.Competition...)
	out = append(out, r.Regulatory...)
	out = append(out, r.Distribution...)
	return out
}

// DecisionResult is the complete verdict with scores and self-critique
type DecisionResult struct {
	Verdict               Verdict             `json:"verdict"`
	ConfidenceScore       int                 `json:"confidence_score"`
	OverallScore          float64             `json:"overall_score"`
	FactorScores          map[string]float64  `json:"factor_scores"`
	ConditionsToGo        []string            `json:"conditions_to_go"`
	DisconfirmingEvidence []string            `json:"disconfirming_evidence"`
	Reasoning             map[string][]string `json:"reasoning"`
}

// ConfidenceReport is the 0-100 evidence confidence assessment
type ConfidenceReport struct {
	Score              float64             `json:"score"`
	Explanation        string              `json:"explanation"`
	FactorScores       map[string]float64  `json:"factor_scores"`
	FactorExplanations map[string][]string `json:"factor_explanations"`
}
