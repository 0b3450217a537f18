package market

import (
	"marketscope/domain/core"
)

// FactType classifies an extracted fact
type FactType string

const (
	FactMarketSize FactType = "market_size"
	FactGrowthRate FactType = "growth_rate"
	FactPricing    FactType = "pricing"
	FactCompetitor FactType = "competitor"
	FactRegulatory FactType = "regulatory"
)

// AllFactTypes lists every fact category in stable order
func AllFactTypes() []FactType {
	return []FactType{FactMarketSize, FactGrowthRate, FactPricing, FactCompetitor, FactRegulatory}
}

// Fact is a single extracted data point with full source traceability.
// Immutable once created. Facts with IsInferred=true document an absence of
// data and are excluded from all quantitative calculations.
type Fact struct {
	ID   core.FactID `json:"id"`
	Type FactType    `json:"fact_type"`
	// Value holds the numeric payload for quantitative fact types
	Value *float64 `json:"value"`
	// Entity holds the named subject for competitor and regulatory facts
	Entity     string         `json:"entity,omitempty"`
	Unit       string         `json:"unit"`
	Context    string         `json:"context"`
	SourceURL  string         `json:"source_url"`
	IsInferred bool           `json:"is_inferred"`
	Timestamp  core.Timestamp `json:"timestamp"`
}

// HasValue reports whether the fact carries a usable numeric value
func (f Fact) HasValue() bool {
	return f.Value != nil && !f.IsInferred
}

// FactSet groups facts by category for one analysis run.
// It is the immutable input snapshot every core function operates on.
type FactSet map[FactType][]Fact

// ByType returns the facts for one category (nil-safe)
func (fs FactSet) ByType(t FactType) []Fact {
	if fs == nil {
		return nil
	}
	return fs[t]
}

// All returns every fact across categories in stable category order
func (fs FactSet) All() []Fact {
	var out []Fact
	for _, t := range AllFactTypes() {
		out = append(out, fs[t]...)
	}
	return out
}

// QualityLevel rates the reliability of a fact collection
type QualityLevel string

const (
	QualityHigh   QualityLevel = "high"
	QualityMedium QualityLevel = "medium"
	QualityLow    QualityLevel = "low"
)

// QualityReport summarizes the reliability assessment of one fact category
type QualityReport struct {
	Count             int          `json:"count"`
	HasNumericData    bool         `json:"has_numeric_data"`
	UnitConsistency   bool         `json:"unit_consistency"`
	SourceDiversity   int          `json:"source_diversity"`
	Score             QualityLevel `json:"quality_score"`
	HasLowCredibility bool         `json:"has_low_credibility"`
	ShouldWidenRanges bool         `json:"should_widen_ranges"`
}

// MarketEstimate is a range-valued market size estimate in billions USD.
// Invariant: Min <= Base <= Max, all >= 0.
type MarketEstimate struct {
	Min              float64      `json:"min"`
	Base             float64      `json:"base"`
	Max              float64      `json:"max"`
	Method           string       `json:"method"`
	Formula          string       `json:"formula"`
	Assumptions      []string     `json:"assumptions"`
	SensitivityNotes []string     `json:"sensitivity_notes"`
	DataQuality      QualityLevel `json:"data_quality"`
}

// RangeRatio returns (max-min)/base, the relative width of the range.
// A base of zero yields 1.0 so degenerate estimates read as fully uncertain.
func (e MarketEstimate) RangeRatio() float64 {
	if e.Base <= 0 {
		return 1.0
	}
	return (e.Max - e.Min) / e.Base
}

// MarketModel is a complete TAM/SAM/SOM model with source traceability
type MarketModel struct {
	TAM               MarketEstimate `json:"tam"`
	SAM               MarketEstimate `json:"sam"`
	SOM               MarketEstimate `json:"som"`
	EvidenceSources   []string       `json:"evidence_sources"`
	OverallConfidence QualityLevel   `json:"overall_confidence"`
}

// OverallConfidence derives model-level confidence from the three estimate
// qualities: high iff all are high, low iff none is high, medium otherwise.
func OverallConfidence(tam, sam, som QualityLevel) QualityLevel {
	qualities := []QualityLevel{tam, sam, som}
	high := 0
	for _, q := range qualities {
		if q == QualityHigh {
			high++
		}
	}
	switch {
	case high == len(qualities):
		return QualityHigh
	case high == 0:
		return QualityLow
	default:
		return QualityMedium
	}
}
