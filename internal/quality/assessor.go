// Package quality assesses the reliability of a fact collection before it
// feeds the estimation chain. Assessment is a pure read: the credibility
// lookup is injected, never queried from a hidden global store.
package quality

import (
	"context"

	"marketscope/domain/market"
	"marketscope/internal/errors"
	"marketscope/ports"
)

// Assessor scores fact collections as high/medium/low reliability
type Assessor struct {
	credibility ports.CredibilityPort
}

// NewAssessor creates an assessor backed by the given credibility lookup
func NewAssessor(credibility ports.CredibilityPort) *Assessor {
	return &Assessor{credibility: credibility}
}

// Assess scores one fact category. The low-credibility check covers every
// stored claim of this type, not just the facts in the snapshot.
func (a *Assessor) Assess(ctx context.Context, factType market.FactType, facts []market.Fact) (market.QualityReport, error) {
	hasLowCred := false
	if a.credibility != nil {
		var err error
		hasLowCred, err = a.credibility.HasLowCredibility(ctx, string(factType))
		if err != nil {
			return market.QualityReport{}, errors.Wrap(err, "credibility lookup failed")
		}
	}
	return AssessFacts(facts, hasLowCred), nil
}

// AssessFacts is the pure scoring rule over a fact snapshot.
//
// high requires at least 3 numeric facts from 2+ distinct sources with a
// consistent unit and no low-credibility claims; medium requires at least one
// numeric fact from one source; everything else is low. Any low-credibility
// claim downgrades one level and flags the ranges for widening.
func AssessFacts(facts []market.Fact, hasLowCredibility bool) market.QualityReport {
	if len(facts) == 0 {
		return market.QualityReport{
			Score: market.QualityLow,
		}
	}

	numeric := 0
	units := map[string]struct{}{}
	sources := map[string]struct{}{}
	for _, f := range facts {
		if f.Value != nil {
			numeric++
			if f.Unit != "" {
				units[f.Unit] = struct{}{}
			}
		}
		sources[f.SourceURL] = struct{}{}
	}

	unitConsistent := len(units) <= 1
	diversity := len(sources)

	score := market.QualityLow
	if numeric >= 3 && diversity >= 2 && unitConsistent && !hasLowCredibility {
		score = market.QualityHigh
	} else if numeric >= 1 && diversity >= 1 {
		score = market.QualityMedium
	}

	// Low-credibility claims anywhere in the ledger downgrade one level
	if hasLowCredibility {
		switch score {
		case market.QualityHigh:
			score = market.QualityMedium
		case market.QualityMedium:
			score = market.QualityLow
		}
	}

	return market.QualityReport{
		Count:             len(facts),
		HasNumericData:    numeric > 0,
		UnitConsistency:   unitConsistent,
		SourceDiversity:   diversity,
		Score:             score,
		HasLowCredibility: hasLowCredibility,
		ShouldWidenRanges: hasLowCredibility,
	}
}
