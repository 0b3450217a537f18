// Package confidence computes the 0-100 evidence confidence score from
// source count, cross-source agreement, data freshness and the proportion of
// inferred data.
package confidence

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"marketscope/domain/decision"
	"marketscope/domain/evidence"
	"marketscope/domain/market"
	"marketscope/internal/errors"
	"marketscope/ports"
)

// Factor keys in the confidence report
const (
	FactorSourceCount = "source_count"
	FactorAgreement   = "agreement"
	FactorFreshness   = "freshness"
	FactorInferred    = "inferred"
)

// Factor weights: source count and agreement dominate
var factorWeights = map[string]float64{
	FactorSourceCount: 0.30,
	FactorAgreement:   0.30,
	FactorFreshness:   0.20,
	FactorInferred:    0.20,
}

// Scorer computes confidence reports over the evidence store
type Scorer struct {
	sources ports.SourceReaderPort
	facts   ports.FactReaderPort
	now     func() time.Time
}

// NewScorer creates a confidence scorer over the given stores
func NewScorer(sources ports.SourceReaderPort, facts ports.FactReaderPort) *Scorer {
	return &Scorer{sources: sources, facts: facts, now: time.Now}
}

// WithClock overrides the clock, for deterministic freshness tests
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score computes the weighted overall confidence with per-factor explanations
func (s *Scorer) Score(ctx context.Context) (*decision.ConfidenceReport, error) {
	sources, err := s.sources.AllSources(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sources")
	}
	facts, err := s.facts.AllFacts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load facts")
	}

	sourceScore, sourceNotes := ScoreSourceCount(sources)
	agreementScore, agreementNotes := ScoreAgreement(facts)
	freshnessScore, freshnessNotes := ScoreFreshness(sources, facts, s.now())
	inferredScore, inferredNotes := ScoreInferredProportion(facts)

	overall := sourceScore*factorWeights[FactorSourceCount] +
		agreementScore*factorWeights[FactorAgreement] +
		freshnessScore*factorWeights[FactorFreshness] +
		inferredScore*factorWeights[FactorInferred]

	report := &decision.ConfidenceReport{
		Score:       round1(overall),
		Explanation: buildExplanation(overall, sourceScore, agreementScore, freshnessScore, inferredScore, sourceNotes, agreementNotes, freshnessNotes, inferredNotes),
		FactorScores: map[string]float64{
			FactorSourceCount: round1(sourceScore),
			FactorAgreement:   round1(agreementScore),
			FactorFreshness:   round1(freshnessScore),
			FactorInferred:    round1(inferredScore),
		},
		FactorExplanations: map[string][]string{
			FactorSourceCount: sourceNotes,
			FactorAgreement:   agreementNotes,
			FactorFreshness:   freshnessNotes,
			FactorInferred:    inferredNotes,
		},
	}
	return report, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ScoreSourceCount scores source diversity on a fixed ladder
func ScoreSourceCount(sources []evidence.Source) (float64, []string) {
	n := len(sources)
	switch {
	case n == 0:
		return 0, []string{"No sources found - cannot assess confidence"}
	case n == 1:
		return 30, []string{"Only 1 source - single point of failure risk"}
	case n == 2:
		return 50, []string{"2 sources - limited validation"}
	case n == 3:
		return 65, []string{"3 sources - moderate validation"}
	case n < 8:
		return 80, []string{fmt.Sprintf("%d sources - good source diversity", n)}
	default:
		return 95, []string{fmt.Sprintf("%d sources - excellent source diversity", n)}
	}
}

// ScoreAgreement groups numeric, non-inferred facts by (type, unit) and maps
// the coefficient of variation of each group to an agreement score.
func ScoreAgreement(facts []market.Fact) (float64, []string) {
	var numeric []market.Fact
	for _, f := range facts {
		if f.Value != nil && !f.IsInferred {
			numeric = append(numeric, f)
		}
	}
	if len(numeric) < 2 {
		return 50, []string{"Insufficient numeric data for agreement assessment (< 2 facts)"}
	}

	grouped := map[string][]float64{}
	for _, f := range numeric {
		key := string(f.Type) + "_" + f.Unit
		grouped[key] = append(grouped[key], *f.Value)
	}

	var groupScores []float64
	for _, values := range grouped {
		if len(values) < 2 {
			continue
		}
		mean, _ := stats.Mean(values)
		if mean == 0 {
			continue
		}
		stdev, _ := stats.StandardDeviationSample(values)
		cv := stdev / math.Abs(mean)
		switch {
		case cv < 0.1:
			groupScores = append(groupScores, 100)
		case cv < 0.2:
			groupScores = append(groupScores, 80)
		case cv < 0.5:
			groupScores = append(groupScores, 60)
		default:
			groupScores = append(groupScores, 40)
		}
	}

	if len(groupScores) == 0 {
		return 50, []string{"Cannot assess agreement - insufficient comparable numeric data"}
	}

	score, _ := stats.Mean(groupScores)
	notes := []string{fmt.Sprintf(
		"Agreement assessed across %d fact type(s) - average agreement score: %.1f/100",
		len(groupScores), score)}
	switch {
	case score >= 80:
		notes = append(notes, "High agreement between sources - values are consistent")
	case score >= 60:
		notes = append(notes, "Moderate agreement between sources - some variation present")
	default:
		notes = append(notes, "Low agreement between sources - significant variation in values")
	}
	return score, notes
}

// ScoreFreshness scores the age of the most recent timestamp across sources
// and facts, with a penalty when the average age exceeds a year.
func ScoreFreshness(sources []evidence.Source, facts []market.Fact, now time.Time) (float64, []string) {
	var timestamps []time.Time
	for _, s := range sources {
		if !s.RetrievedAt.IsZero() {
			timestamps = append(timestamps, s.RetrievedAt.Time())
		}
	}
	for _, f := range facts {
		if !f.Timestamp.IsZero() {
			timestamps = append(timestamps, f.Timestamp.Time())
		}
	}

	if len(timestamps) == 0 {
		return 30, []string{"Cannot assess freshness - no timestamps available"}
	}

	mostRecent := timestamps[0]
	for _, ts := range timestamps[1:] {
		if ts.After(mostRecent) {
			mostRecent = ts
		}
	}
	ageDays := int(now.Sub(mostRecent).Hours() / 24)

	var score float64
	var note string
	switch {
	case ageDays <= 30:
		score, note = 95, "Very fresh data"
	case ageDays <= 90:
		score, note = 80, "Recent data"
	case ageDays <= 180:
		score, note = 65, "Moderately fresh data"
	case ageDays <= 365:
		score, note = 50, "Somewhat dated data"
	case ageDays <= 730:
		score, note = 35, "Dated data"
	default:
		score, note = 20, "Very dated data"
	}
	notes := []string{fmt.Sprintf("%s - most recent source is %d day(s) old", note, ageDays)}

	totalAge := 0.0
	for _, ts := range timestamps {
		totalAge += now.Sub(ts).Hours() / 24
	}
	avgAge := totalAge / float64(len(timestamps))
	if avgAge > 365 {
		score *= 0.8
		notes = append(notes, fmt.Sprintf(
			"Average data age is %.0f days - some sources may be outdated", avgAge))
	}

	return score, notes
}

// ScoreInferredProportion scores inversely to the share of numeric facts that
// are inferred placeholders.
func ScoreInferredProportion(facts []market.Fact) (float64, []string) {
	if len(facts) == 0 {
		return 0, []string{"No facts available - cannot assess data quality"}
	}

	numeric, inferred := 0, 0
	for _, f := range facts {
		if f.Value != nil {
			numeric++
			if f.IsInferred {
				inferred++
			}
		}
	}
	if numeric == 0 {
		return 30, []string{"No numeric facts found - all data is non-numeric"}
	}

	proportion := float64(inferred) / float64(numeric)
	score := (1 - proportion) * 100
	extracted := numeric - inferred

	var note string
	switch {
	case proportion == 0:
		note = fmt.Sprintf("All %d numeric fact(s) are extracted (0%% inferred) - high data quality", numeric)
	case proportion < 0.1:
		note = fmt.Sprintf("Low inferred proportion (%.1f%%) - %d extracted, %d inferred",
			proportion*100, extracted, inferred)
	case proportion < 0.3:
		note = fmt.Sprintf("Moderate inferred proportion (%.1f%%) - %d extracted, %d inferred",
			proportion*100, extracted, inferred)
	default:
		note = fmt.Sprintf("High inferred proportion (%.1f%%) - %d extracted, %d inferred - data quality concerns",
			proportion*100, extracted, inferred)
	}
	return score, []string{note}
}

func buildExplanation(overall, sourceScore, agreementScore, freshnessScore, inferredScore float64, sourceNotes, agreementNotes, freshnessNotes, inferredNotes []string) string {
	var parts []string

	switch {
	case overall >= 80:
		parts = append(parts, fmt.Sprintf("High confidence score (%.1f/100) - evidence quality is strong.", overall))
	case overall >= 60:
		parts = append(parts, fmt.Sprintf("Moderate confidence score (%.1f/100) - evidence quality is acceptable with some concerns.", overall))
	case overall >= 40:
		parts = append(parts, fmt.Sprintf("Low confidence score (%.1f/100) - evidence quality has significant concerns.", overall))
	default:
		parts = append(parts, fmt.Sprintf("Very low confidence score (%.1f/100) - evidence quality is poor.", overall))
	}

	parts = append(parts, "\nFactor breakdown:")
	parts = append(parts, fmt.Sprintf("  • Source count (%.1f/100): %s", sourceScore, strings.Join(sourceNotes, "; ")))
	parts = append(parts, fmt.Sprintf("  • Source agreement (%.1f/100): %s", agreementScore, strings.Join(agreementNotes, "; ")))
	parts = append(parts, fmt.Sprintf("  • Data freshness (%.1f/100): %s", freshnessScore, strings.Join(freshnessNotes, "; ")))
	parts = append(parts, fmt.Sprintf("  • Inferred data proportion (%.1f/100): %s", inferredScore, strings.Join(inferredNotes, "; ")))

	var strengths, weaknesses []string
	appendRating := func(score float64, strength, weakness string) {
		if score >= 70 {
			strengths = append(strengths, strength)
		} else if score < 50 {
			weaknesses = append(weaknesses, weakness)
		}
	}
	appendRating(sourceScore, "good source diversity", "limited source count")
	appendRating(agreementScore, "high agreement between sources", "low agreement between sources")
	appendRating(freshnessScore, "recent data", "dated data")
	appendRating(inferredScore, "mostly extracted (not inferred) data", "high proportion of inferred data")

	if len(strengths) > 0 {
		parts = append(parts, fmt.Sprintf("\nKey strengths: %s", strings.Join(strengths, ", ")))
	}
	if len(weaknesses) > 0 {
		parts = append(parts, fmt.Sprintf("Key weaknesses: %s", strings.Join(weaknesses, ", ")))
	}

	return strings.Join(parts, "\n")
}
