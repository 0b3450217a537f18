package confidence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketscope/domain/core"
	"marketscope/domain/evidence"
	"marketscope/domain/market"
)

func ptr(v float64) *float64 { return &v }

type stubStore struct {
	sources []evidence.Source
	facts   []market.Fact
}

func (s *stubStore) AllSources(context.Context) ([]evidence.Source, error) {
	return s.sources, nil
}

func (s *stubStore) FactSnapshot(context.Context) (market.FactSet, error) {
	return market.FactSet{}, nil
}

func (s *stubStore) AllFacts(context.Context) ([]market.Fact, error) {
	return s.facts, nil
}

func sourcesOf(n int) []evidence.Source {
	out := make([]evidence.Source, n)
	for i := range out {
		out[i] = evidence.Source{URL: "https://example.com", Credibility: evidence.CredibilityHigh}
	}
	return out
}

func TestScoreSourceCountLadder(t *testing.T) {
	cases := []struct {
		count int
		want  float64
	}{
		{0, 0}, {1, 30}, {2, 50}, {3, 65}, {4, 80}, {7, 80}, {8, 95}, {12, 95},
	}
	for _, tc := range cases {
		score, notes := ScoreSourceCount(sourcesOf(tc.count))
		assert.Equal(t, tc.want, score, "count=%d", tc.count)
		assert.NotEmpty(t, notes)
	}
}

func TestScoreAgreementTooFewFacts(t *testing.T) {
	score, notes := ScoreAgreement([]market.Fact{
		{Type: market.FactMarketSize, Value: ptr(50), Unit: "billion"},
	})
	assert.Equal(t, 50.0, score)
	assert.Contains(t, notes[0], "Insufficient numeric data")
}

func TestScoreAgreementIgnoresInferredFacts(t *testing.T) {
	score, _ := ScoreAgreement([]market.Fact{
		{Type: market.FactMarketSize, Value: ptr(50), Unit: "billion"},
		{Type: market.FactMarketSize, Value: ptr(500), Unit: "billion", IsInferred: true},
	})
	assert.Equal(t, 50.0, score, "inferred facts must not enter agreement groups")
}

func TestScoreAgreementTightGroup(t *testing.T) {
	score, notes := ScoreAgreement([]market.Fact{
		{Type: market.FactMarketSize, Value: ptr(100), Unit: "billion"},
		{Type: market.FactMarketSize, Value: ptr(102), Unit: "billion"},
	})
	assert.Equal(t, 100.0, score)
	assert.Contains(t, notes[1], "High agreement")
}

func TestScoreAgreementAveragesGroups(t *testing.T) {
	facts := []market.Fact{
		// tight market size group: CV well under 0.1
		{Type: market.FactMarketSize, Value: ptr(100), Unit: "billion"},
		{Type: market.FactMarketSize, Value: ptr(102), Unit: "billion"},
		// wildly disagreeing pricing group: CV over 0.5
		{Type: market.FactPricing, Value: ptr(10), Unit: "per month"},
		{Type: market.FactPricing, Value: ptr(100), Unit: "per month"},
	}
	score, _ := ScoreAgreement(facts)
	assert.Equal(t, 70.0, score, "mean of group scores 100 and 40")
}

func TestScoreAgreementSingletonGroupsOnly(t *testing.T) {
	score, notes := ScoreAgreement([]market.Fact{
		{Type: market.FactMarketSize, Value: ptr(50), Unit: "billion"},
		{Type: market.FactPricing, Value: ptr(99), Unit: "per month"},
	})
	assert.Equal(t, 50.0, score)
	assert.Contains(t, notes[0], "insufficient comparable numeric data")
}

func TestScoreFreshnessLadder(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		ageDays int
		want    float64
	}{
		{10, 95}, {60, 80}, {120, 65}, {300, 50}, {500, 35}, {900, 20},
	}
	for _, tc := range cases {
		facts := []market.Fact{
			{Timestamp: core.NewTimestamp(now.AddDate(0, 0, -tc.ageDays))},
		}
		score, _ := ScoreFreshness(nil, facts, now)
		assert.Equal(t, tc.want, score, "ageDays=%d", tc.ageDays)
	}
}

func TestScoreFreshnessUsesMostRecentTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	sources := []evidence.Source{
		{RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -200))},
		{RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -10))},
	}
	score, notes := ScoreFreshness(sources, nil, now)
	assert.Equal(t, 95.0, score)
	assert.Contains(t, notes[0], "10 day(s) old")
}

func TestScoreFreshnessAverageAgePenalty(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	sources := []evidence.Source{
		{RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -10))},
		{RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -1000))},
	}
	score, notes := ScoreFreshness(sources, nil, now)
	assert.InDelta(t, 95*0.8, score, 1e-9, "average age 505 days triggers the 0.8 penalty")
	require.Len(t, notes, 2)
	assert.Contains(t, notes[1], "may be outdated")
}

func TestScoreFreshnessNoTimestamps(t *testing.T) {
	score, notes := ScoreFreshness(nil, nil, time.Now())
	assert.Equal(t, 30.0, score)
	assert.Contains(t, notes[0], "no timestamps")
}

func TestScoreInferredProportion(t *testing.T) {
	score, _ := ScoreInferredProportion(nil)
	assert.Equal(t, 0.0, score, "no facts at all")

	score, _ = ScoreInferredProportion([]market.Fact{{Context: "no numbers here"}})
	assert.Equal(t, 30.0, score, "no numeric facts")

	allExtracted := []market.Fact{
		{Value: ptr(1)}, {Value: ptr(2)}, {Value: ptr(3)},
	}
	score, notes := ScoreInferredProportion(allExtracted)
	assert.Equal(t, 100.0, score)
	assert.Contains(t, notes[0], "high data quality")

	oneOfFour := []market.Fact{
		{Value: ptr(1)}, {Value: ptr(2)}, {Value: ptr(3)}, {Value: ptr(4), IsInferred: true},
	}
	score, _ = ScoreInferredProportion(oneOfFour)
	assert.Equal(t, 75.0, score)
}

func TestScoreWeightsFactors(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	store := &stubStore{
		sources: []evidence.Source{
			{URL: "https://a.example.com", RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -10))},
			{URL: "https://b.example.com", RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -12))},
			{URL: "https://c.example.com", RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -15))},
			{URL: "https://d.example.com", RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -20))},
		},
		facts: []market.Fact{
			{Type: market.FactMarketSize, Value: ptr(100), Unit: "billion", Timestamp: core.NewTimestamp(now.AddDate(0, 0, -10))},
			{Type: market.FactMarketSize, Value: ptr(102), Unit: "billion", Timestamp: core.NewTimestamp(now.AddDate(0, 0, -12))},
		},
	}
	scorer := NewScorer(store, store).WithClock(func() time.Time { return now })

	report, err := scorer.Score(context.Background())
	require.NoError(t, err)

	// sources 4 -> 80, agreement 100, freshness 95, inferred 100
	assert.Equal(t, 80.0, report.FactorScores[FactorSourceCount])
	assert.Equal(t, 100.0, report.FactorScores[FactorAgreement])
	assert.Equal(t, 95.0, report.FactorScores[FactorFreshness])
	assert.Equal(t, 100.0, report.FactorScores[FactorInferred])
	assert.Equal(t, 93.0, report.Score, "80*0.3 + 100*0.3 + 95*0.2 + 100*0.2")

	assert.Contains(t, report.Explanation, "High confidence score")
	assert.Contains(t, report.Explanation, "Factor breakdown")
	assert.Contains(t, report.Explanation, "Key strengths")
	require.Len(t, report.FactorExplanations, 4)
}
