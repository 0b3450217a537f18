package risk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketscope/domain/decision"
	"marketscope/domain/market"
)

func ptr(v float64) *float64 { return &v }

func containsSubstring(risks []string, substr string) bool {
	for _, r := range risks {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

func TestAnalyzeMarketNoData(t *testing.T) {
	risks := AnalyzeMarket(nil, nil)
	assert.True(t, containsSubstring(risks, "No market size data found"))
	assert.True(t, containsSubstring(risks, "No growth rate data found"))
}

func TestAnalyzeMarketSingleDataPoint(t *testing.T) {
	facts := []market.Fact{
		{Type: market.FactMarketSize, Value: ptr(50), SourceURL: "https://a.example.com"},
	}
	risks := AnalyzeMarket(facts, nil)
	assert.True(t, containsSubstring(risks, "Only one market size data point"))
	assert.True(t, containsSubstring(risks, "https://a.example.com"))
}

func TestAnalyzeMarketHighVariation(t *testing.T) {
	facts := []market.Fact{
		{Type: market.FactMarketSize, Value: ptr(10), SourceURL: "https://a.example.com"},
		{Type: market.FactMarketSize, Value: ptr(100), SourceURL: "https://b.example.com"},
	}
	risks := AnalyzeMarket(facts, nil)
	assert.True(t, containsSubstring(risks, "vary by"), "90/55 mean = >50%% variation")
}

func TestAnalyzeMarketLowAndNegativeGrowth(t *testing.T) {
	growth := []market.Fact{{Type: market.FactGrowthRate, Value: ptr(2.0)}}
	risks := AnalyzeMarket([]market.Fact{{Value: ptr(50)}, {Value: ptr(52)}}, growth)
	assert.True(t, containsSubstring(risks, "growth rate is low"))

	negative := []market.Fact{
		{Type: market.FactGrowthRate, Value: ptr(20.0)},
		{Type: market.FactGrowthRate, Value: ptr(-5.0)},
	}
	risks = AnalyzeMarket([]market.Fact{{Value: ptr(50)}, {Value: ptr(52)}}, negative)
	assert.True(t, containsSubstring(risks, "negative growth"))
}

func TestAnalyzeCompetitionNoFacts(t *testing.T) {
	risks := AnalyzeCompetition(nil, nil)
	require.Len(t, risks, 1)
	assert.Contains(t, risks[0], "No competitor data found")
}

func TestAnalyzeCompetitionCrowdedMarket(t *testing.T) {
	facts := make([]market.Fact, 1)
	competitors := make([]decision.CompetitorInfo, 10)
	for i := range competitors {
		competitors[i] = decision.CompetitorInfo{Name: string(rune('A' + i)), Positioning: "saas"}
	}
	risks := AnalyzeCompetition(facts, competitors)
	assert.True(t, containsSubstring(risks, "High number of competitors identified (10)"))
}

func TestAnalyzeCompetitionPositioningConcentration(t *testing.T) {
	facts := make([]market.Fact, 1)
	competitors := []decision.CompetitorInfo{
		{Name: "A", Positioning: "enterprise"},
		{Name: "B", Positioning: "enterprise"},
		{Name: "C", Positioning: "enterprise"},
		{Name: "D", Positioning: "consumer"},
		{Name: "E", Positioning: "budget"},
	}
	risks := AnalyzeCompetition(facts, competitors)
	assert.True(t, containsSubstring(risks, "targeting same positioning (enterprise)"))
}

func TestAnalyzeCompetitionFrequentMentions(t *testing.T) {
	facts := make([]market.Fact, 1)
	competitors := []decision.CompetitorInfo{
		{Name: "A", MentionCount: 4},
		{Name: "B", MentionCount: 3},
	}
	risks := AnalyzeCompetition(facts, competitors)
	assert.True(t, containsSubstring(risks, "well-established market leaders"))
}

func TestAnalyzeRegulatoryNoFacts(t *testing.T) {
	risks := AnalyzeRegulatory(nil)
	require.Len(t, risks, 1)
	assert.Contains(t, risks[0], "No regulatory mentions found")
}

func TestAnalyzeRegulatoryAgenciesAndLanguage(t *testing.T) {
	facts := []market.Fact{
		{Type: market.FactRegulatory, Entity: "FDA", Context: "FDA approval is required before launch"},
		{Type: market.FactRegulatory, Entity: "GDPR", Context: "GDPR compliance restricts data handling"},
	}
	risks := AnalyzeRegulatory(facts)
	assert.True(t, containsSubstring(risks, "FDA, GDPR"))
	assert.True(t, containsSubstring(risks, "regulatory requirements mentioned (2)"))
	assert.True(t, containsSubstring(risks, "Restrictive regulatory language"))
}

func TestAnalyzeDistributionNoPricing(t *testing.T) {
	risks := AnalyzeDistribution(nil, nil)
	assert.True(t, containsSubstring(risks, "No pricing data found"))
	assert.True(t, containsSubstring(risks, "No market size data"))
}

func TestAnalyzeDistributionLowMonthlyPricing(t *testing.T) {
	pricing := []market.Fact{
		{Type: market.FactPricing, Value: ptr(5), Unit: "per month"},
	}
	risks := AnalyzeDistribution(pricing, nil)
	assert.True(t, containsSubstring(risks, "Very low pricing found ($5.00/month"))
}

func TestAnalyzeDistributionLowAnnualPricing(t *testing.T) {
	pricing := []market.Fact{
		{Type: market.FactPricing, Value: ptr(49), Unit: "per year"},
	}
	risks := AnalyzeDistribution(pricing, nil)
	assert.True(t, containsSubstring(risks, "Low pricing found ($49.00"))
}

func TestAnalyzeDistributionWideSpread(t *testing.T) {
	pricing := []market.Fact{
		{Type: market.FactPricing, Value: ptr(100), Unit: "per year"},
		{Type: market.FactPricing, Value: ptr(5000), Unit: "per year"},
	}
	risks := AnalyzeDistribution(pricing, []market.Fact{{Value: ptr(50)}})
	assert.True(t, containsSubstring(risks, "Pricing varies significantly"))
	assert.True(t, containsSubstring(risks, "customer acquisition channels"))
}
