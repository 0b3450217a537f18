// Package risk derives category-specific, data-driven risk statements from
// fact patterns. It produces text only; scoring happens downstream in the
// decision engine by keyword matching over these statements.
package risk

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"marketscope/domain/decision"
	"marketscope/domain/market"
)

// regulatoryAgencies are checked in declared order
var regulatoryAgencies = []string{"FDA", "SEC", "FTC", "EPA", "GDPR", "HIPAA", "PCI", "SOC"}

var complianceKeywords = []string{"approval", "compliance", "regulation", "license", "permit"}

var restrictiveKeywords = []string{"restrict", "prohibit", "ban", "limit", "require"}

// Analyze runs all four risk analyses over a fact snapshot. The snapshot may
// include inferred placeholder facts; they carry no values but their presence
// is itself reported as a risk.
func Analyze(snapshot market.FactSet, competitors []decision.CompetitorInfo) decision.RiskAnalysis {
	return decision.RiskAnalysis{
		Market: AnalyzeMarket(
			snapshot.ByType(market.FactMarketSize),
			snapshot.ByType(market.FactGrowthRate)),
		Competition: AnalyzeCompetition(
			snapshot.ByType(market.FactCompetitor), competitors),
		Regulatory: AnalyzeRegulatory(
			snapshot.ByType(market.FactRegulatory)),
		Distribution: AnalyzeDistribution(
			snapshot.ByType(market.FactPricing),
			snapshot.ByType(market.FactMarketSize)),
	}
}

func numericValues(facts []market.Fact) []float64 {
	var values []float64
	for _, f := range facts {
		if f.Value != nil {
			values = append(values, *f.Value)
		}
	}
	return values
}

// AnalyzeMarket reports risks from market-size and growth-rate data coverage
func AnalyzeMarket(marketSizeFacts, growthRateFacts []market.Fact) []string {
	var risks []string

	switch {
	case len(marketSizeFacts) == 0:
		risks = append(risks,
			"No market size data found in sources - market size estimates are highly uncertain")
	case len(marketSizeFacts) == 1:
		risks = append(risks, fmt.Sprintf(
			"Only one market size data point found - high uncertainty in market size estimate (source: %s)",
			marketSizeFacts[0].SourceURL))
	default:
		values := numericValues(marketSizeFacts)
		if len(values) > 1 {
			minVal, _ := stats.Min(values)
			maxVal, _ := stats.Max(values)
			mean, _ := stats.Mean(values)
			if mean > 0 {
				variationPct := (maxVal - minVal) / mean * 100
				if variationPct > 50 {
					risks = append(risks, fmt.Sprintf(
						"Market size estimates vary by %.1f%% across sources - suggests inconsistent market definitions or data quality issues",
						variationPct))
				}
			}
		}
	}

	if len(growthRateFacts) == 0 {
		risks = append(risks,
			"No growth rate data found - cannot assess market growth trajectory")
	} else if values := numericValues(growthRateFacts); len(values) > 0 {
		avg, _ := stats.Mean(values)
		minGrowth, _ := stats.Min(values)
		if avg < 5 {
			risks = append(risks, fmt.Sprintf(
				"Market growth rate is low (%.1f%% average) - indicates slow-growing or mature market", avg))
		} else if minGrowth < 0 {
			risks = append(risks, fmt.Sprintf(
				"Some sources indicate negative growth (%.1f%%) - market may be declining", minGrowth))
		}
	}

	inferred := 0
	for _, f := range marketSizeFacts {
		if f.IsInferred {
			inferred++
		}
	}
	if inferred > 0 {
		risks = append(risks, fmt.Sprintf(
			"%d market size fact(s) marked as inferred - data quality may be insufficient for reliable estimates",
			inferred))
	}

	return risks
}

// AnalyzeCompetition reports risks from competitor counts, positioning
// concentration and mention frequency.
func AnalyzeCompetition(competitorFacts []market.Fact, competitors []decision.CompetitorInfo) []string {
	if len(competitorFacts) == 0 {
		return []string{"No competitor data found - competitive landscape is unknown"}
	}

	var risks []string
	unique := len(competitors)

	switch {
	case unique == 0:
		risks = append(risks,
			"No competitors identified - may indicate new market or incomplete research")
	case unique >= 10:
		risks = append(risks, fmt.Sprintf(
			"High number of competitors identified (%d) - indicates crowded, competitive market", unique))
	case unique >= 5:
		risks = append(risks, fmt.Sprintf(
			"Moderate number of competitors (%d) - market has established players", unique))
	}

	// Positioning concentration: 3+ competitors in one bucket with 5+ total
	positioningCounts := map[string]int{}
	var positioningOrder []string
	for _, c := range competitors {
		if _, seen := positioningCounts[c.Positioning]; !seen {
			positioningOrder = append(positioningOrder, c.Positioning)
		}
		positioningCounts[c.Positioning]++
	}
	mostCommon, mostCount := "", 0
	for _, p := range positioningOrder {
		if positioningCounts[p] > mostCount {
			mostCommon, mostCount = p, positioningCounts[p]
		}
	}
	if mostCount >= 3 && unique >= 5 {
		risks = append(risks, fmt.Sprintf(
			"Multiple competitors (%d) targeting same positioning (%s) - high competition in this segment",
			mostCount, mostCommon))
	}

	frequentlyMentioned := 0
	for _, c := range competitors {
		if c.MentionCount >= 3 {
			frequentlyMentioned++
		}
	}
	if frequentlyMentioned > 0 {
		risks = append(risks, fmt.Sprintf(
			"Several competitors mentioned frequently (%d) - indicates well-established market leaders",
			frequentlyMentioned))
	}

	return risks
}

// AnalyzeRegulatory reports risks from agency mentions, compliance language
// and restrictive language in regulatory facts.
func AnalyzeRegulatory(regulatoryFacts []market.Fact) []string {
	if len(regulatoryFacts) == 0 {
		return []string{"No regulatory mentions found - regulatory requirements may be unknown or unassessed"}
	}

	var risks []string

	var mentions, contexts []string
	for _, f := range regulatoryFacts {
		mentions = append(mentions, strings.ToLower(f.Entity))
		contexts = append(contexts, strings.ToLower(f.Context))
	}

	var foundAgencies []string
	for _, agency := range regulatoryAgencies {
		needle := strings.ToLower(agency)
		found := false
		for i := range mentions {
			if strings.Contains(mentions[i], needle) || strings.Contains(contexts[i], needle) {
				found = true
				break
			}
		}
		if found {
			foundAgencies = append(foundAgencies, agency)
		}
	}
	if len(foundAgencies) > 0 {
		risks = append(risks, fmt.Sprintf(
			"Regulatory oversight identified: %s - compliance requirements may be significant",
			strings.Join(foundAgencies, ", ")))
	}

	complianceMentions := 0
	for _, ctx := range contexts {
		for _, kw := range complianceKeywords {
			if strings.Contains(ctx, kw) {
				complianceMentions++
				break
			}
		}
	}
	if complianceMentions > 0 {
		risks = append(risks, fmt.Sprintf(
			"Multiple regulatory requirements mentioned (%d) - may require significant compliance effort and time",
			complianceMentions))
	}

	restrictive := false
	for _, ctx := range contexts {
		for _, kw := range restrictiveKeywords {
			if strings.Contains(ctx, kw) {
				restrictive = true
				break
			}
		}
		if restrictive {
			break
		}
	}
	if restrictive {
		risks = append(risks,
			"Restrictive regulatory language found - may limit market entry or operations")
	}

	return risks
}

// AnalyzeDistribution reports channel-economics risks from pricing spread and
// price floors.
func AnalyzeDistribution(pricingFacts, marketSizeFacts []market.Fact) []string {
	var risks []string

	if len(pricingFacts) == 0 {
		risks = append(risks,
			"No pricing data found - distribution channel economics cannot be assessed")
	} else if prices := numericValues(pricingFacts); len(prices) > 0 {
		if len(prices) > 1 {
			minPrice, _ := stats.Min(prices)
			maxPrice, _ := stats.Max(prices)
			mean, _ := stats.Mean(prices)
			if mean > 0 {
				variationPct := (maxPrice - minPrice) / mean * 100
				if variationPct > 100 {
					risks = append(risks, fmt.Sprintf(
						"Pricing varies significantly (%.1f%% range) - indicates diverse pricing models or market segments, may complicate distribution strategy",
						variationPct))
				}
			}
		}

		minPrice, _ := stats.Min(prices)
		monthly := false
		for _, f := range pricingFacts {
			if strings.Contains(strings.ToLower(f.Unit), "month") {
				monthly = true
				break
			}
		}
		if monthly {
			if minPrice < 10 {
				risks = append(risks, fmt.Sprintf(
					"Very low pricing found ($%.2f/month minimum) - may require high volume distribution channels to be viable",
					minPrice))
			}
		} else if minPrice < 100 {
			risks = append(risks, fmt.Sprintf(
				"Low pricing found ($%.2f minimum) - may require efficient, low-cost distribution channels",
				minPrice))
		}
	}

	if len(marketSizeFacts) > 0 {
		if values := numericValues(marketSizeFacts); len(values) > 0 {
			risks = append(risks,
				"Market size data available but distribution channel analysis requires additional data on customer acquisition channels and costs")
		}
	} else {
		risks = append(risks,
			"No market size data - cannot assess scale requirements for distribution channels")
	}

	return risks
}
