// Package estimation computes range-valued TAM/SAM/SOM market models from
// extracted facts. Every estimate carries its method, formula, assumptions and
// sensitivity notes; degenerate inputs still produce explanatory estimates
// rather than silent zeros.
package estimation

import (
	"context"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"marketscope/domain/market"
	"marketscope/internal/errors"
	"marketscope/internal/quality"
	"marketscope/ports"
)

// Params describes the market being estimated
type Params struct {
	CustomerType       string
	Geography          string
	EstimatedCustomers *market.CustomerRange
	PenetrationYears   int
}

// Engine derives TAM/SAM/SOM estimates from a fact snapshot
type Engine struct {
	facts    ports.FactReaderPort
	assessor *quality.Assessor
}

// NewEngine creates an estimation engine over the given fact source
func NewEngine(facts ports.FactReaderPort, assessor *quality.Assessor) *Engine {
	return &Engine{facts: facts, assessor: assessor}
}

// EstimateMarket builds the full TAM -> SAM -> SOM chain. TAM uses the
// top-down method when market-size facts exist, falls back to bottom-up when
// pricing facts and a customer estimate are available, and otherwise fails
// with an insufficient-data condition for the caller to handle.
func (e *Engine) EstimateMarket(ctx context.Context, params Params) (*market.MarketModel, error) {
	snapshot, err := e.facts.FactSnapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load fact snapshot")
	}

	marketSizeFacts := snapshot.ByType(market.FactMarketSize)
	pricingFacts := snapshot.ByType(market.FactPricing)

	marketSizeQuality, err := e.assessor.Assess(ctx, market.FactMarketSize, marketSizeFacts)
	if err != nil {
		return nil, err
	}
	pricingQuality, err := e.assessor.Assess(ctx, market.FactPricing, pricingFacts)
	if err != nil {
		return nil, err
	}

	var tam market.MarketEstimate
	switch {
	case len(marketSizeFacts) > 0:
		tam = EstimateTAMTopDown(marketSizeFacts, marketSizeQuality)
	case len(pricingFacts) > 0 && params.EstimatedCustomers != nil:
		tam = EstimateBottomUp(pricingFacts, *params.EstimatedCustomers, pricingQuality.Score)
		tam.Method = "bottom-up (TAM approximation)"
		tam.Assumptions = append(tam.Assumptions,
			"TAM estimated using bottom-up method due to lack of reported market size data")
	default:
		return nil, errors.InsufficientData(
			"insufficient data for TAM estimation: need either market size facts or pricing facts with customer estimates")
	}

	years := params.PenetrationYears
	if years <= 0 {
		years = 5
	}

	sam := EstimateSAM(tam, params.CustomerType, params.Geography)
	som := EstimateSOM(sam, years)

	sourceSet := map[string]struct{}{}
	var sources []string
	for _, f := range append(append([]market.Fact{}, marketSizeFacts...), pricingFacts...) {
		if f.SourceURL == "" {
			continue
		}
		if _, seen := sourceSet[f.SourceURL]; !seen {
			sourceSet[f.SourceURL] = struct{}{}
			sources = append(sources, f.SourceURL)
		}
	}

	return &market.MarketModel{
		TAM:               tam,
		SAM:               sam,
		SOM:               som,
		EvidenceSources:   sources,
		OverallConfidence: market.OverallConfidence(tam.DataQuality, sam.DataQuality, som.DataQuality),
	}, nil
}

// EstimateTAMTopDown estimates TAM from reported market sizes. Missing or
// non-numeric data produces a zero estimate that documents the shortfall
// instead of an error; the assumptions are the report.
func EstimateTAMTopDown(marketSizeFacts []market.Fact, qualityReport market.QualityReport) market.MarketEstimate {
	if len(marketSizeFacts) == 0 {
		return market.MarketEstimate{
			Method:  "top-down",
			Formula: "TAM = Reported market size (no data available)",
			Assumptions: []string{
				"No market size data found in sources",
				"Estimate cannot be calculated without reported market sizes",
			},
			SensitivityNotes: []string{
				"No data available for sensitivity analysis",
			},
			DataQuality: market.QualityLow,
		}
	}

	var values []float64
	for _, f := range marketSizeFacts {
		if f.Value != nil {
			values = append(values, NormalizeToBillions(*f.Value, f.Unit))
		}
	}

	if len(values) == 0 {
		return market.MarketEstimate{
			Method:  "top-down",
			Formula: "TAM = Reported market size (no numeric values found)",
			Assumptions: []string{
				"Market size facts found but no numeric values extracted",
				"Values may be in non-standard format",
			},
			SensitivityNotes: []string{
				"No numeric data available for sensitivity analysis",
			},
			DataQuality: market.QualityLow,
		}
	}

	minVal, base, maxVal := rangeFromValues(values, qualityReport.Score, qualityReport.HasLowCredibility)

	assumptions := []string{
		fmt.Sprintf("Based on %d reported market size figure(s) from industry sources", len(values)),
		"Assumes reported figures are accurate and current",
		"Assumes figures represent total addressable market (TAM)",
		fmt.Sprintf("Data quality assessed as: %s", qualityReport.Score),
	}
	if qualityReport.HasLowCredibility {
		assumptions = append(assumptions,
			"Low credibility sources detected - ranges widened to account for uncertainty")
	}

	var sensitivityNotes []string
	if len(values) > 1 {
		rawMin, _ := stats.Min(values)
		rawMax, _ := stats.Max(values)
		mean, _ := stats.Mean(values)
		variationPct := 0.0
		if mean > 0 {
			variationPct = (rawMax - rawMin) / mean * 100
		}
		sensitivityNotes = []string{
			fmt.Sprintf("Market size values vary by %.1f%% across sources", variationPct),
			"Most sensitive to: Source credibility and recency of data",
			fmt.Sprintf("Range spans from $%.2fB to $%.2fB", rawMin, rawMax),
		}
		if variationPct > 50 {
			sensitivityNotes = append(sensitivityNotes,
				"High variation suggests market definition may differ across sources")
		}
	} else {
		sensitivityNotes = []string{
			"Single data point - high uncertainty",
			"Most sensitive to: Accuracy of the single source",
			"Recommendation: Seek additional market size sources",
		}
	}

	return market.MarketEstimate{
		Min:              minVal,
		Base:             base,
		Max:              maxVal,
		Method:           "top-down",
		Formula:          "TAM = Reported market size from industry sources",
		Assumptions:      assumptions,
		SensitivityNotes: sensitivityNotes,
		DataQuality:      qualityReport.Score,
	}
}

// serviceablePercentages returns the (min, base, max) share of TAM that is
// serviceable for the given customer segment. The tiers are deliberately
// asymmetric: min uses the conservative share, max the optimistic one, so
// ranges widen multiplicatively down the chain.
func serviceablePercentages(customerType string) (float64, float64, float64) {
	ct := strings.ToLower(customerType)
	switch {
	case strings.Contains(ct, "enterprise") || strings.Contains(ct, "b2b"):
		return 0.02, 0.05, 0.10
	case strings.Contains(ct, "consumer") || strings.Contains(ct, "b2c"):
		return 0.10, 0.20, 0.40
	default:
		return 0.05, 0.10, 0.20
	}
}

// EstimateSAM derives the serviceable market from TAM. Each range tier is
// scaled by its own serviceable percentage; data quality is inherited.
func EstimateSAM(tam market.MarketEstimate, customerType, geography string) market.MarketEstimate {
	pctMin, pctBase, pctMax := serviceablePercentages(customerType)

	assumptions := []string{
		fmt.Sprintf("SAM calculated as %.0f%% of TAM (base case)", pctBase*100),
		fmt.Sprintf("Serviceable market range: %.0f%% - %.0f%% of TAM", pctMin*100, pctMax*100),
		fmt.Sprintf("Based on customer type: %s", customerType),
		fmt.Sprintf("Based on geography: %s", geography),
		"Assumes product/service is relevant to this customer segment",
		"Assumes geographic constraints are applicable",
	}

	sensitivityNotes := []string{
		fmt.Sprintf("Most sensitive to: Serviceable market percentage assumption (%.0f%% base)", pctBase*100),
		fmt.Sprintf("1%% change in serviceable %% = $%.2fB change in SAM", tam.Base*0.01),
		"Recommendation: Validate serviceable market percentage with industry benchmarks",
	}

	return market.MarketEstimate{
		Min:              tam.Min * pctMin,
		Base:             tam.Base * pctBase,
		Max:              tam.Max * pctMax,
		Method:           "top-down (derived from TAM)",
		Formula:          fmt.Sprintf("SAM = TAM × Serviceable Market %% (range: %.0f%% - %.0f%%)", pctMin*100, pctMax*100),
		Assumptions:      assumptions,
		SensitivityNotes: sensitivityNotes,
		DataQuality:      tam.DataQuality,
	}
}

// penetrationPercentages returns the (min, base, max) share of SAM obtainable
// within the given time horizon.
func penetrationPercentages(years int) (float64, float64, float64) {
	switch {
	case years <= 2:
		return 0.005, 0.01, 0.02
	case years <= 5:
		return 0.01, 0.02, 0.05
	default:
		return 0.02, 0.03, 0.05
	}
}

// EstimateSOM derives the obtainable market from SAM using horizon-based
// penetration assumptions, with the same per-tier percentage rule as SAM.
func EstimateSOM(sam market.MarketEstimate, penetrationYears int) market.MarketEstimate {
	penMin, penBase, penMax := penetrationPercentages(penetrationYears)

	assumptions := []string{
		fmt.Sprintf("SOM calculated as %.1f%% of SAM (base case)", penBase*100),
		fmt.Sprintf("Market penetration range: %.1f%% - %.1f%% of SAM", penMin*100, penMax*100),
		fmt.Sprintf("Time horizon: %d years", penetrationYears),
		"Assumes realistic market penetration based on typical startup growth",
		"Assumes effective go-to-market strategy execution",
	}

	sensitivityNotes := []string{
		fmt.Sprintf("Most sensitive to: Market penetration percentage (%.1f%% base)", penBase*100),
		fmt.Sprintf("1%% change in penetration = $%.2fB change in SOM", sam.Base*0.01),
		"Recommendation: Validate penetration assumptions with comparable company benchmarks",
		fmt.Sprintf("Time horizon of %d years significantly impacts estimate", penetrationYears),
	}

	return market.MarketEstimate{
		Min:              sam.Min * penMin,
		Base:             sam.Base * penBase,
		Max:              sam.Max * penMax,
		Method:           "top-down (derived from SAM)",
		Formula:          fmt.Sprintf("SOM = SAM × Market Penetration %% (range: %.1f%% - %.1f%%)", penMin*100, penMax*100),
		Assumptions:      assumptions,
		SensitivityNotes: sensitivityNotes,
		DataQuality:      sam.DataQuality,
	}
}

// EstimateBottomUp sizes the market as customers × price. Monthly prices are
// annualized. Used as a TAM approximation when no reported market sizes exist.
func EstimateBottomUp(pricingFacts []market.Fact, customers market.CustomerRange, dataQuality market.QualityLevel) market.MarketEstimate {
	var prices []float64
	for _, f := range pricingFacts {
		if f.Value != nil {
			prices = append(prices, AnnualizePrice(*f.Value, f.Unit))
		}
	}

	if len(prices) == 0 {
		return market.MarketEstimate{
			Method:  "bottom-up",
			Formula: "Market Size = Customers × Price (no pricing data available)",
			Assumptions: []string{
				"No pricing data found in sources",
				"Cannot calculate bottom-up estimate without pricing information",
			},
			SensitivityNotes: []string{
				"No pricing data available for sensitivity analysis",
			},
			DataQuality: market.QualityLow,
		}
	}

	priceMin, _ := stats.Min(prices)
	priceBase, _ := stats.Median(prices)
	priceMax, _ := stats.Max(prices)

	sizeMin := customers.Min * priceMin / 1e9
	sizeBase := customers.Base * priceBase / 1e9
	sizeMax := customers.Max * priceMax / 1e9

	assumptions := []string{
		fmt.Sprintf("Based on %d pricing data point(s)", len(prices)),
		fmt.Sprintf("Average price range: $%.0f - $%.0f (base: $%.0f)", priceMin, priceMax, priceBase),
		fmt.Sprintf("Customer count range: %.0f - %.0f (base: %.0f)", customers.Min, customers.Max, customers.Base),
		"Assumes all customers pay average price",
		"Assumes 100% market penetration (no discounting)",
		fmt.Sprintf("Data quality assessed as: %s", dataQuality),
	}

	priceSensitivity := customers.Base * (priceMax - priceMin) / 1e9
	customerSensitivity := priceBase * (customers.Max - customers.Min) / 1e9

	mostSensitive := "Customer count assumption"
	sensitivityValue := fmt.Sprintf("$%.2fB", customerSensitivity)
	if priceSensitivity > customerSensitivity {
		mostSensitive = "Price assumption"
		sensitivityValue = fmt.Sprintf("$%.2fB", priceSensitivity)
	}

	sensitivityNotes := []string{
		fmt.Sprintf("Most sensitive to: %s", mostSensitive),
		fmt.Sprintf("Range impact: %s", sensitivityValue),
		"Recommendation: Validate both customer count and pricing assumptions independently",
	}

	return market.MarketEstimate{
		Min:              sizeMin,
		Base:             sizeBase,
		Max:              sizeMax,
		Method:           "bottom-up",
		Formula:          "Market Size = Number of Customers × Average Price",
		Assumptions:      assumptions,
		SensitivityNotes: sensitivityNotes,
		DataQuality:      dataQuality,
	}
}
