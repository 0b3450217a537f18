// Package decision turns a market model, competitor profiles and risk
// statements into a GO / NO-GO / CONDITIONAL verdict with weighted factor
// scores, conditions and a mandatory self-critique section.
package decision

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"marketscope/domain/decision"
	"marketscope/domain/market"
)

// Factor weights: market size and data confidence dominate
const (
	WeightMarket         = 0.35
	WeightCompetition    = 0.25
	WeightRegulatory     = 0.20
	WeightDataConfidence = 0.20
)

// Verdict thresholds
const (
	goOverallThreshold   = 70.0
	goFactorFloor        = 50.0
	noGoOverallThreshold = 40.0
	noGoFactorFloor      = 30.0
	conditionThreshold   = 60.0
)

var competitionHighRiskKeywords = []string{"crowded", "established", "leaders", "high competition", "multiple"}

var competitionMediumRiskKeywords = []string{"moderate", "some", "several"}

var regulatoryHighSeverityKeywords = []string{"fda", "sec", "approval", "compliance", "require", "restrict", "prohibit"}

var regulatoryMediumSeverityKeywords = []string{"regulation", "oversight", "compliance"}

// Decide scores the four viability factors, combines them into a weighted
// overall score, applies the verdict thresholds in fixed order and generates
// the conditions and disconfirming evidence for the result.
func Decide(model *market.MarketModel, competitors []decision.CompetitorInfo, risks decision.RiskAnalysis) decision.DecisionResult {
	marketScore, marketReasoning := ScoreMarketSize(model)
	competitionScore, competitionReasoning := ScoreCompetitiveIntensity(competitors, risks.Competition)
	regulatoryScore, regulatoryReasoning := ScoreRegulatoryRisk(risks.Regulatory)
	dataScore, dataReasoning := ScoreDataConfidence(model.OverallConfidence)

	overall := stat.Mean(
		[]float64{marketScore, competitionScore, regulatoryScore, dataScore},
		[]float64{WeightMarket, WeightCompetition, WeightRegulatory, WeightDataConfidence},
	)

	verdict, conditions := determineVerdict(overall, marketScore, competitionScore, regulatoryScore, dataScore)

	return decision.DecisionResult{
		Verdict:         verdict,
		ConfidenceScore: int(math.Round(dataScore)),
		OverallScore:    round1(overall),
		FactorScores: map[string]float64{
			decision.FactorMarketSize:     round1(marketScore),
			decision.FactorCompetition:    round1(competitionScore),
			decision.FactorRegulatory:     round1(regulatoryScore),
			decision.FactorDataConfidence: round1(dataScore),
		},
		ConditionsToGo:        conditions,
		DisconfirmingEvidence: DisconfirmingEvidence(model, competitors, risks, overall),
		Reasoning: map[string][]string{
			decision.FactorMarketSize:     marketReasoning,
			decision.FactorCompetition:    competitionReasoning,
			decision.FactorRegulatory:     regulatoryReasoning,
			decision.FactorDataConfidence: dataReasoning,
		},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// ScoreMarketSize scores the SOM base case on a fixed ladder, then penalizes
// wide estimate ranges.
func ScoreMarketSize(model *market.MarketModel) (float64, []string) {
	som := model.SOM
	var notes []string
	var score float64

	switch {
	case som.Base >= 1.0:
		score = 90
		notes = append(notes, fmt.Sprintf("Large addressable market (SOM: $%.2fB base case)", som.Base))
	case som.Base >= 0.5:
		score = 75
		notes = append(notes, fmt.Sprintf("Moderate addressable market (SOM: $%.2fB base case)", som.Base))
	case som.Base >= 0.1:
		score = 60
		notes = append(notes, fmt.Sprintf("Small but viable market (SOM: $%.2fB base case)", som.Base))
	case som.Base >= 0.05:
		score = 45
		notes = append(notes, fmt.Sprintf("Very small market (SOM: $%.2fB base case)", som.Base))
	default:
		score = 20
		notes = append(notes, fmt.Sprintf("Minimal market size (SOM: $%.2fB base case)", som.Base))
	}

	rangeRatio := som.RangeRatio()
	if rangeRatio > 2.0 {
		score *= 0.7
		notes = append(notes, fmt.Sprintf("High uncertainty in market size (range ratio: %.1fx)", rangeRatio))
	} else if rangeRatio > 1.5 {
		score *= 0.85
		notes = append(notes, fmt.Sprintf("Moderate uncertainty in market size (range ratio: %.1fx)", rangeRatio))
	}

	return clamp(score), notes
}

func countRisksMatching(risks []string, keywords []string) int {
	count := 0
	for _, risk := range risks {
		lower := strings.ToLower(risk)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				count++
				break
			}
		}
	}
	return count
}

// ScoreCompetitiveIntensity scores the competitor count on a fixed ladder,
// then penalizes by the severity of the competition risk statements.
func ScoreCompetitiveIntensity(competitors []decision.CompetitorInfo, competitionRisks []string) (float64, []string) {
	var notes []string
	var score float64

	n := len(competitors)
	switch {
	case n == 0:
		score = 80
		notes = append(notes, "No competitors identified - may indicate new market or incomplete research")
	case n >= 10:
		score = 30
		notes = append(notes, fmt.Sprintf("High number of competitors (%d) - crowded market", n))
	case n >= 5:
		score = 50
		notes = append(notes, fmt.Sprintf("Moderate competition (%d competitors identified)", n))
	case n >= 2:
		score = 70
		notes = append(notes, fmt.Sprintf("Limited competition (%d competitors identified)", n))
	default:
		score = 85
		notes = append(notes, fmt.Sprintf("Minimal competition (%d competitor identified)", n))
	}

	if high := countRisksMatching(competitionRisks, competitionHighRiskKeywords); high > 0 {
		score *= 0.7
		notes = append(notes, fmt.Sprintf("%d high-severity competition risk(s) identified", high))
	} else if medium := countRisksMatching(competitionRisks, competitionMediumRiskKeywords); medium > 0 {
		score *= 0.85
		notes = append(notes, fmt.Sprintf("%d moderate competition risk(s) identified", medium))
	}

	return clamp(score), notes
}

// ScoreRegulatoryRisk scores by the severity of regulatory risk statements
func ScoreRegulatoryRisk(regulatoryRisks []string) (float64, []string) {
	if len(regulatoryRisks) == 0 {
		return 90, []string{"No regulatory risks identified - low regulatory burden"}
	}

	if high := countRisksMatching(regulatoryRisks, regulatoryHighSeverityKeywords); high > 0 {
		return 40, []string{fmt.Sprintf("%d high-severity regulatory risk(s) - significant compliance requirements", high)}
	}
	if medium := countRisksMatching(regulatoryRisks, regulatoryMediumSeverityKeywords); medium > 0 {
		return 65, []string{fmt.Sprintf("%d regulatory consideration(s) identified", medium)}
	}
	return 80, []string{fmt.Sprintf("%d regulatory mention(s) - low to moderate risk", len(regulatoryRisks))}
}

// ScoreDataConfidence maps the model-level confidence rating to a score
func ScoreDataConfidence(confidence market.QualityLevel) (float64, []string) {
	switch confidence {
	case market.QualityHigh:
		return 90, []string{"High data confidence - multiple high-quality sources"}
	case market.QualityMedium:
		return 65, []string{"Medium data confidence - some data quality concerns"}
	default:
		return 40, []string{"Low data confidence - limited or low-quality data sources"}
	}
}

// determineVerdict applies the threshold rules in fixed order: GO first,
// NO-GO second, CONDITIONAL with per-factor conditions otherwise.
func determineVerdict(overall, marketScore, competitionScore, regulatoryScore, dataScore float64) (decision.Verdict, []string) {
	allAboveFloor := marketScore >= goFactorFloor &&
		competitionScore >= goFactorFloor &&
		regulatoryScore >= goFactorFloor &&
		dataScore >= goFactorFloor
	if overall >= goOverallThreshold && allAboveFloor {
		return decision.VerdictGo, []string{}
	}

	if overall < noGoOverallThreshold || marketScore < noGoFactorFloor || dataScore < noGoFactorFloor {
		return decision.VerdictNoGo, []string{}
	}

	conditions := []string{}
	if marketScore < conditionThreshold {
		conditions = append(conditions, fmt.Sprintf(
			"Market size must be validated - current SOM base case may be insufficient (score: %.0f/100)", marketScore))
	}
	if competitionScore < conditionThreshold {
		conditions = append(conditions, fmt.Sprintf(
			"Competitive differentiation must be proven - competition intensity is high (score: %.0f/100)", competitionScore))
	}
	if regulatoryScore < conditionThreshold {
		conditions = append(conditions, fmt.Sprintf(
			"Regulatory compliance path must be clarified - regulatory risks identified (score: %.0f/100)", regulatoryScore))
	}
	if dataScore < conditionThreshold {
		conditions = append(conditions, fmt.Sprintf(
			"Additional market research required - data confidence is low (score: %.0f/100)", dataScore))
	}
	if overall < conditionThreshold {
		conditions = append(conditions, fmt.Sprintf(
			"Overall viability score must improve from %.0f/100 to at least 70/100", overall))
	}

	return decision.VerdictConditional, conditions
}

// DisconfirmingEvidence builds the "what would make this wrong" section:
// threshold-gated scenarios in fixed order, then two universal scenarios.
func DisconfirmingEvidence(model *market.MarketModel, competitors []decision.CompetitorInfo, risks decision.RiskAnalysis, overall float64) []string {
	var disconfirming []string

	if model.SOM.Base < 0.5 {
		disconfirming = append(disconfirming, fmt.Sprintf(
			"Market size is overestimated - if actual SOM is below $%.2fB, the market may be too small to support viable business",
			model.SOM.Min))
	}
	if model.TAM.DataQuality == market.QualityLow {
		disconfirming = append(disconfirming,
			"Market size data is unreliable - if reported TAM figures are inaccurate or outdated, all market size estimates (TAM/SAM/SOM) would be invalid")
	}

	switch n := len(competitors); {
	case n == 0:
		disconfirming = append(disconfirming,
			"Competitive landscape is unknown - if significant competitors exist but were not identified, competition intensity is underestimated")
	case n >= 5:
		disconfirming = append(disconfirming, fmt.Sprintf(
			"Competition may be more intense than assessed - if %d+ competitors are actively competing, market share capture may be more difficult than estimated",
			n))
	}

	if len(risks.Regulatory) > 0 {
		disconfirming = append(disconfirming,
			"Regulatory requirements may be more stringent than identified - if additional compliance requirements emerge, time-to-market and costs could be significantly higher")
	} else {
		disconfirming = append(disconfirming,
			"Regulatory risks may be underestimated - if regulatory oversight is required but not yet identified, compliance costs could materially impact viability")
	}

	if model.OverallConfidence == market.QualityLow {
		disconfirming = append(disconfirming,
			"Low data confidence - if key assumptions based on limited data are incorrect, the entire analysis may be invalid")
	}
	if len(risks.Market) > 0 {
		disconfirming = append(disconfirming,
			"Market risks identified - if market growth is slower than estimated or market is declining, viability would be significantly reduced")
	}
	if overall < 60 {
		disconfirming = append(disconfirming, fmt.Sprintf(
			"Overall viability score is %.0f/100 - multiple factors need validation. If any key assumption proves incorrect, verdict could change to NO-GO",
			overall))
	}

	disconfirming = append(disconfirming,
		"Customer willingness to pay may be lower than assumed - if pricing assumptions are incorrect, revenue projections would be invalid")
	disconfirming = append(disconfirming,
		"Market timing may be wrong - if market is not ready for this solution or timing is premature, adoption could be slower than expected")

	return disconfirming
}
