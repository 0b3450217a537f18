package estimation

import (
	"math"

	"github.com/montanaflynn/stats"

	"marketscope/domain/market"
)

// wideningFactor selects how much to widen an estimate range. Low-credibility
// sources dominate the quality tiers.
func wideningFactor(quality market.QualityLevel, hasLowCredibility bool) float64 {
	switch {
	case hasLowCredibility:
		return 1.0
	case quality == market.QualityLow:
		return 0.5
	case quality == market.QualityMedium:
		return 0.25
	default:
		return 0.0
	}
}

// rangeFromValues derives (min, base, max) from observed values. Base is the
// median; the [min,max] span is widened around its center by the quality
// factor, clamping min at zero to keep the range non-negative.
func rangeFromValues(values []float64, quality market.QualityLevel, hasLowCredibility bool) (float64, float64, float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	base, _ := stats.Median(values)
	minVal, _ := stats.Min(values)
	maxVal, _ := stats.Max(values)

	if factor := wideningFactor(quality, hasLowCredibility); factor > 0 {
		center := (minVal + maxVal) / 2
		span := (maxVal - minVal) * (1 + factor)
		minVal = math.Max(0, center-span/2)
		maxVal = center + span/2
	}

	return minVal, base, maxVal
}
