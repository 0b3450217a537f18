package estimation

import (
	"strings"
)

// NormalizeToBillions converts a reported market size to billions USD based on
// its unit string. Matching is case-insensitive and substring-based; an
// unrecognized unit is assumed to already be in billions.
func NormalizeToBillions(value float64, unit string) float64 {
	u := strings.ToLower(unit)
	switch {
	case strings.Contains(u, "trillion"):
		return value * 1000
	case strings.Contains(u, "billion"), strings.Contains(u, "b"):
		return value
	case strings.Contains(u, "million"), strings.Contains(u, "m"):
		return value / 1000
	case strings.Contains(u, "thousand"), strings.Contains(u, "k"):
		return value / 1_000_000
	default:
		return value
	}
}

// AnnualizePrice converts a price to annual terms when its unit indicates a
// monthly figure.
func AnnualizePrice(value float64, unit string) float64 {
	if strings.Contains(strings.ToLower(unit), "month") {
		return value * 12
	}
	return value
}
