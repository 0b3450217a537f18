package quality

import (
	"testing"

	"marketscope/domain/market"
)

func ptr(v float64) *float64 { return &v }

func fact(value *float64, unit, source string) market.Fact {
	return market.Fact{Type: market.FactMarketSize, Value: value, Unit: unit, SourceURL: source}
}

func TestAssessFactsEmpty(t *testing.T) {
	report := AssessFacts(nil, false)
	if report.Score != market.QualityLow {
		t.Errorf("Expected low quality for empty facts, got %s", report.Score)
	}
	if report.ShouldWidenRanges {
		t.Error("Empty facts without low credibility should not widen ranges")
	}
}

func TestAssessFactsHigh(t *testing.T) {
	facts := []market.Fact{
		fact(ptr(50), "billion", "https://a.example.com"),
		fact(ptr(55), "billion", "https://b.example.com"),
		fact(ptr(60), "billion", "https://c.example.com"),
	}
	report := AssessFacts(facts, false)
	if report.Score != market.QualityHigh {
		t.Errorf("Expected high quality, got %s", report.Score)
	}
	if !report.UnitConsistency {
		t.Error("Expected consistent units")
	}
	if report.SourceDiversity != 3 {
		t.Errorf("Expected source diversity 3, got %d", report.SourceDiversity)
	}
}

func TestAssessFactsMixedUnitsCapAtMedium(t *testing.T) {
	facts := []market.Fact{
		fact(ptr(50), "billion", "https://a.example.com"),
		fact(ptr(55000), "million", "https://b.example.com"),
		fact(ptr(60), "billion", "https://c.example.com"),
	}
	report := AssessFacts(facts, false)
	if report.Score != market.QualityMedium {
		t.Errorf("Expected medium quality with mixed units, got %s", report.Score)
	}
}

func TestAssessFactsSingleSourceMedium(t *testing.T) {
	facts := []market.Fact{fact(ptr(50), "billion", "https://a.example.com")}
	report := AssessFacts(facts, false)
	if report.Score != market.QualityMedium {
		t.Errorf("Expected medium quality for single numeric fact, got %s", report.Score)
	}
}

func TestAssessFactsNoNumericValues(t *testing.T) {
	facts := []market.Fact{fact(nil, "", "https://a.example.com")}
	report := AssessFacts(facts, false)
	if report.Score != market.QualityLow {
		t.Errorf("Expected low quality without numeric data, got %s", report.Score)
	}
	if report.HasNumericData {
		t.Error("Expected HasNumericData=false")
	}
}

func TestAssessFactsLowCredibilityDowngrades(t *testing.T) {
	facts := []market.Fact{
		fact(ptr(50), "billion", "https://a.example.com"),
		fact(ptr(55), "billion", "https://b.example.com"),
		fact(ptr(60), "billion", "https://c.example.com"),
	}

	report := AssessFacts(facts, true)
	if report.Score != market.QualityMedium {
		t.Errorf("Expected high downgraded to medium, got %s", report.Score)
	}
	if !report.ShouldWidenRanges {
		t.Error("Low credibility must flag range widening")
	}

	single := []market.Fact{fact(ptr(50), "billion", "https://a.example.com")}
	report = AssessFacts(single, true)
	if report.Score != market.QualityLow {
		t.Errorf("Expected medium downgraded to low, got %s", report.Score)
	}
}
