// Package report renders a completed analysis as a markdown document and as
// HTML via gomarkdown. The executive summary follows a fixed bullet order so
// reports are comparable across runs.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"marketscope/domain/decision"
	"marketscope/domain/market"
	"marketscope/ports"
)

// Markdown renders the full analysis report
func Markdown(record ports.AnalysisRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Market Viability Analysis: %s\n\n", record.Idea)
	fmt.Fprintf(&b, "Generated: %s\n\n", record.CreatedAt)

	writeExecutiveSummary(&b, record)
	writeVerdict(&b, record.Decision)
	writeMarketModel(&b, record.Model)
	writeScenarios(&b, record.Scenarios)
	writeSensitivity(&b, record.Sensitivity)
	writeCompetitors(&b, record.Competitors)
	writeRisks(&b, record.Risks)
	writeConfidence(&b, record.Confidence)
	writeWarnings(&b, record.Warnings)

	return b.String()
}

// HTML renders the report as a standalone HTML fragment
func HTML(record ports.AnalysisRecord) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(Markdown(record)))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return markdown.Render(doc, renderer)
}

func writeExecutiveSummary(b *strings.Builder, record ports.AnalysisRecord) {
	b.WriteString("## Executive Summary\n\n")

	d := record.Decision
	fmt.Fprintf(b, "- Verdict: %s (confidence: %d/100)\n", d.Verdict, d.ConfidenceScore)

	som := record.Model.SOM
	if som.Base > 0 {
		fmt.Fprintf(b, "- Market size: SOM base case $%.2fB (range $%.2fB - $%.2fB)\n",
			som.Base, som.Min, som.Max)
	} else {
		b.WriteString("- Market size: Unable to estimate (insufficient data)\n")
	}

	switch n := len(record.Competitors); {
	case n == 0:
		b.WriteString("- Competitive landscape: No competitors identified in research\n")
	case n == 1:
		c := record.Competitors[0]
		fmt.Fprintf(b, "- Primary competitor: %s (%s)\n", c.Name, c.Positioning)
	case n <= 3:
		fmt.Fprintf(b, "- Identified competitors: %s\n", competitorNames(record.Competitors, n))
	default:
		fmt.Fprintf(b, "- Top competitors: %s (plus %d others)\n",
			competitorNames(record.Competitors, 3), n-3)
	}

	if len(record.Risks.Competition) > 0 {
		fmt.Fprintf(b, "- Competition risk: %s\n", record.Risks.Competition[0])
	}
	if len(record.Risks.Regulatory) > 0 {
		fmt.Fprintf(b, "- Regulatory risk: %s\n", record.Risks.Regulatory[0])
	}
	if len(record.Risks.Market) > 0 {
		fmt.Fprintf(b, "- Market risk: %s\n", record.Risks.Market[0])
	}

	fmt.Fprintf(b, "- Data quality: %s overall confidence across %d evidence source(s)\n",
		record.Model.OverallConfidence, len(record.Model.EvidenceSources))

	if d.Verdict == decision.VerdictConditional && len(d.ConditionsToGo) > 0 {
		fmt.Fprintf(b, "- CONDITIONAL: %d condition(s) must be met to reach GO verdict\n",
			len(d.ConditionsToGo))
	}

	b.WriteString("\n")
}

func competitorNames(competitors []decision.CompetitorInfo, limit int) string {
	names := make([]string, 0, limit)
	for i, c := range competitors {
		if i == limit {
			break
		}
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

func writeVerdict(b *strings.Builder, d decision.DecisionResult) {
	b.WriteString("## Verdict\n\n")
	fmt.Fprintf(b, "**%s** - overall viability score %.1f/100\n\n", d.Verdict, d.OverallScore)

	b.WriteString("| Factor | Score |\n|---|---|\n")
	for _, factor := range []string{
		decision.FactorMarketSize,
		decision.FactorCompetition,
		decision.FactorRegulatory,
		decision.FactorDataConfidence,
	} {
		fmt.Fprintf(b, "| %s | %.1f |\n", factor, d.FactorScores[factor])
	}
	b.WriteString("\n")

	if len(d.ConditionsToGo) > 0 {
		b.WriteString("### Conditions to GO\n\n")
		for _, condition := range d.ConditionsToGo {
			fmt.Fprintf(b, "- %s\n", condition)
		}
		b.WriteString("\n")
	}

	b.WriteString("### What would make this analysis wrong?\n\n")
	for _, scenario := range d.DisconfirmingEvidence {
		fmt.Fprintf(b, "- %s\n", scenario)
	}
	b.WriteString("\n")
}

func writeEstimate(b *strings.Builder, label string, e market.MarketEstimate) {
	fmt.Fprintf(b, "### %s\n\n", label)
	fmt.Fprintf(b, "| Min | Base | Max |\n|---|---|---|\n| $%.2fB | $%.2fB | $%.2fB |\n\n",
		e.Min, e.Base, e.Max)
	fmt.Fprintf(b, "Method: %s  \nFormula: %s  \nData quality: %s\n\n", e.Method, e.Formula, e.DataQuality)
	if len(e.Assumptions) > 0 {
		b.WriteString("Assumptions:\n\n")
		for _, a := range e.Assumptions {
			fmt.Fprintf(b, "- %s\n", a)
		}
		b.WriteString("\n")
	}
}

func writeMarketModel(b *strings.Builder, model market.MarketModel) {
	b.WriteString("## Market Model\n\n")
	writeEstimate(b, "TAM", model.TAM)
	writeEstimate(b, "SAM", model.SAM)
	writeEstimate(b, "SOM", model.SOM)

	if len(model.EvidenceSources) > 0 {
		b.WriteString("### Evidence Sources\n\n")
		for _, src := range model.EvidenceSources {
			fmt.Fprintf(b, "- %s\n", src)
		}
		b.WriteString("\n")
	}
}

func writeScenarios(b *strings.Builder, scenarios market.ScenarioSet) {
	b.WriteString("## Scenarios\n\n")
	b.WriteString("| Scenario | TAM (base) | SAM (base) | SOM (base) |\n|---|---|---|---|\n")
	for _, s := range []market.Scenario{scenarios.Bear, scenarios.Base, scenarios.Bull} {
		fmt.Fprintf(b, "| %s | $%.2fB | $%.2fB | $%.4fB |\n",
			s.Name, s.TAM.Base, s.SAM.Base, s.SOM.Base)
	}
	b.WriteString("\n")
}

func writeSensitivity(b *strings.Builder, impacts []market.SensitivityImpact) {
	if len(impacts) == 0 {
		return
	}
	b.WriteString("## Sensitivity Analysis\n\n")
	b.WriteString("| Assumption | SOM -30% | SOM +30% | Impact |\n|---|---|---|---|\n")
	for _, impact := range impacts {
		fmt.Fprintf(b, "| %s | $%.4fB | $%.4fB | $%.4fB |\n",
			impact.AssumptionName, impact.ImpactMinus30, impact.ImpactPlus30, impact.ImpactMagnitude)
	}
	b.WriteString("\n")
}

func writeCompetitors(b *strings.Builder, competitors []decision.CompetitorInfo) {
	b.WriteString("## Competitors\n\n")
	if len(competitors) == 0 {
		b.WriteString("No competitors identified.\n\n")
		return
	}
	b.WriteString("| Name | Positioning | Pricing | Geography | Differentiator | Mentions |\n|---|---|---|---|---|---|\n")
	for _, c := range competitors {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %d |\n",
			c.Name, c.Positioning, c.Pricing, c.Geography, c.Differentiator, c.MentionCount)
	}
	b.WriteString("\n")
}

func writeRisks(b *strings.Builder, risks decision.RiskAnalysis) {
	b.WriteString("## Risks\n\n")
	categories := []struct {
		label string
		items []string
	}{
		{"Market", risks.Market},
		{"Competition", risks.Competition},
		{"Regulatory", risks.Regulatory},
		{"Distribution", risks.Distribution},
	}
	for _, cat := range categories {
		if len(cat.items) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n", cat.label)
		for _, item := range cat.items {
			fmt.Fprintf(b, "- %s\n", item)
		}
		b.WriteString("\n")
	}
}

func writeConfidence(b *strings.Builder, report decision.ConfidenceReport) {
	b.WriteString("## Evidence Confidence\n\n")
	fmt.Fprintf(b, "Score: %.1f/100\n\n", report.Score)
	fmt.Fprintf(b, "```\n%s\n```\n\n", report.Explanation)
}

func writeWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
	b.WriteString("\n")
}
