// Command analyze runs the viability pipeline against the synthetic research
// corpus and prints the report. Useful for trying the engines without a
// database or HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"marketscope/adapters/excel"
	"marketscope/internal"
	"marketscope/internal/analysis"
	"marketscope/internal/config"
	"marketscope/internal/confidence"
	"marketscope/internal/estimation"
	"marketscope/internal/quality"
	"marketscope/internal/report"
	"marketscope/internal/scenario"
	"marketscope/internal/testkit"
	"marketscope/ports"
)

func main() {
	idea := flag.String("idea", "CRM for field service teams", "startup idea under analysis")
	industry := flag.String("industry", "SaaS", "industry label")
	customerType := flag.String("customer-type", "B2B SMB", "target customer segment")
	geography := flag.String("geography", "North America", "target geography")
	price := flag.Float64("price", 0, "optional price assumption (0 = derive from facts)")
	years := flag.Int("years", 5, "market penetration horizon in years")
	format := flag.String("format", "markdown", "output format: markdown or html")
	workbook := flag.String("xlsx", "", "optional path to also write an xlsx workbook")
	flag.Parse()

	kit := testkit.NewSeededTestKit()

	assessor := quality.NewAssessor(kit.Ledger)
	estimator := estimation.NewEngine(kit.Facts, assessor)
	scenarios := scenario.NewEngine(kit.Facts)
	scorer := confidence.NewScorer(kit.Ledger, kit.Facts)

	pipeline := analysis.NewPipeline(
		kit.Facts, estimator, scenarios, scorer, kit.Analyses,
		config.AnalysisConfig{
			PenetrationYears:      *years,
			DefaultPriceARPA:      scenario.DefaultPriceARPA,
			FallbackCustomersMin:  1000,
			FallbackCustomersBase: 5000,
			FallbackCustomersMax:  10000,
		},
		internal.DefaultLogger,
	)

	req := analysis.Request{
		Idea:             *idea,
		Industry:         *industry,
		CustomerType:     *customerType,
		Geography:        *geography,
		PenetrationYears: *years,
	}
	if *price > 0 {
		req.PriceAssumption = price
	}

	result, err := pipeline.Run(context.Background(), req)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	record, err := kit.Analyses.GetAnalysis(context.Background(), result.ID)
	if err != nil {
		log.Fatalf("Failed to load analysis record: %v", err)
	}

	switch *format {
	case "markdown":
		fmt.Print(report.Markdown(*record))
	case "html":
		os.Stdout.Write(report.HTML(*record))
	default:
		log.Fatalf("Unknown format %q (want markdown or html)", *format)
	}

	if *workbook != "" {
		if err := writeWorkbook(*record, *workbook); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Workbook written to %s\n", *workbook)
	}
}

func writeWorkbook(record ports.AnalysisRecord, path string) error {
	return excel.NewReportWriter().WriteFile(record, path)
}
