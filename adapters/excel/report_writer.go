// Package excel exports a completed analysis as a multi-sheet workbook for
// offline review: summary, market model, scenarios, sensitivity, competitors
// and risks.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"marketscope/domain/market"
	"marketscope/ports"
)

// ReportWriter builds analysis workbooks
type ReportWriter struct{}

// NewReportWriter creates a new report writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteFile renders the analysis workbook to the given path
func (w *ReportWriter) WriteFile(record ports.AnalysisRecord, path string) error {
	f, err := w.build(record)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Write renders the analysis workbook to the given stream
func (w *ReportWriter) Write(record ports.AnalysisRecord, out io.Writer) error {
	f, err := w.build(record)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *ReportWriter) build(record ports.AnalysisRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := w.writeSummarySheet(f, record); err != nil {
		return nil, err
	}
	if err := w.writeModelSheet(f, record); err != nil {
		return nil, err
	}
	if err := w.writeScenarioSheet(f, record); err != nil {
		return nil, err
	}
	if err := w.writeCompetitorSheet(f, record); err != nil {
		return nil, err
	}
	if err := w.writeRiskSheet(f, record); err != nil {
		return nil, err
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to build cell coordinate: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d on %s: %w", row, sheet, err)
	}
	return nil
}

func (w *ReportWriter) writeSummarySheet(f *excelize.File, record ports.AnalysisRecord) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Idea", record.Idea},
		{"Generated", record.CreatedAt.String()},
		{"Verdict", string(record.Decision.Verdict)},
		{"Overall Score", record.Decision.OverallScore},
		{"Confidence Score", record.Decision.ConfidenceScore},
		{"Evidence Confidence", record.Confidence.Score},
		{"Overall Data Quality", string(record.Model.OverallConfidence)},
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+1, row...); err != nil {
			return err
		}
	}

	row := len(rows) + 2
	if err := setRow(f, sheet, row, "Factor", "Score"); err != nil {
		return err
	}
	for _, factor := range []string{"market_size", "competition", "regulatory", "data_confidence"} {
		row++
		if err := setRow(f, sheet, row, factor, record.Decision.FactorScores[factor]); err != nil {
			return err
		}
	}

	if len(record.Decision.ConditionsToGo) > 0 {
		row += 2
		if err := setRow(f, sheet, row, "Conditions to GO"); err != nil {
			return err
		}
		for _, condition := range record.Decision.ConditionsToGo {
			row++
			if err := setRow(f, sheet, row, condition); err != nil {
				return err
			}
		}
	}

	if len(record.Warnings) > 0 {
		row += 2
		if err := setRow(f, sheet, row, "Warnings"); err != nil {
			return err
		}
		for _, warning := range record.Warnings {
			row++
			if err := setRow(f, sheet, row, warning); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *ReportWriter) writeModelSheet(f *excelize.File, record ports.AnalysisRecord) error {
	const sheet = "Market Model"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create model sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, "Estimate", "Min ($B)", "Base ($B)", "Max ($B)", "Method", "Data Quality"); err != nil {
		return err
	}
	estimates := []struct {
		label string
		e     market.MarketEstimate
	}{
		{"TAM", record.Model.TAM},
		{"SAM", record.Model.SAM},
		{"SOM", record.Model.SOM},
	}
	for i, est := range estimates {
		if err := setRow(f, sheet, i+2,
			est.label, est.e.Min, est.e.Base, est.e.Max, est.e.Method, string(est.e.DataQuality)); err != nil {
			return err
		}
	}

	row := len(estimates) + 3
	if err := setRow(f, sheet, row, "Evidence Sources"); err != nil {
		return err
	}
	for _, src := range record.Model.EvidenceSources {
		row++
		if err := setRow(f, sheet, row, src); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReportWriter) writeScenarioSheet(f *excelize.File, record ports.AnalysisRecord) error {
	const sheet = "Scenarios"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create scenario sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, "Scenario", "TAM Base ($B)", "SAM Base ($B)", "SOM Base ($B)"); err != nil {
		return err
	}
	scenarios := []market.Scenario{record.Scenarios.Bear, record.Scenarios.Base, record.Scenarios.Bull}
	for i, s := range scenarios {
		if err := setRow(f, sheet, i+2, string(s.Name), s.TAM.Base, s.SAM.Base, s.SOM.Base); err != nil {
			return err
		}
	}

	row := len(scenarios) + 3
	if err := setRow(f, sheet, row, "Assumption", "Base SOM ($B)", "-30% SOM ($B)", "+30% SOM ($B)", "Impact ($B)"); err != nil {
		return err
	}
	for _, impact := range record.Sensitivity {
		row++
		if err := setRow(f, sheet, row,
			impact.AssumptionName, impact.BaseSOM, impact.ImpactMinus30, impact.ImpactPlus30, impact.ImpactMagnitude); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReportWriter) writeCompetitorSheet(f *excelize.File, record ports.AnalysisRecord) error {
	const sheet = "Competitors"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create competitor sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, "Name", "Positioning", "Pricing", "Geography", "Differentiator", "Mentions", "Source"); err != nil {
		return err
	}
	for i, c := range record.Competitors {
		if err := setRow(f, sheet, i+2,
			c.Name, c.Positioning, c.Pricing, c.Geography, c.Differentiator, c.MentionCount, c.SourceURL); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReportWriter) writeRiskSheet(f *excelize.File, record ports.AnalysisRecord) error {
	const sheet = "Risks"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create risk sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, "Category", "Risk"); err != nil {
		return err
	}
	row := 1
	categories := []struct {
		label string
		items []string
	}{
		{"Market", record.Risks.Market},
		{"Competition", record.Risks.Competition},
		{"Regulatory", record.Risks.Regulatory},
		{"Distribution", record.Risks.Distribution},
	}
	for _, cat := range categories {
		for _, item := range cat.items {
			row++
			if err := setRow(f, sheet, row, cat.label, item); err != nil {
				return err
			}
		}
	}
	return nil
}
