// Package analysis orchestrates the full viability pipeline: estimation,
// competitor and risk analysis, confidence scoring, decision, scenarios and
// sensitivity ranking. Core steps are pure; this layer adds I/O, concurrency
// and per-step fallbacks so one failed step degrades the result instead of
// aborting it.
package analysis

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"marketscope/domain/core"
	"marketscope/domain/decision"
	"marketscope/domain/market"
	"marketscope/internal"
	"marketscope/internal/competitor"
	"marketscope/internal/config"
	"marketscope/internal/confidence"
	decisionengine "marketscope/internal/decision"
	"marketscope/internal/errors"
	"marketscope/internal/estimation"
	"marketscope/internal/risk"
	"marketscope/internal/scenario"
	"marketscope/ports"
)

// Request describes the startup idea under analysis
type Request struct {
	Idea         string   `json:"idea"`
	Industry     string   `json:"industry"`
	CustomerType string   `json:"customer_type"`
	Geography    string   `json:"geography"`
	// PriceAssumption is an optional annual or monthly price; values below
	// 1000 are treated as monthly and annualized.
	PriceAssumption  *float64 `json:"price_assumption,omitempty"`
	PenetrationYears int      `json:"penetration_years,omitempty"`
}

// Validate checks the request fields required to run an analysis
func (r Request) Validate() error {
	if r.Idea == "" {
		return errors.InvalidInput("idea is required")
	}
	if r.CustomerType == "" {
		return errors.InvalidInput("customer_type is required")
	}
	if r.Geography == "" {
		return errors.InvalidInput("geography is required")
	}
	return nil
}

// Result is the assembled output of one pipeline run
type Result struct {
	ID          core.AnalysisID            `json:"id"`
	Idea        string                     `json:"idea"`
	Model       *market.MarketModel        `json:"market_model"`
	Scenarios   *market.ScenarioSet        `json:"scenarios"`
	Sensitivity []market.SensitivityImpact `json:"sensitivity_analysis"`
	Competitors []decision.CompetitorInfo  `json:"competitors"`
	Risks       decision.RiskAnalysis      `json:"risks"`
	Decision    decision.DecisionResult    `json:"decision"`
	Confidence  decision.ConfidenceReport  `json:"confidence"`
	Warnings    []string                   `json:"warnings"`
	CreatedAt   core.Timestamp             `json:"created_at"`
}

// Pipeline wires the core engines to the fact store and analysis repository
type Pipeline struct {
	facts      ports.FactReaderPort
	estimator  *estimation.Engine
	scenarios  *scenario.Engine
	confidence *confidence.Scorer
	analyses   ports.AnalysisRepositoryPort
	cfg        config.AnalysisConfig
	logger     *internal.Logger
}

// NewPipeline creates the orchestrator. The analysis repository may be nil;
// results are then computed but not persisted.
func NewPipeline(
	facts ports.FactReaderPort,
	estimator *estimation.Engine,
	scenarios *scenario.Engine,
	confidenceScorer *confidence.Scorer,
	analyses ports.AnalysisRepositoryPort,
	cfg config.AnalysisConfig,
	logger *internal.Logger,
) *Pipeline {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Pipeline{
		facts:      facts,
		estimator:  estimator,
		scenarios:  scenarios,
		confidence: confidenceScorer,
		analyses:   analyses,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run executes the full pipeline. Individual step failures produce warnings
// and conservative fallbacks; only an invalid request or a failed fact
// snapshot load is fatal.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var warnings []string

	snapshot, err := p.facts.FactSnapshot(ctx)
	if err != nil {
		p.logger.Warn("fact snapshot unavailable: %v", err)
		warnings = append(warnings, "Analysis proceeding without extracted facts")
		snapshot = market.FactSet{}
	}

	model := p.estimateModel(ctx, req, &warnings)

	// Competitor/risk analysis and confidence scoring are independent of the
	// model and of each other; run them concurrently.
	var (
		competitors []decision.CompetitorInfo
		risks       decision.RiskAnalysis
		confReport  decision.ConfidenceReport
		confErr     error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		competitors = competitor.Analyze(snapshot.ByType(market.FactCompetitor))
		risks = risk.Analyze(snapshot, competitors)
		return nil
	})
	g.Go(func() error {
		report, err := p.confidence.Score(gctx)
		if err != nil {
			confErr = err
			return nil
		}
		confReport = *report
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if confErr != nil {
		p.logger.Warn("confidence calculation failed: %v", confErr)
		warnings = append(warnings, "Using default confidence score")
		confReport = defaultConfidenceReport()
	}

	verdict := decisionengine.Decide(model, competitors, risks)

	scenarioSet, sensitivity := p.computeScenarios(ctx, req, model, &warnings)

	result := &Result{
		ID:          core.AnalysisID(core.NewID()),
		Idea:        req.Idea,
		Model:       model,
		Scenarios:   scenarioSet,
		Sensitivity: sensitivity,
		Competitors: competitors,
		Risks:       risks,
		Decision:    verdict,
		Confidence:  confReport,
		Warnings:    warnings,
		CreatedAt:   core.Now(),
	}

	if p.analyses != nil {
		record := resultToRecord(result)
		if err := p.analyses.SaveAnalysis(ctx, record); err != nil {
			p.logger.Warn("failed to persist analysis %s: %v", result.ID, err)
			result.Warnings = append(result.Warnings, "Analysis result could not be persisted")
		}
	}

	return result, nil
}

// estimateModel runs the estimation engine, substituting the conservative
// fallback model when estimation fails.
func (p *Pipeline) estimateModel(ctx context.Context, req Request, warnings *[]string) *market.MarketModel {
	params := estimation.Params{
		CustomerType:     req.CustomerType,
		Geography:        req.Geography,
		PenetrationYears: req.PenetrationYears,
	}
	if params.PenetrationYears <= 0 {
		params.PenetrationYears = p.cfg.PenetrationYears
	}
	if req.PriceAssumption != nil {
		params.EstimatedCustomers = &market.CustomerRange{
			Min:  p.cfg.FallbackCustomersMin,
			Base: p.cfg.FallbackCustomersBase,
			Max:  p.cfg.FallbackCustomersMax,
		}
	}

	model, err := p.estimator.EstimateMarket(ctx, params)
	if err != nil {
		p.logger.Warn("modeling step failed: %v", err)
		*warnings = append(*warnings, "Market model could not be created - using conservative estimates")
		return FallbackModel()
	}
	return model
}

// computeScenarios runs scenario and sensitivity analysis with fallbacks
func (p *Pipeline) computeScenarios(ctx context.Context, req Request, model *market.MarketModel, warnings *[]string) (*market.ScenarioSet, []market.SensitivityImpact) {
	opts := scenario.Assumptions{PriceARPA: annualizedPriceAssumption(req.PriceAssumption)}

	scenarioSet, err := p.scenarios.ComputeScenarios(ctx, model, opts)
	if err != nil {
		p.logger.Warn("scenario analysis failed: %v", err)
		*warnings = append(*warnings, "Scenario analysis unavailable")
		return FallbackScenarios(model), FallbackSensitivity(model)
	}

	sensitivity, err := p.scenarios.ComputeSensitivity(ctx, model, opts)
	if err != nil {
		p.logger.Warn("sensitivity analysis failed: %v", err)
		*warnings = append(*warnings, "Sensitivity analysis unavailable")
		return scenarioSet, FallbackSensitivity(model)
	}

	return scenarioSet, sensitivity
}

// annualizedPriceAssumption treats sub-1000 prices as monthly
func annualizedPriceAssumption(price *float64) *float64 {
	if price == nil {
		return nil
	}
	p := *price
	if p < 1000 {
		p *= 12
	}
	return &p
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func defaultConfidenceReport() decision.ConfidenceReport {
	return decision.ConfidenceReport{
		Score:       50,
		Explanation: "Confidence score calculation unavailable",
	}
}

func fallbackEstimate(min, base, max float64) market.MarketEstimate {
	return market.MarketEstimate{
		Min:     min,
		Base:    base,
		Max:     max,
		Method:  "fallback",
		Formula: "Fallback estimate - modeling failed",
		Assumptions: []string{
			"Modeling step failed - using conservative fallback estimates",
		},
		SensitivityNotes: []string{
			"High uncertainty - modeling data unavailable",
		},
		DataQuality: market.QualityLow,
	}
}

// FallbackModel is the conservative wide-bounds model substituted when
// estimation fails entirely.
func FallbackModel() *market.MarketModel {
	return &market.MarketModel{
		TAM:               fallbackEstimate(0, 1.0, 10.0),
		SAM:               fallbackEstimate(0, 0.1, 1.0),
		SOM:               fallbackEstimate(0, 0.01, 0.1),
		EvidenceSources:   []string{},
		OverallConfidence: market.QualityLow,
	}
}

// FallbackScenarios repeats the base model across Bear/Base/Bull with no
// variation and no assumption tracking.
func FallbackScenarios(model *market.MarketModel) *market.ScenarioSet {
	flat := func(name market.ScenarioName) market.Scenario {
		return market.Scenario{
			Name:            name,
			TAM:             model.TAM,
			SAM:             model.SAM,
			SOM:             model.SOM,
			AssumptionsUsed: map[string]float64{},
		}
	}
	return &market.ScenarioSet{
		Bear: flat(market.ScenarioBear),
		Base: flat(market.ScenarioBase),
		Bull: flat(market.ScenarioBull),
	}
}

// FallbackSensitivity produces one generic ±30% entry per assumption from the
// SOM base case when the real sensitivity computation fails.
func FallbackSensitivity(model *market.MarketModel) []market.SensitivityImpact {
	names := []string{
		scenario.AssumptionNamePrice,
		scenario.AssumptionNameAdoption,
		scenario.AssumptionNameCustomers,
		scenario.AssumptionNameTAM,
		scenario.AssumptionNameServiceable,
	}
	base := round6(model.SOM.Base)
	impacts := make([]market.SensitivityImpact, 0, len(names))
	for _, name := range names {
		impacts = append(impacts, market.SensitivityImpact{
			AssumptionName:  name,
			BaseSOM:         base,
			ImpactMinus30:   round6(base * 0.7),
			ImpactPlus30:    round6(base * 1.3),
			ImpactMagnitude: round6(base * 0.6),
		})
	}
	return impacts
}

func resultToRecord(r *Result) ports.AnalysisRecord {
	return ports.AnalysisRecord{
		ID:          r.ID,
		Idea:        r.Idea,
		Model:       *r.Model,
		Scenarios:   *r.Scenarios,
		Decision:    r.Decision,
		Confidence:  r.Confidence,
		Competitors: r.Competitors,
		Risks:       r.Risks,
		Sensitivity: r.Sensitivity,
		Warnings:    r.Warnings,
		CreatedAt:   r.CreatedAt,
	}
}
