// Package scenario derives Bear/Base/Bull variants of a market model and
// ranks assumptions by their impact on SOM. All perturbed arithmetic is
// rounded to six decimal places so identical inputs always produce
// bit-identical outputs.
package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"marketscope/domain/market"
	"marketscope/internal/errors"
	"marketscope/internal/estimation"
	"marketscope/ports"
)

// DefaultPriceARPA is used when no pricing facts exist and no explicit
// price assumption is supplied.
const DefaultPriceARPA = 1000.0

// defaultAdoptionRate matches the 2% base penetration of a 5-year horizon
const defaultAdoptionRate = 0.02

// fallbackCustomerCount seeds the customer range when it cannot be derived
const fallbackCustomerCount = 10000.0

// Assumptions optionally overrides the derived scenario inputs
type Assumptions struct {
	PriceARPA          *float64
	AdoptionRate       *float64
	ReachableCustomers *market.CustomerRange
}

// Engine computes scenarios and sensitivity rankings for a market model
type Engine struct {
	facts ports.FactReaderPort
}

// NewEngine creates a scenario engine over the given fact source
func NewEngine(facts ports.FactReaderPort) *Engine {
	return &Engine{facts: facts}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// derivePriceARPA returns the explicit price if given, otherwise the median
// annualized price across pricing facts, otherwise the default.
func (e *Engine) derivePriceARPA(ctx context.Context, explicit *float64) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if e.facts == nil {
		return DefaultPriceARPA, nil
	}
	snapshot, err := e.facts.FactSnapshot(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load pricing facts")
	}
	var prices []float64
	for _, f := range snapshot.ByType(market.FactPricing) {
		if f.Value != nil {
			prices = append(prices, estimation.AnnualizePrice(*f.Value, f.Unit))
		}
	}
	if len(prices) == 0 {
		return DefaultPriceARPA, nil
	}
	median, err := stats.Median(prices)
	if err != nil {
		return DefaultPriceARPA, nil
	}
	return median, nil
}

// deriveCustomers back-solves the reachable customer count from the SOM base
// case, falling back to SAM/price and finally a fixed seed. The min/max tiers
// are deterministic ±30% bands around base.
func deriveCustomers(model *market.MarketModel, priceARPA, adoptionRate float64) market.CustomerRange {
	somDollars := model.SOM.Base * 1e9
	var base float64
	if priceARPA*adoptionRate > 0 {
		base = somDollars / (priceARPA * adoptionRate)
	} else if priceARPA > 0 {
		base = model.SAM.Base * 1e9 / priceARPA
	} else {
		base = fallbackCustomerCount
	}
	return market.CustomerRange{Min: base * 0.7, Base: base, Max: base * 1.3}
}

// ComputeScenarios produces Bear/Base/Bull scenarios. Bear and Bull perturb
// price, adoption and customer count by ∓/±30%: their SOM is recomputed
// bottom-up from the perturbed assumptions while TAM and SAM are scaled
// linearly from the base estimates.
func (e *Engine) ComputeScenarios(ctx context.Context, model *market.MarketModel, opts Assumptions) (*market.ScenarioSet, error) {
	priceARPA, err := e.derivePriceARPA(ctx, opts.PriceARPA)
	if err != nil {
		return nil, err
	}

	adoptionRate := defaultAdoptionRate
	if opts.AdoptionRate != nil {
		adoptionRate = *opts.AdoptionRate
	} else if model.SAM.Base > 0 {
		adoptionRate = model.SOM.Base / model.SAM.Base
	}

	customers := deriveCustomers(model, priceARPA, adoptionRate)
	if opts.ReachableCustomers != nil {
		customers = *opts.ReachableCustomers
	}

	base := market.Scenario{
		Name: market.ScenarioBase,
		TAM:  model.TAM,
		SAM:  model.SAM,
		SOM:  model.SOM,
		AssumptionsUsed: map[string]float64{
			market.AssumptionPriceARPA:          priceARPA,
			market.AssumptionAdoptionRate:       adoptionRate,
			market.AssumptionReachableCustomers: customers.Base,
		},
	}

	return &market.ScenarioSet{
		Bear: perturbedScenario(market.ScenarioBear, model, priceARPA, adoptionRate, customers, 0.7),
		Base: base,
		Bull: perturbedScenario(market.ScenarioBull, model, priceARPA, adoptionRate, customers, 1.3),
	}, nil
}

// perturbedScenario applies the multiplier to all three assumptions and
// rebuilds the scenario. SOM comes from the bottom-up formula over perturbed
// assumptions; TAM and SAM are flat rescalings of the base estimates.
func perturbedScenario(name market.ScenarioName, model *market.MarketModel, priceARPA, adoptionRate float64, customers market.CustomerRange, factor float64) market.Scenario {
	price := priceARPA * factor
	adoption := adoptionRate * factor
	scaled := market.CustomerRange{
		Min:  customers.Min * factor,
		Base: customers.Base * factor,
		Max:  customers.Max * factor,
	}

	direction := "-30%"
	tone := "pessimistic"
	if factor > 1 {
		direction = "+30%"
		tone = "optimistic"
	}
	scenarioNote := fmt.Sprintf("%s scenario: %s on price, adoption, and customer count", name, direction)

	tam := market.MarketEstimate{
		Min:              round6(model.TAM.Min * factor),
		Base:             round6(model.TAM.Base * factor),
		Max:              round6(model.TAM.Max * factor),
		Method:           model.TAM.Method,
		Formula:          fmt.Sprintf("%s scenario: %s × %.1f", name, model.TAM.Formula, factor),
		Assumptions:      append(append([]string{}, model.TAM.Assumptions...), scenarioNote),
		SensitivityNotes: model.TAM.SensitivityNotes,
		DataQuality:      model.TAM.DataQuality,
	}
	sam := market.MarketEstimate{
		Min:              round6(model.SAM.Min * factor),
		Base:             round6(model.SAM.Base * factor),
		Max:              round6(model.SAM.Max * factor),
		Method:           model.SAM.Method,
		Formula:          fmt.Sprintf("%s scenario: %s × %.1f", name, model.SAM.Formula, factor),
		Assumptions:      append(append([]string{}, model.SAM.Assumptions...), scenarioNote),
		SensitivityNotes: model.SAM.SensitivityNotes,
		DataQuality:      model.SAM.DataQuality,
	}
	som := market.MarketEstimate{
		Min:    round6(scaled.Min * price * adoption / 1e9),
		Base:   round6(scaled.Base * price * adoption / 1e9),
		Max:    round6(scaled.Max * price * adoption / 1e9),
		Method: fmt.Sprintf("%s scenario (bottom-up)", name),
		Formula: fmt.Sprintf(
			"SOM = Reachable Customers × Price/ARPA × Adoption Rate (%s: all %s)", name, direction),
		Assumptions: []string{
			fmt.Sprintf("%s scenario: Price/ARPA = $%.0f (%s)", name, price, direction),
			fmt.Sprintf("%s scenario: Adoption rate = %.1f%% (%s)", name, adoption*100, direction),
			fmt.Sprintf("%s scenario: Reachable customers = %.0f (%s)", name, scaled.Base, direction),
		},
		SensitivityNotes: []string{
			fmt.Sprintf("%s scenario assumes %s assumptions across all factors", name, tone),
		},
		DataQuality: model.SOM.DataQuality,
	}

	return market.Scenario{
		Name: name,
		TAM:  tam,
		SAM:  sam,
		SOM:  som,
		AssumptionsUsed: map[string]float64{
			market.AssumptionPriceARPA:          price,
			market.AssumptionAdoptionRate:       adoption,
			market.AssumptionReachableCustomers: scaled.Base,
		},
	}
}
