package scenario

import (
	"context"
	"sort"

	"marketscope/domain/market"
)

// Assumption display names used in sensitivity rankings
const (
	AssumptionNamePrice       = "Price/ARPA"
	AssumptionNameAdoption    = "Adoption Rate"
	AssumptionNameCustomers   = "Reachable Customer Count"
	AssumptionNameTAM         = "TAM (Total Addressable Market)"
	AssumptionNameServiceable = "Serviceable Market % (SAM/TAM)"
)

// ComputeSensitivity perturbs each of five assumptions by ∓30% in isolation,
// holding the others at base, and ranks them by the absolute spread of the
// resulting SOM. The bottom-up assumptions flow through customers × price ×
// adoption; TAM and serviceable-% flow through the top-down percentage chain.
func (e *Engine) ComputeSensitivity(ctx context.Context, model *market.MarketModel, opts Assumptions) ([]market.SensitivityImpact, error) {
	priceARPA, err := e.derivePriceARPA(ctx, opts.PriceARPA)
	if err != nil {
		return nil, err
	}

	adoptionRate := defaultAdoptionRate
	if opts.AdoptionRate != nil {
		adoptionRate = *opts.AdoptionRate
	}

	customers := deriveCustomers(model, priceARPA, adoptionRate)
	if opts.ReachableCustomers != nil {
		customers = *opts.ReachableCustomers
	}

	baseSOM := round6(model.SOM.Base)
	bottomUp := func(c, p, a float64) float64 {
		return round6(c * p * a / 1e9)
	}

	impacts := []market.SensitivityImpact{
		impact(AssumptionNamePrice, baseSOM,
			bottomUp(customers.Base, priceARPA*0.7, adoptionRate),
			bottomUp(customers.Base, priceARPA*1.3, adoptionRate)),
		impact(AssumptionNameAdoption, baseSOM,
			bottomUp(customers.Base, priceARPA, adoptionRate*0.7),
			bottomUp(customers.Base, priceARPA, adoptionRate*1.3)),
		impact(AssumptionNameCustomers, baseSOM,
			bottomUp(customers.Base*0.7, priceARPA, adoptionRate),
			bottomUp(customers.Base*1.3, priceARPA, adoptionRate)),
	}

	// Top-down chain: TAM and serviceable-% perturbations propagate through
	// the SAM/TAM and SOM/SAM ratios of the base model.
	serviceablePct := 0.1
	if model.TAM.Base > 0 {
		serviceablePct = model.SAM.Base / model.TAM.Base
	}
	penetrationPct := 0.02
	if model.SAM.Base > 0 {
		penetrationPct = model.SOM.Base / model.SAM.Base
	}

	tamMinus := round6(model.TAM.Base * 0.7)
	tamPlus := round6(model.TAM.Base * 1.3)
	impacts = append(impacts, impact(AssumptionNameTAM, baseSOM,
		round6(round6(tamMinus*serviceablePct)*penetrationPct),
		round6(round6(tamPlus*serviceablePct)*penetrationPct)))

	pctMinus := round6(serviceablePct * 0.7)
	pctPlus := round6(serviceablePct * 1.3)
	impacts = append(impacts, impact(AssumptionNameServiceable, baseSOM,
		round6(round6(model.TAM.Base*pctMinus)*penetrationPct),
		round6(round6(model.TAM.Base*pctPlus)*penetrationPct)))

	sort.SliceStable(impacts, func(i, j int) bool {
		return impacts[i].ImpactMagnitude > impacts[j].ImpactMagnitude
	})
	if len(impacts) > 5 {
		impacts = impacts[:5]
	}
	return impacts, nil
}

func impact(name string, baseSOM, minus30, plus30 float64) market.SensitivityImpact {
	return market.SensitivityImpact{
		AssumptionName:  name,
		BaseSOM:         baseSOM,
		ImpactMinus30:   minus30,
		ImpactPlus30:    plus30,
		ImpactMagnitude: round6(abs(plus30 - minus30)),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
