package market

// ScenarioName identifies one of the three deterministic scenarios
type ScenarioName string

const (
	ScenarioBear ScenarioName = "Bear"
	ScenarioBase ScenarioName = "Base"
	ScenarioBull ScenarioName = "Bull"
)

// Assumption keys used in Scenario.AssumptionsUsed
const (
	AssumptionPriceARPA          = "price_arpa"
	AssumptionAdoptionRate       = "adoption_rate"
	AssumptionReachableCustomers = "reachable_customers"
)

// Scenario is a Bear/Base/Bull variant of a market model. Bear and Bull are
// deterministic ±30% perturbations of the base assumptions, not independently
// estimated from facts.
type Scenario struct {
	Name            ScenarioName       `json:"name"`
	TAM             MarketEstimate     `json:"tam"`
	SAM             MarketEstimate     `json:"sam"`
	SOM             MarketEstimate     `json:"som"`
	AssumptionsUsed map[string]float64 `json:"assumptions_used"`
}

// ScenarioSet holds the three scenarios produced per run
type ScenarioSet struct {
	Bear Scenario `json:"bear"`
	Base Scenario `json:"base"`
	Bull Scenario `json:"bull"`
}

// CustomerRange is a min/base/max reachable-customer count
type CustomerRange struct {
	Min  float64 `json:"min"`
	Base float64 `json:"base"`
	Max  float64 `json:"max"`
}

// SensitivityImpact records how much a single assumption moves the SOM base
// case when perturbed by ±30% with all other assumptions held at base.
type SensitivityImpact struct {
	AssumptionName  string  `json:"assumption_name"`
	BaseSOM         float64 `json:"base_som"`
	ImpactMinus30   float64 `json:"impact_minus_30pct"`
	ImpactPlus30    float64 `json:"impact_plus_30pct"`
	ImpactMagnitude float64 `json:"impact_magnitude"`
}
