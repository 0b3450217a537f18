package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketscope/domain/market"
)

func TestComputeSensitivityReturnsFiveRankedImpacts(t *testing.T) {
	engine := NewEngine(&stubFactReader{snapshot: market.FactSet{}})
	model := testModel()

	impacts, err := engine.ComputeSensitivity(context.Background(), model, Assumptions{PriceARPA: ptr(1200)})
	require.NoError(t, err)
	require.Len(t, impacts, 5)

	names := map[string]bool{}
	for _, impact := range impacts {
		names[impact.AssumptionName] = true
	}
	for _, want := range []string{
		AssumptionNamePrice,
		AssumptionNameAdoption,
		AssumptionNameCustomers,
		AssumptionNameTAM,
		AssumptionNameServiceable,
	} {
		assert.True(t, names[want], "missing assumption %q", want)
	}

	for i := 1; i < len(impacts); i++ {
		assert.GreaterOrEqual(t, impacts[i-1].ImpactMagnitude, impacts[i].ImpactMagnitude,
			"impacts must be sorted by magnitude descending")
	}
}

func TestComputeSensitivityMagnitude(t *testing.T) {
	engine := NewEngine(&stubFactReader{snapshot: market.FactSet{}})
	model := testModel()
	price := 1200.0

	impacts, err := engine.ComputeSensitivity(context.Background(), model, Assumptions{PriceARPA: &price})
	require.NoError(t, err)

	for _, impact := range impacts {
		assert.Equal(t, round6(model.SOM.Base), impact.BaseSOM)
		assert.InDelta(t, impact.ImpactPlus30-impact.ImpactMinus30, impact.ImpactMagnitude, 1e-6)
		assert.GreaterOrEqual(t, impact.ImpactPlus30, impact.ImpactMinus30)
	}
}

func TestComputeSensitivityDeterministic(t *testing.T) {
	engine := NewEngine(&stubFactReader{snapshot: market.FactSet{}})
	model := testModel()
	opts := Assumptions{PriceARPA: ptr(1500)}

	first, err := engine.ComputeSensitivity(context.Background(), model, opts)
	require.NoError(t, err)
	second, err := engine.ComputeSensitivity(context.Background(), model, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeSensitivityUsesDefaultAdoptionWhenUnset(t *testing.T) {
	// Unlike scenario generation, sensitivity keeps the flat default adoption
	// rate rather than deriving SOM/SAM; the adoption impact must reflect 2%.
	engine := NewEngine(&stubFactReader{snapshot: market.FactSet{}})
	model := testModel()
	price := 1200.0

	impacts, err := engine.ComputeSensitivity(context.Background(), model, Assumptions{PriceARPA: &price})
	require.NoError(t, err)

	customers := deriveCustomers(model, price, defaultAdoptionRate)
	var adoptionImpact *market.SensitivityImpact
	for i := range impacts {
		if impacts[i].AssumptionName == AssumptionNameAdoption {
			adoptionImpact = &impacts[i]
		}
	}
	require.NotNil(t, adoptionImpact)
	assert.Equal(t, round6(customers.Base*price*defaultAdoptionRate*0.7/1e9), adoptionImpact.ImpactMinus30)
	assert.Equal(t, round6(customers.Base*price*defaultAdoptionRate*1.3/1e9), adoptionImpact.ImpactPlus30)
}
