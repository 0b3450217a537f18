package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketscope/domain/core"
	"marketscope/domain/evidence"
	"marketscope/domain/market"
	"marketscope/ports"
)

func TestFactStoreSnapshotExcludesInferred(t *testing.T) {
	store := NewInMemoryFactStore()
	ctx := context.Background()

	value := 50.0
	_, err := store.InsertFact(ctx, market.Fact{Type: market.FactMarketSize, Value: &value})
	require.NoError(t, err)
	_, err = store.InsertFact(ctx, market.Fact{Type: market.FactMarketSize, IsInferred: true, Context: "no data found"})
	require.NoError(t, err)

	snapshot, err := store.FactSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot[market.FactMarketSize], 1)

	all, err := store.AllFacts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "AllFacts keeps inferred placeholders")
}

func TestFactStoreAssignsIDAndTimestamp(t *testing.T) {
	store := NewInMemoryFactStore()

	id, err := store.InsertFact(context.Background(), market.Fact{Type: market.FactPricing})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	all, _ := store.AllFacts(context.Background())
	assert.False(t, all[0].Timestamp.IsZero())
}

func TestLedgerLowCredibilityByType(t *testing.T) {
	ledger := NewInMemoryLedger()
	ctx := context.Background()

	_, err := ledger.StoreClaim(ctx, evidence.Claim{
		Text: "blog post claim", Type: "market_size", Credibility: evidence.CredibilityLow,
	})
	require.NoError(t, err)
	_, err = ledger.StoreClaim(ctx, evidence.Claim{
		Text: "analyst report claim", Type: "pricing", Credibility: evidence.CredibilityHigh,
	})
	require.NoError(t, err)

	low, err := ledger.HasLowCredibility(ctx, "market_size")
	require.NoError(t, err)
	assert.True(t, low)

	low, err = ledger.HasLowCredibility(ctx, "pricing")
	require.NoError(t, err)
	assert.False(t, low)

	low, err = ledger.HasLowCredibility(ctx, "")
	require.NoError(t, err)
	assert.True(t, low, "empty type checks across all claim types")
}

func TestLedgerClaimDefaults(t *testing.T) {
	ledger := NewInMemoryLedger()

	id, err := ledger.StoreClaim(context.Background(), evidence.Claim{
		Text: "x", Type: "pricing", Credibility: evidence.CredibilityLow,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	low, _ := ledger.HasLowCredibility(context.Background(), "pricing")
	assert.True(t, low)
}

func TestAnalysisStoreListNewestFirst(t *testing.T) {
	store := NewInMemoryAnalysisStore()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := store.SaveAnalysis(ctx, ports.AnalysisRecord{
			ID:        core.AnalysisID(core.NewID()),
			Idea:      string(rune('a' + i)),
			CreatedAt: core.NewTimestamp(base.Add(time.Duration(i) * time.Hour)),
		})
		require.NoError(t, err)
	}

	records, err := store.ListAnalyses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].Idea)
	assert.Equal(t, "b", records[1].Idea)
}

func TestAnalysisStoreGetMissing(t *testing.T) {
	store := NewInMemoryAnalysisStore()
	_, err := store.GetAnalysis(context.Background(), core.AnalysisID(core.NewID()))
	assert.Error(t, err)
}

func TestSeededCorpusShape(t *testing.T) {
	kit := NewSeededTestKit()
	ctx := context.Background()

	sources, err := kit.Ledger.AllSources(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 4)

	snapshot, err := kit.Facts.FactSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot[market.FactMarketSize], 3)
	assert.NotEmpty(t, snapshot[market.FactGrowthRate])
	assert.NotEmpty(t, snapshot[market.FactPricing])
	assert.NotEmpty(t, snapshot[market.FactCompetitor])
	assert.NotEmpty(t, snapshot[market.FactRegulatory])

	// the corpus carries no low-credibility claims, so ranges stay unwidened
	low, err := kit.Ledger.HasLowCredibility(ctx, "")
	require.NoError(t, err)
	assert.False(t, low)
}
