package testkit

import (
	"context"
	"time"

	"marketscope/domain/core"
	"marketscope/domain/evidence"
	"marketscope/domain/market"
)

func ptr(v float64) *float64 { return &v }

// SeedSaaSCorpus loads a fixed B2B-SaaS research corpus: three market-size
// figures, growth rates, pricing, five competitors and regulatory mentions
// across four sources. Fact values and source ordering are stable so analyses
// over the corpus are reproducible.
func SeedSaaSCorpus(kit *TestKit) {
	ctx := context.Background()
	now := time.Now()

	sources := []evidence.Source{
		{URL: "https://research.example.com/saas-market-2026", Credibility: evidence.CredibilityHigh, RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -10))},
		{URL: "https://analyst.example.com/crm-tam-report", Credibility: evidence.CredibilityHigh, RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -25))},
		{URL: "https://news.example.com/crm-competitors", Credibility: evidence.CredibilityMedium, RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -40))},
		{URL: "https://blog.example.com/pricing-survey", Credibility: evidence.CredibilityMedium, RetrievedAt: core.NewTimestamp(now.AddDate(0, 0, -60))},
	}
	for _, s := range sources {
		kit.Ledger.StoreSource(ctx, s)
	}

	facts := []market.Fact{
		{Type: market.FactMarketSize, Value: ptr(58.0), Unit: "billion", Context: "The global CRM market reached $58 billion in 2025", SourceURL: sources[0].URL},
		{Type: market.FactMarketSize, Value: ptr(63.5), Unit: "billion", Context: "Analysts size the CRM market at $63.5B", SourceURL: sources[1].URL},
		{Type: market.FactMarketSize, Value: ptr(52000.0), Unit: "million", Context: "CRM software spending totaled $52,000 million", SourceURL: sources[2].URL},

		{Type: market.FactGrowthRate, Value: ptr(12.5), Unit: "percent", Context: "CRM spending is growing 12.5% annually", SourceURL: sources[0].URL},
		{Type: market.FactGrowthRate, Value: ptr(10.8), Unit: "percent", Context: "Forecast CAGR of 10.8% through 2030", SourceURL: sources[1].URL},

		{Type: market.FactPricing, Value: ptr(99.0), Unit: "per month", Context: "Mid-tier plans average $99 per month per seat", SourceURL: sources[3].URL},
		{Type: market.FactPricing, Value: ptr(1500.0), Unit: "per year", Context: "Annual contracts average $1,500 per seat", SourceURL: sources[3].URL},
		{Type: market.FactPricing, Value: ptr(49.0), Unit: "per month", Context: "Entry plans start at $49 per month", SourceURL: sources[2].URL},

		{Type: market.FactCompetitor, Entity: "salesforce", Context: "Salesforce remains the established enterprise leader with premium pricing", SourceURL: sources[2].URL},
		{Type: market.FactCompetitor, Entity: "salesforce", Context: "Salesforce dominates large enterprise deployments globally", SourceURL: sources[0].URL},
		{Type: market.FactCompetitor, Entity: "salesforce", Context: "Salesforce cited most frequently in buyer surveys", SourceURL: sources[1].URL},
		{Type: market.FactCompetitor, Entity: "hubspot", Context: "HubSpot targets small business buyers with a freemium model", SourceURL: sources[2].URL},
		{Type: market.FactCompetitor, Entity: "hubspot", Context: "HubSpot known for ease of use and simple onboarding", SourceURL: sources[3].URL},
		{Type: market.FactCompetitor, Entity: "pipedrive", Context: "Pipedrive offers affordable plans for small teams in Europe", SourceURL: sources[3].URL},
		{Type: market.FactCompetitor, Entity: "zoho", Context: "Zoho competes on price with a broad feature set", SourceURL: sources[2].URL},
		{Type: market.FactCompetitor, Entity: "freshworks", Context: "Freshworks sells a cloud suite with fast integration", SourceURL: sources[2].URL},

		{Type: market.FactRegulatory, Entity: "GDPR", Context: "GDPR compliance is required for processing EU customer data", SourceURL: sources[0].URL},
		{Type: market.FactRegulatory, Entity: "SOC 2", Context: "Enterprise buyers require SOC 2 certification", SourceURL: sources[1].URL},
	}
	for i, f := range facts {
		f.Timestamp = core.NewTimestamp(now.AddDate(0, 0, -15).Add(time.Duration(i) * time.Minute))
		kit.Facts.InsertFact(ctx, f)
	}

	claims := []evidence.Claim{
		{Text: "Global CRM market reached $58B in 2025", Type: "market_size", Value: ptr(58.0), Unit: "billion", SourceURL: sources[0].URL, Excerpt: "reached $58 billion in 2025", Credibility: evidence.CredibilityHigh},
		{Text: "CRM spending grows 12.5% annually", Type: "growth_rate", Value: ptr(12.5), Unit: "percent", SourceURL: sources[0].URL, Excerpt: "growing 12.5% annually", Credibility: evidence.CredibilityHigh},
		{Text: "Mid-tier CRM plans average $99/month", Type: "pricing", Value: ptr(99.0), Unit: "per month", SourceURL: sources[3].URL, Excerpt: "average $99 per month", Credibility: evidence.CredibilityMedium},
	}
	for _, c := range claims {
		kit.Ledger.StoreClaim(ctx, c)
	}
}
