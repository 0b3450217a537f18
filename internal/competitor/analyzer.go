// Package competitor aggregates competitor-fact mentions into unique
// competitors and infers positioning, pricing, geography and differentiators
// from the language of the context sentences.
package competitor

import (
	"regexp"
	"sort"
	"strings"

	"marketscope/domain/decision"
	"marketscope/domain/market"
)

// keywordBucket maps a category label to the substrings that indicate it.
// Buckets are evaluated in declared order; at most two matches are kept.
type keywordBucket struct {
	label    string
	keywords []string
}

var positioningBuckets = []keywordBucket{
	{"enterprise", []string{"enterprise", "large", "fortune", "enterprise-grade"}},
	{"mid-market", []string{"mid-market", "medium", "sme"}},
	{"small business", []string{"small business", "sme", "startup", "small company"}},
	{"consumer", []string{"consumer", "b2c", "retail", "individual"}},
	{"premium", []string{"premium", "high-end", "luxury", "expensive"}},
	{"budget", []string{"budget", "low-cost", "affordable", "cheap", "economy"}},
	{"saas", []string{"saas", "software-as-a-service", "cloud", "subscription"}},
	{"on-premise", []string{"on-premise", "on-premises", "self-hosted"}},
	{"vertical", []string{"vertical", "industry-specific", "niche"}},
	{"horizontal", []string{"horizontal", "cross-industry", "general-purpose"}},
}

var differentiatorBuckets = []keywordBucket{
	{"price", []string{"price", "pricing", "cost", "affordable", "expensive", "cheap"}},
	{"features", []string{"feature", "functionality", "capability", "tool"}},
	{"integration", []string{"integration", "integrate", "api", "connect"}},
	{"ease of use", []string{"easy", "simple", "user-friendly", "intuitive"}},
	{"scale", []string{"scale", "scalable", "enterprise", "large"}},
	{"speed", []string{"fast", "speed", "performance", "quick"}},
	{"security", []string{"security", "secure", "compliance", "encryption"}},
	{"support", []string{"support", "customer service", "help", "service"}},
	{"brand", []string{"brand", "reputation", "trusted", "established"}},
}

var pricingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$[\d,]+\.?\d*\s*(?:per\s+)?(?:month|year|user|license)`),
	regexp.MustCompile(`(?i)[\d,]+\.?\d*\s*(?:per\s+)?(?:month|year|user|license)`),
	regexp.MustCompile(`(?i)(?:free|freemium|paid|subscription)`),
}

var geographyKeywords = []string{
	"north america", "europe", "asia", "global", "us", "usa", "uk",
	"canada", "australia", "germany", "france", "japan", "china",
}

const (
	defaultPositioning    = "General market"
	defaultDifferentiator = "Standard offering"
	notSpecified          = "Not specified"
)

// matchBuckets returns up to two bucket labels whose keywords appear in the
// context, joined by comma, or the default when none match.
func matchBuckets(context string, buckets []keywordBucket, fallback string) string {
	lower := strings.ToLower(context)
	var matched []string
	for _, bucket := range buckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, bucket.label)
				break
			}
		}
		if len(matched) == 2 {
			break
		}
	}
	if len(matched) == 0 {
		return fallback
	}
	return strings.Join(matched, ", ")
}

// extractPricing returns the first pricing pattern found in the context
func extractPricing(context string) string {
	for _, pattern := range pricingPatterns {
		if m := pattern.FindString(context); m != "" {
			return m
		}
	}
	return notSpecified
}

// extractGeography returns the first known region mentioned in the context
func extractGeography(context string) string {
	lower := strings.ToLower(context)
	for _, geo := range geographyKeywords {
		if strings.Contains(lower, geo) {
			return titleCase(geo)
		}
	}
	return notSpecified
}

// titleCase upper-cases the first letter of each space-separated word
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

type group struct {
	name     string
	contexts []string
	source   string
}

// Analyze groups competitor facts by canonical (title-cased) name and derives
// an aggregated profile per competitor, sorted by mention count descending.
// Entries shorter than two characters are rejected.
func Analyze(competitorFacts []market.Fact) []decision.CompetitorInfo {
	groups := map[string]*group{}
	var order []string

	for _, f := range competitorFacts {
		name := strings.TrimSpace(f.Entity)
		if len(name) < 2 {
			continue
		}
		name = titleCase(name)

		g, ok := groups[name]
		if !ok {
			g = &group{name: name, source: f.SourceURL}
			groups[name] = g
			order = append(order, name)
		}
		g.contexts = append(g.contexts, f.Context)
	}

	competitors := make([]decision.CompetitorInfo, 0, len(order))
	for _, name := range order {
		g := groups[name]
		allContext := strings.Join(g.contexts, " ")

		pricing := notSpecified
		for _, ctx := range g.contexts {
			if p := extractPricing(ctx); p != notSpecified {
				pricing = p
				break
			}
		}

		geography := notSpecified
		for _, ctx := range g.contexts {
			if geo := extractGeography(ctx); geo != notSpecified {
				geography = geo
				break
			}
		}

		competitors = append(competitors, decision.CompetitorInfo{
			Name:           g.name,
			Positioning:    matchBuckets(allContext, positioningBuckets, defaultPositioning),
			Pricing:        pricing,
			Geography:      geography,
			Differentiator: matchBuckets(allContext, differentiatorBuckets, defaultDifferentiator),
			SourceURL:      g.source,
			MentionCount:   len(g.contexts),
		})
	}

	sort.SliceStable(competitors, func(i, j int) bool {
		return competitors[i].MentionCount > competitors[j].MentionCount
	})
	return competitors
}
