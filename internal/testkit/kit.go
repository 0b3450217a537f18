// Package testkit provides in-memory implementations of the storage ports and
// a deterministic synthetic fact corpus for pipeline, API and CLI use without
// a database.
package testkit

import (
	"context"
	"sort"
	"sync"

	"marketscope/domain/core"
	"marketscope/domain/evidence"
	"marketscope/domain/market"
	"marketscope/internal/errors"
	"marketscope/ports"
)

// TestKit bundles the in-memory stores behind the same ports the postgres
// adapters implement.
type TestKit struct {
	Facts    *InMemoryFactStore
	Ledger   *InMemoryLedger
	Analyses *InMemoryAnalysisStore
}

// NewTestKit creates an empty kit
func NewTestKit() *TestKit {
	return &TestKit{
		Facts:    NewInMemoryFactStore(),
		Ledger:   NewInMemoryLedger(),
		Analyses: NewInMemoryAnalysisStore(),
	}
}

// NewSeededTestKit creates a kit pre-loaded with the synthetic SaaS corpus
func NewSeededTestKit() *TestKit {
	kit := NewTestKit()
	SeedSaaSCorpus(kit)
	return kit
}

// InMemoryFactStore implements the fact reader and writer ports
type InMemoryFactStore struct {
	mu    sync.RWMutex
	facts []market.Fact
}

// NewInMemoryFactStore creates an empty fact store
func NewInMemoryFactStore() *InMemoryFactStore {
	return &InMemoryFactStore{}
}

// InsertFact appends a fact
func (s *InMemoryFactStore) InsertFact(_ context.Context, fact market.Fact) (core.FactID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fact.ID == "" {
		fact.ID = core.FactID(core.NewID())
	}
	if fact.Timestamp.IsZero() {
		fact.Timestamp = core.Now()
	}
	s.facts = append(s.facts, fact)
	return fact.ID, nil
}

// FactSnapshot returns non-inferred facts grouped by category in insert order
func (s *InMemoryFactStore) FactSnapshot(_ context.Context) (market.FactSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := market.FactSet{}
	for _, f := range s.facts {
		if f.IsInferred {
			continue
		}
		snapshot[f.Type] = append(snapshot[f.Type], f)
	}
	return snapshot, nil
}

// AllFacts returns every fact, inferred placeholders included
func (s *InMemoryFactStore) AllFacts(_ context.Context) ([]market.Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]market.Fact, len(s.facts))
	copy(out, s.facts)
	return out, nil
}

// InMemoryLedger implements the claim ledger and source store ports
type InMemoryLedger struct {
	mu      sync.RWMutex
	claims  []evidence.Claim
	sources []evidence.Source
}

// NewInMemoryLedger creates an empty ledger
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{}
}

// StoreClaim appends a claim
func (l *InMemoryLedger) StoreClaim(_ context.Context, claim evidence.Claim) (core.ClaimID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if claim.ID == "" {
		claim.ID = core.ClaimID(core.NewID())
	}
	if claim.Confidence == "" {
		claim.Confidence = evidence.ConfidenceFor(claim.Credibility)
	}
	if claim.RetrievedAt.IsZero() {
		claim.RetrievedAt = core.Now()
	}
	l.claims = append(l.claims, claim)
	return claim.ID, nil
}

// HasLowCredibility reports whether any low-credibility claim exists for the
// given claim type; an empty claimType checks across all types.
func (l *InMemoryLedger) HasLowCredibility(_ context.Context, claimType string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, c := range l.claims {
		if c.Credibility != evidence.CredibilityLow {
			continue
		}
		if claimType == "" || c.Type == claimType {
			return true, nil
		}
	}
	return false, nil
}

// StoreSource records a retrieved source
func (l *InMemoryLedger) StoreSource(_ context.Context, source evidence.Source) (core.SourceID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if source.ID == "" {
		source.ID = core.SourceID(core.NewID())
	}
	if source.RetrievedAt.IsZero() {
		source.RetrievedAt = core.Now()
	}
	l.sources = append(l.sources, source)
	return source.ID, nil
}

// AllSources returns every source in insert order
func (l *InMemoryLedger) AllSources(_ context.Context) ([]evidence.Source, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]evidence.Source, len(l.sources))
	copy(out, l.sources)
	return out, nil
}

// InMemoryAnalysisStore implements the analysis repository port
type InMemoryAnalysisStore struct {
	mu      sync.RWMutex
	records map[core.AnalysisID]ports.AnalysisRecord
}

// NewInMemoryAnalysisStore creates an empty analysis store
func NewInMemoryAnalysisStore() *InMemoryAnalysisStore {
	return &InMemoryAnalysisStore{records: map[core.AnalysisID]ports.AnalysisRecord{}}
}

// SaveAnalysis stores a completed analysis
func (s *InMemoryAnalysisStore) SaveAnalysis(_ context.Context, record ports.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

// GetAnalysis retrieves one analysis by ID
func (s *InMemoryAnalysisStore) GetAnalysis(_ context.Context, id core.AnalysisID) (*ports.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, errors.NotFound("analysis")
	}
	return &record, nil
}

// ListAnalyses returns the most recent analyses, newest first
func (s *InMemoryAnalysisStore) ListAnalyses(_ context.Context, limit int) ([]ports.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]ports.AnalysisRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[j].CreatedAt.Before(records[i].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
