package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketscope/domain/core"
	"marketscope/domain/evidence"
	"marketscope/domain/market"
	"marketscope/ports"
)

// FactWriterPort is the write side of the fact store, used by ingestion
type FactWriterPort interface {
	InsertFact(ctx context.Context, fact market.Fact) (core.FactID, error)
}

// SourceWriterPort records retrieved sources
type SourceWriterPort interface {
	StoreSource(ctx context.Context, source evidence.Source) (core.SourceID, error)
}

// EvidenceHandler handles fact, claim and source ingestion. Everything here is
// append-only; analysis runs read immutable snapshots of what was ingested.
type EvidenceHandler struct {
	facts   FactWriterPort
	reader  ports.FactReaderPort
	ledger  ports.LedgerWriterPort
	sources SourceWriterPort
}

// NewEvidenceHandler creates a new evidence handler
func NewEvidenceHandler(facts FactWriterPort, reader ports.FactReaderPort, ledger ports.LedgerWriterPort, sources SourceWriterPort) *EvidenceHandler {
	return &EvidenceHandler{facts: facts, reader: reader, ledger: ledger, sources: sources}
}

// CreateFact ingests one extracted fact
func (h *EvidenceHandler) CreateFact(c *gin.Context) {
	var fact market.Fact
	if err := c.ShouldBindJSON(&fact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fact body"})
		return
	}
	if !validFactType(fact.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown fact_type"})
		return
	}

	id, err := h.facts.InsertFact(c.Request.Context(), fact)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store fact"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListFacts returns the current non-inferred fact snapshot grouped by type
func (h *EvidenceHandler) ListFacts(c *gin.Context) {
	snapshot, err := h.reader.FactSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load facts"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// CreateClaim appends a claim to the evidence ledger
func (h *EvidenceHandler) CreateClaim(c *gin.Context) {
	var claim evidence.Claim
	if err := c.ShouldBindJSON(&claim); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim body"})
		return
	}
	if claim.Text == "" || claim.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "claim_text and claim_type are required"})
		return
	}

	id, err := h.ledger.StoreClaim(c.Request.Context(), claim)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store claim"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// CreateSource records a retrieved source
func (h *EvidenceHandler) CreateSource(c *gin.Context) {
	var source evidence.Source
	if err := c.ShouldBindJSON(&source); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source body"})
		return
	}
	if source.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	id, err := h.sources.StoreSource(c.Request.Context(), source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store source"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func validFactType(t market.FactType) bool {
	for _, known := range market.AllFactTypes() {
		if t == known {
			return true
		}
	}
	return false
}
