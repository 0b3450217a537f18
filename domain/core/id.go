package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	AnalysisID ID
	FactID     ID
	ClaimID    ID
	SourceID   ID
)

// String conversions for domain IDs
func (id AnalysisID) String() string { return ID(id).String() }
func (id FactID) String() string     { return ID(id).String() }
func (id ClaimID) String() string    { return ID(id).String() }
func (id SourceID) String() string   { return ID(id).String() }

// ParseAnalysisID parses a string into AnalysisID
func ParseAnalysisID(s string) (AnalysisID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("analysis ID cannot be empty")
	}
	return AnalysisID(s), nil
}

// ParseClaimID parses a string into ClaimID
func ParseClaimID(s string) (ClaimID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("claim ID cannot be empty")
	}
	return ClaimID(s), nil
}
