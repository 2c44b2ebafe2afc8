package models

import (
	"encoding/json"
	"time"
)

type ImportPhase string

const (
	PhaseValidate       ImportPhase = "validate"
	PhasePrepareMapping ImportPhase = "prepare-mapping"
	PhaseExecute        ImportPhase = "execute"
)

// ImportRequest is the body of the phase endpoint. Data holds the raw bundle.
type ImportRequest struct {
	Phase    ImportPhase     `json:"phase" validate:"required"`
	Data     json.RawMessage `json:"data" validate:"required"`
	Mappings *ImportMappings `json:"mappings,omitempty"`
}

type ExportRequest struct {
	CocktailIDs []string `json:"cocktailIds" validate:"required,min=1,dive,required"`
}

// SharedExport is returned when an export is stored for sharing.
type SharedExport struct {
	ShareID   string        `json:"shareId"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Bundle    *ExportBundle `json:"bundle"`
}

type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BundleSummary struct {
	CocktailCount int         `json:"cocktailCount"`
	Cocktails     []EntityRef `json:"cocktails"`
}

type ValidationResult struct {
	Valid   bool           `json:"valid"`
	Errors  []string       `json:"errors,omitempty"`
	Summary *BundleSummary `json:"summary,omitempty"`
}

// ExistingMatch lists destination entities whose name relates to a bundle entity.
type ExistingMatch struct {
	ExportID   string      `json:"exportId"`
	ExportName string      `json:"exportName"`
	Matches    []EntityRef `json:"matches"`
}

type CocktailConflict struct {
	ExportID   string      `json:"exportId"`
	ExportName string      `json:"exportName"`
	Conflicts  []EntityRef `json:"conflicts"`
}

// MappingProposal is the output of the prepare-mapping phase.
type MappingProposal struct {
	ExistingMatches   map[EntityKind][]ExistingMatch          `json:"existingMatches"`
	AutoMappings      map[EntityKind][]AuxiliaryEntityMapping `json:"autoMappings"`
	CocktailConflicts []CocktailConflict                      `json:"cocktailConflicts"`
	// CocktailMappings holds the default decision per cocktail
	CocktailMappings []PrimaryEntityMapping `json:"cocktailMappings"`
}
