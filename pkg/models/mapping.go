package models

type AuxiliaryDecision string

const (
	DecisionUseExisting AuxiliaryDecision = "use-existing"
	DecisionCreateNew   AuxiliaryDecision = "create-new"
)

// AuxiliaryEntityMapping decides what happens to one auxiliary entity of a bundle.
type AuxiliaryEntityMapping struct {
	ExportID   string            `json:"exportId" validate:"required"`
	Decision   AuxiliaryDecision `json:"decision" validate:"required,oneof=use-existing create-new"`
	ExistingID string            `json:"existingId,omitempty" validate:"required_if=Decision use-existing"`
	// NewEntityData overrides fields of the bundle record before creation
	NewEntityData map[string]any `json:"newEntityData,omitempty"`
}

type PrimaryDecision string

const (
	DecisionImport    PrimaryDecision = "import"
	DecisionSkip      PrimaryDecision = "skip"
	DecisionRename    PrimaryDecision = "rename"
	DecisionOverwrite PrimaryDecision = "overwrite"
)

// PrimaryEntityMapping decides what happens to one cocktail recipe of a bundle.
type PrimaryEntityMapping struct {
	ExportID    string          `json:"exportId" validate:"required"`
	Decision    PrimaryDecision `json:"decision" validate:"required,oneof=import skip rename overwrite"`
	NewName     string          `json:"newName,omitempty" validate:"required_if=Decision rename"`
	OverwriteID string          `json:"overwriteId,omitempty" validate:"required_if=Decision overwrite"`
}

// ImportMappings is the complete decision set for an execute request.
type ImportMappings struct {
	Units       []AuxiliaryEntityMapping `json:"units" validate:"dive"`
	Ice         []AuxiliaryEntityMapping `json:"ice" validate:"dive"`
	StepActions []AuxiliaryEntityMapping `json:"stepActions" validate:"dive"`
	Glasses     []AuxiliaryEntityMapping `json:"glasses" validate:"dive"`
	Garnishes   []AuxiliaryEntityMapping `json:"garnishes" validate:"dive"`
	Ingredients []AuxiliaryEntityMapping `json:"ingredients" validate:"dive"`
	Cocktails   []PrimaryEntityMapping   `json:"cocktails" validate:"dive"`
}

// Auxiliary returns the mappings for an auxiliary kind.
func (m *ImportMappings) Auxiliary(kind EntityKind) []AuxiliaryEntityMapping {
	switch kind {
	case KindUnits:
		return m.Units
	case KindIce:
		return m.Ice
	case KindStepActions:
		return m.StepActions
	case KindGlasses:
		return m.Glasses
	case KindGarnishes:
		return m.Garnishes
	case KindIngredients:
		return m.Ingredients
	default:
		return nil
	}
}

// SetAuxiliary replaces the mappings for an auxiliary kind.
func (m *ImportMappings) SetAuxiliary(kind EntityKind, mappings []AuxiliaryEntityMapping) {
	switch kind {
	case KindUnits:
		m.Units = mappings
	case KindIce:
		m.Ice = mappings
	case KindStepActions:
		m.StepActions = mappings
	case KindGlasses:
		m.Glasses = mappings
	case KindGarnishes:
		m.Garnishes = mappings
	case KindIngredients:
		m.Ingredients = mappings
	}
}
