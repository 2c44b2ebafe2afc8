package models

// EntityKind names one entity list of a bundle that the reconciler processes.
type EntityKind string

const (
	KindUnits       EntityKind = "units"
	KindIce         EntityKind = "ice"
	KindStepActions EntityKind = "stepActions"
	KindGlasses     EntityKind = "glasses"
	KindGarnishes   EntityKind = "garnishes"
	KindIngredients EntityKind = "ingredients"
	KindCocktails   EntityKind = "cocktails"
)

// AuxiliaryKinds lists the reference-data kinds in declaration order.
var AuxiliaryKinds = []EntityKind{
	KindUnits,
	KindIce,
	KindStepActions,
	KindGlasses,
	KindGarnishes,
	KindIngredients,
}

// EntityType is the singular label used in error records.
func (k EntityKind) EntityType() string {
	switch k {
	case KindUnits:
		return "unit"
	case KindIce:
		return "ice"
	case KindStepActions:
		return "stepAction"
	case KindGlasses:
		return "glass"
	case KindGarnishes:
		return "garnish"
	case KindIngredients:
		return "ingredient"
	case KindCocktails:
		return "cocktail"
	default:
		return string(k)
	}
}
