package models

import (
	"time"

	"github.com/lib/pq"
)

// ExportBundle is the portable snapshot of a set of cocktail recipes and everything they reference.
type ExportBundle struct {
	ExportVersion string       `json:"exportVersion"`
	ExportDate    time.Time    `json:"exportDate"`
	ExportedFrom  ExportSource `json:"exportedFrom"`

	CocktailRecipes           []CocktailRecipe           `json:"cocktailRecipes"`
	CocktailRecipeImages      []CocktailRecipeImage      `json:"cocktailRecipeImages"`
	CocktailRecipeSteps       []CocktailRecipeStep       `json:"cocktailRecipeSteps"`
	CocktailRecipeGarnishes   []CocktailRecipeGarnish    `json:"cocktailRecipeGarnishes"`
	CocktailRecipeIngredients []CocktailRecipeIngredient `json:"cocktailRecipeIngredients"`
	Glasses                   []Glass                    `json:"glasses"`
	GlassImages               []GlassImage               `json:"glassImages"`
	Garnishes                 []Garnish                  `json:"garnishes"`
	GarnishImages             []GarnishImage             `json:"garnishImages"`
	Ingredients               []Ingredient               `json:"ingredients"`
	IngredientImages          []IngredientImage          `json:"ingredientImages"`
	IngredientVolumes         []IngredientVolume         `json:"ingredientVolumes"`
	Ice                       []Ice                      `json:"ice"`
	Units                     []Unit                     `json:"units"`
	StepActions               []StepAction               `json:"stepActions"`

	// Translations holds the source workspace labels keyed by language, then by entity name
	Translations Translations `json:"translations,omitempty"`
}

type ExportSource struct {
	WorkspaceID   string `json:"workspaceId"`
	WorkspaceName string `json:"workspaceName"`
}

// Translations maps language -> key -> label.
type Translations map[string]map[string]string

// Set stores label for key in lang.
func (t Translations) Set(lang, key, label string) {
	if t[lang] == nil {
		t[lang] = map[string]string{}
	}
	t[lang][key] = label
}

// Labels returns every label stored for key, by language.
func (t Translations) Labels(key string) map[string]string {
	labels := map[string]string{}
	for lang, entries := range t {
		if label, ok := entries[key]; ok {
			labels[lang] = label
		}
	}
	return labels
}

// Merge copies other into t, overwriting existing keys.
func (t Translations) Merge(other Translations) {
	for lang, entries := range other {
		for key, label := range entries {
			t.Set(lang, key, label)
		}
	}
}

type CocktailRecipe struct {
	ID           string         `json:"id" db:"id"`
	WorkspaceID  string         `json:"-" db:"workspace_id"`
	Name         string         `json:"name" db:"name"`
	Description  *string        `json:"description" db:"description"`
	Tags         pq.StringArray `json:"tags" db:"tags"`
	Price        *float64       `json:"price" db:"price"`
	GlassID      *string        `json:"glassId" db:"glass_id"`
	GlassWithIce bool           `json:"glassWithIce" db:"glass_with_ice"`
	IceID        *string        `json:"iceId" db:"ice_id"`
	IsArchived   bool           `json:"isArchived" db:"is_archived"`
	History      *string        `json:"history" db:"history"`
	Notes        *string        `json:"notes" db:"notes"`
}

type CocktailRecipeImage struct {
	CocktailRecipeID string `json:"cocktailRecipeId" db:"cocktail_recipe_id"`
	Image            string `json:"image" db:"image"`
}

type CocktailRecipeStep struct {
	ID               string  `json:"id" db:"id"`
	CocktailRecipeID string  `json:"cocktailRecipeId" db:"cocktail_recipe_id"`
	StepNumber       int     `json:"stepNumber" db:"step_number"`
	Optional         bool    `json:"optional" db:"optional"`
	ActionID         *string `json:"actionId" db:"action_id"`
}

type CocktailRecipeIngredient struct {
	ID                   string   `json:"id" db:"id"`
	CocktailRecipeStepID string   `json:"cocktailRecipeStepId" db:"cocktail_recipe_step_id"`
	IngredientID         *string  `json:"ingredientId" db:"ingredient_id"`
	UnitID               *string  `json:"unitId" db:"unit_id"`
	Amount               *float64 `json:"amount" db:"amount"`
	IngredientNumber     int      `json:"ingredientNumber" db:"ingredient_number"`
	Optional             bool     `json:"optional" db:"optional"`
}

type CocktailRecipeGarnish struct {
	CocktailRecipeID string  `json:"cocktailRecipeId" db:"cocktail_recipe_id"`
	GarnishID        string  `json:"garnishId" db:"garnish_id"`
	GarnishNumber    int     `json:"garnishNumber" db:"garnish_number"`
	Description      *string `json:"description" db:"description"`
	Optional         bool    `json:"optional" db:"optional"`
	IsAlternative    bool    `json:"isAlternative" db:"is_alternative"`
}

type Glass struct {
	ID          string   `json:"id" db:"id"`
	WorkspaceID string   `json:"-" db:"workspace_id"`
	Name        string   `json:"name" db:"name"`
	Deposit     float64  `json:"deposit" db:"deposit"`
	Volume      *float64 `json:"volume" db:"volume"`
	Notes       *string  `json:"notes" db:"notes"`
}

type GlassImage struct {
	GlassID string `json:"glassId" db:"glass_id"`
	Image   string `json:"image" db:"image"`
}

type Garnish struct {
	ID          string   `json:"id" db:"id"`
	WorkspaceID string   `json:"-" db:"workspace_id"`
	Name        string   `json:"name" db:"name"`
	Price       *float64 `json:"price" db:"price"`
	Description *string  `json:"description" db:"description"`
	Notes       *string  `json:"notes" db:"notes"`
}

type GarnishImage struct {
	GarnishID string `json:"garnishId" db:"garnish_id"`
	Image     string `json:"image" db:"image"`
}

type Ingredient struct {
	ID          string         `json:"id" db:"id"`
	WorkspaceID string         `json:"-" db:"workspace_id"`
	Name        string         `json:"name" db:"name"`
	ShortName   *string        `json:"shortName" db:"short_name"`
	Price       *float64       `json:"price" db:"price"`
	Volume      *float64       `json:"volume" db:"volume"`
	Notes       *string        `json:"notes" db:"notes"`
	Description *string        `json:"description" db:"description"`
	Link        *string        `json:"link" db:"link"`
	Tags        pq.StringArray `json:"tags" db:"tags"`
}

type IngredientImage struct {
	IngredientID string `json:"ingredientId" db:"ingredient_id"`
	Image        string `json:"image" db:"image"`
}

type IngredientVolume struct {
	ID           string  `json:"id" db:"id"`
	WorkspaceID  string  `json:"-" db:"workspace_id"`
	IngredientID string  `json:"ingredientId" db:"ingredient_id"`
	UnitID       string  `json:"unitId" db:"unit_id"`
	Volume       float64 `json:"volume" db:"volume"`
}

type Ice struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"-" db:"workspace_id"`
	Name        string `json:"name" db:"name"`
}

type Unit struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"-" db:"workspace_id"`
	Name        string `json:"name" db:"name"`
}

type StepAction struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"-" db:"workspace_id"`
	Name        string `json:"name" db:"name"`
	ActionGroup string `json:"actionGroup" db:"action_group"`
}

type Workspace struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
