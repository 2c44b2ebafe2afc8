package bundle

import (
	"context"

	"github.com/Ramsey-B/mint/pkg/models"
)

// LookupSource loads workspace records by id. Missing ids are silently absent from the result.
type LookupSource[T any] interface {
	GetByIDs(ctx context.Context, workspaceID string, ids []string) ([]T, error)
}

type CocktailSource interface {
	LookupSource[models.CocktailRecipe]
	ListImages(ctx context.Context, recipeIDs []string) ([]models.CocktailRecipeImage, error)
	ListSteps(ctx context.Context, recipeIDs []string) ([]models.CocktailRecipeStep, error)
	ListStepIngredients(ctx context.Context, stepIDs []string) ([]models.CocktailRecipeIngredient, error)
	ListGarnishes(ctx context.Context, recipeIDs []string) ([]models.CocktailRecipeGarnish, error)
}

type GlassSource interface {
	LookupSource[models.Glass]
	ListImages(ctx context.Context, glassIDs []string) ([]models.GlassImage, error)
}

type GarnishSource interface {
	LookupSource[models.Garnish]
	ListImages(ctx context.Context, garnishIDs []string) ([]models.GarnishImage, error)
}

type IngredientSource interface {
	LookupSource[models.Ingredient]
	ListImages(ctx context.Context, ingredientIDs []string) ([]models.IngredientImage, error)
	ListVolumes(ctx context.Context, ingredientIDs []string) ([]models.IngredientVolume, error)
}

type WorkspaceSource interface {
	GetByID(ctx context.Context, id string) (*models.Workspace, error)
	GetTranslations(ctx context.Context, workspaceID string) (models.Translations, error)
}

type Sources struct {
	Cocktails   CocktailSource
	Glasses     GlassSource
	Garnishes   GarnishSource
	Ingredients IngredientSource
	Units       LookupSource[models.Unit]
	Ice         LookupSource[models.Ice]
	StepActions LookupSource[models.StepAction]
	Workspaces  WorkspaceSource
}
