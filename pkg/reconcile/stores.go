package reconcile

import (
	"context"

	"github.com/Ramsey-B/mint/pkg/models"
)

// AuxiliaryRepository is the storage surface shared by every reference-data kind.
type AuxiliaryRepository[T any] interface {
	List(ctx context.Context, workspaceID string) ([]T, error)
	// FindByName matches names ignoring case
	FindByName(ctx context.Context, workspaceID string, name string) ([]T, error)
	Create(ctx context.Context, record *T) error
}

type GlassRepository interface {
	AuxiliaryRepository[models.Glass]
	CreateImage(ctx context.Context, image *models.GlassImage) error
}

type GarnishRepository interface {
	AuxiliaryRepository[models.Garnish]
	CreateImage(ctx context.Context, image *models.GarnishImage) error
}

type IngredientRepository interface {
	AuxiliaryRepository[models.Ingredient]
	CreateImage(ctx context.Context, image *models.IngredientImage) error
	CreateVolume(ctx context.Context, volume *models.IngredientVolume) error
}

type CocktailRepository interface {
	GetByID(ctx context.Context, workspaceID string, id string) (*models.CocktailRecipe, error)
	FindByNames(ctx context.Context, workspaceID string, names []string) ([]models.CocktailRecipe, error)
	Create(ctx context.Context, recipe *models.CocktailRecipe) error
	Delete(ctx context.Context, workspaceID string, id string) error
	CreateImage(ctx context.Context, image *models.CocktailRecipeImage) error
	CreateStep(ctx context.Context, step *models.CocktailRecipeStep) error
	CreateStepIngredient(ctx context.Context, ingredient *models.CocktailRecipeIngredient) error
	CreateGarnish(ctx context.Context, garnish *models.CocktailRecipeGarnish) error
}

type TranslationRepository interface {
	MergeTranslations(ctx context.Context, workspaceID string, pending models.Translations) error
}

// Transactor runs work inside the import transaction and isolates single items in savepoints.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithSavepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

type Repositories struct {
	Units        AuxiliaryRepository[models.Unit]
	Ice          AuxiliaryRepository[models.Ice]
	StepActions  AuxiliaryRepository[models.StepAction]
	Glasses      GlassRepository
	Garnishes    GarnishRepository
	Ingredients  IngredientRepository
	Cocktails    CocktailRepository
	Translations TranslationRepository
}
