package cocktail

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"github.com/google/uuid"
)

const (
	tableName           = "cocktail_recipes"
	imageTableName      = "cocktail_recipe_images"
	stepTableName       = "cocktail_recipe_steps"
	ingredientTableName = "cocktail_recipe_ingredients"
	garnishTableName    = "cocktail_recipe_garnishes"
)

var (
	recipeStruct     = database.NewStruct(new(models.CocktailRecipe))
	imageStruct      = database.NewStruct(new(models.CocktailRecipeImage))
	stepStruct       = database.NewStruct(new(models.CocktailRecipeStep))
	ingredientStruct = database.NewStruct(new(models.CocktailRecipeIngredient))
	garnishStruct    = database.NewStruct(new(models.CocktailRecipeGarnish))
)

// Repository stores cocktail recipes and their nested steps, step ingredients, garnishes and images.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetByID(ctx context.Context, workspaceID string, id string) (*models.CocktailRecipe, error) {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.GetByID")
	defer span.End()

	sb := recipeStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("workspace_id", workspaceID),
	)

	query, args := sb.Build()

	var recipe models.CocktailRecipe
	if err := database.Executor(ctx, r.db).GetContext(ctx, &recipe, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get cocktail recipe")
		return nil, fmt.Errorf("failed to get cocktail recipe: %w", err)
	}

	return &recipe, nil
}

func (r *Repository) GetByIDs(ctx context.Context, workspaceID string, ids []string) ([]models.CocktailRecipe, error) {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	sb := recipeStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.In("id", database.Args(ids)...),
	)
	sb.OrderBy("name ASC")

	query, args := sb.Build()

	var recipes []models.CocktailRecipe
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &recipes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get cocktail recipes by ids")
		return nil, fmt.Errorf("failed to get cocktail recipes: %w", err)
	}

	return recipes, nil
}

// FindByNames returns the recipes whose name equals one of names ignoring case.
func (r *Repository) FindByNames(ctx context.Context, workspaceID string, names []string) ([]models.CocktailRecipe, error) {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.FindByNames")
	defer span.End()

	if len(names) == 0 {
		return nil, nil
	}

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	sb := recipeStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.In("lower(name)", database.Args(lowered)...),
	)
	sb.OrderBy("name ASC")

	query, args := sb.Build()

	var recipes []models.CocktailRecipe
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &recipes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to find cocktail recipes by name")
		return nil, fmt.Errorf("failed to find cocktail recipes: %w", err)
	}

	return recipes, nil
}

func (r *Repository) Create(ctx context.Context, recipe *models.CocktailRecipe) error {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.Create")
	defer span.End()

	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}

	query, args := recipeStruct.InsertInto(tableName, recipe).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("name", recipe.Name).Error("failed to create cocktail recipe")
		return fmt.Errorf("failed to create cocktail recipe: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           recipe.ID,
		"workspace_id": recipe.WorkspaceID,
		"name":         recipe.Name,
	}).Info("created cocktail recipe")

	return nil
}

// Delete removes a recipe and its whole nested subtree, children first.
func (r *Repository) Delete(ctx context.Context, workspaceID string, id string) error {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.Delete")
	defer span.End()

	steps := database.NewSelectBuilder()
	steps.Select("id").From(stepTableName).Where(steps.Equal("cocktail_recipe_id", id))

	ingredients := database.NewDeleteBuilder()
	ingredients.DeleteFrom(ingredientTableName)
	ingredients.Where(ingredients.In("cocktail_recipe_step_id", steps.SelectBuilder))

	statements := []*database.DeleteBuilder{ingredients}
	for _, table := range []string{stepTableName, garnishTableName, imageTableName} {
		db := database.NewDeleteBuilder()
		db.DeleteFrom(table)
		db.Where(db.Equal("cocktail_recipe_id", id))
		statements = append(statements, db)
	}

	recipe := database.NewDeleteBuilder()
	recipe.DeleteFrom(tableName)
	recipe.Where(
		recipe.Equal("id", id),
		recipe.Equal("workspace_id", workspaceID),
	)
	statements = append(statements, recipe)

	executor := database.Executor(ctx, r.db)
	for _, statement := range statements {
		query, args := statement.Build()
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("failed to delete cocktail recipe")
			return fmt.Errorf("failed to delete cocktail recipe %s: %w", id, err)
		}
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           id,
		"workspace_id": workspaceID,
	}).Info("deleted cocktail recipe")

	return nil
}

func (r *Repository) ListImages(ctx context.Context, recipeIDs []string) ([]models.CocktailRecipeImage, error) {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.ListImages")
	defer span.End()

	var images []models.CocktailRecipeImage
	if err := r.listChildren(ctx, imageStruct, imageTableName, "cocktail_recipe_id", recipeIDs, "", &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *Repository) ListSteps(ctx context.Context, recipeIDs []string) ([]models.CocktailRecipeStep, error) {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.ListSteps")
	defer span.End()

	var steps []models.CocktailRecipeStep
	if err := r.listChildren(ctx, stepStruct, stepTableName, "cocktail_recipe_id", recipeIDs, "step_number", &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *Repository) ListStepIngredients(ctx context.Context, stepIDs []string) ([]models.CocktailRecipeIngredient, error) {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.ListStepIngredients")
	defer span.End()

	var ingredients []models.CocktailRecipeIngredient
	if err := r.listChildren(ctx, ingredientStruct, ingredientTableName, "cocktail_recipe_step_id", stepIDs, "ingredient_number", &ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *Repository) ListGarnishes(ctx context.Context, recipeIDs []string) ([]models.CocktailRecipeGarnish, error) {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.ListGarnishes")
	defer span.End()

	var garnishes []models.CocktailRecipeGarnish
	if err := r.listChildren(ctx, garnishStruct, garnishTableName, "cocktail_recipe_id", recipeIDs, "garnish_number", &garnishes); err != nil {
		return nil, err
	}
	return garnishes, nil
}

func (r *Repository) listChildren(ctx context.Context, s *database.Struct, table, parentColumn string, parentIDs []string, orderColumn string, dest any) error {
	if len(parentIDs) == 0 {
		return nil
	}

	sb := s.SelectFrom(table)
	sb.Where(sb.In(parentColumn, database.Args(parentIDs)...))
	if orderColumn != "" {
		sb.OrderBy(parentColumn, orderColumn)
	}

	query, args := sb.Build()

	if err := database.Executor(ctx, r.db).SelectContext(ctx, dest, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("table", table).Error("failed to list cocktail recipe children")
		return fmt.Errorf("failed to list %s: %w", table, err)
	}

	return nil
}

func (r *Repository) CreateImage(ctx context.Context, image *models.CocktailRecipeImage) error {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.CreateImage")
	defer span.End()

	return r.insert(ctx, imageStruct, imageTableName, image)
}

func (r *Repository) CreateStep(ctx context.Context, step *models.CocktailRecipeStep) error {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.CreateStep")
	defer span.End()

	if step.ID == "" {
		step.ID = uuid.New().String()
	}
	return r.insert(ctx, stepStruct, stepTableName, step)
}

func (r *Repository) CreateStepIngredient(ctx context.Context, ingredient *models.CocktailRecipeIngredient) error {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.CreateStepIngredient")
	defer span.End()

	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	return r.insert(ctx, ingredientStruct, ingredientTableName, ingredient)
}

func (r *Repository) CreateGarnish(ctx context.Context, garnish *models.CocktailRecipeGarnish) error {
	ctx, span := tracing.StartSpan(ctx, "CocktailRepository.CreateGarnish")
	defer span.End()

	return r.insert(ctx, garnishStruct, garnishTableName, garnish)
}

func (r *Repository) insert(ctx context.Context, s *database.Struct, table string, value any) error {
	query, args := s.InsertInto(table, value).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("table", table).Error("failed to insert cocktail recipe child")
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	return nil
}
