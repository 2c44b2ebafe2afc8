package ingredient

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"github.com/google/uuid"
)

const (
	tableName       = "ingredients"
	imageTableName  = "ingredient_images"
	volumeTableName = "ingredient_volumes"
)

var (
	ingredientStruct = database.NewStruct(new(models.Ingredient))
	imageStruct      = database.NewStruct(new(models.IngredientImage))
	volumeStruct     = database.NewStruct(new(models.IngredientVolume))
)

// Repository stores ingredients together with their images and unit volumes.
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

func (r *Repository) List(ctx context.Context, workspaceID string) ([]models.Ingredient, error) {
	ctx, span := tracing.StartSpan(ctx, "IngredientRepository.List")
	defer span.End()

	sb := ingredientStruct.SelectFrom(tableName)
	sb.Where(sb.Equal("workspace_id", workspaceID))
	sb.OrderBy("name ASC")

	query, args := sb.Build()

	var ingredients []models.Ingredient
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &ingredients, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list ingredients")
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	return ingredients, nil
}

func (r *Repository) GetByIDs(ctx context.Context, workspaceID string, ids []string) ([]models.Ingredient, error) {
	ctx, span := tracing.StartSpan(ctx, "IngredientRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	sb := ingredientStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.In("id", database.Args(ids)...),
	)

	query, args := sb.Build()

	var ingredients []models.Ingredient
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &ingredients, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get ingredients by ids")
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}

	return ingredients, nil
}

func (r *Repository) FindByName(ctx context.Context, workspaceID string, name string) ([]models.Ingredient, error) {
	ctx, span := tracing.StartSpan(ctx, "IngredientRepository.FindByName")
	defer span.End()

	sb := ingredientStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.EqualFold("name", name),
	)

	query, args := sb.Build()

	var ingredients []models.Ingredient
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &ingredients, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to find ingredients by name")
		return nil, fmt.Errorf("failed to find ingredients: %w", err)
	}

	return ingredients, nil
}

func (r *Repository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	ctx, span := tracing.StartSpan(ctx, "IngredientRepository.Create")
	defer span.End()

	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}

	query, args := ingredientStruct.InsertInto(tableName, ingredient).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("name", ingredient.Name).Error("failed to create ingredient")
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	return nil
}

func (r *Repository) ListImages(ctx context.Context, ingredientIDs []string) ([]models.IngredientImage, error) {
	ctx, span := tracing.StartSpan(ctx, "IngredientRepository.ListImages")
	defer span.End()

	if len(ingredientIDs) == 0 {
		return nil, nil
	}

	sb := imageStruct.SelectFrom(imageTableName)
	sb.Where(sb.In("ingredient_id", database.Args(ingredientIDs)...))

	query, args := sb.Build()

	var images []models.IngredientImage
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &images, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list ingredient images")
		return nil, fmt.Errorf("failed to list ingredient images: %w", err)
	}

	return images, nil
}

func (r *Repository) CreateImage(ctx context.Context, image *models.IngredientImage) error {
	ctx, span := tracing.StartSpan(ctx, "IngredientRepository.CreateImage")
	defer span.End()

	query, args := imageStruct.InsertInto(imageTableName, image).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("ingredient_id", image.IngredientID).Error("failed to create ingredient image")
		return fmt.Errorf("failed to create ingredient image: %w", err)
	}

	return nil
}

// ListVolumes returns the per-unit volumes of the given ingredients.
func (r *Repository) ListVolumes(ctx context.Context, ingredientIDs []string) ([]models.IngredientVolume, error) {
	ctx, span := tracing.StartSpan(ctx, "IngredientRepository.ListVolumes")
	defer span.End()

	if len(ingredientIDs) == 0 {
		return nil, nil
	}

	sb := volumeStruct.SelectFrom(volumeTableName)
	sb.Where(sb.In("ingredient_id", database.Args(ingredientIDs)...))

	query, args := sb.Build()

	var volumes []models.IngredientVolume
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &volumes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list ingredient volumes")
		return nil, fmt.Errorf("failed to list ingredient volumes: %w", err)
	}

	return volumes, nil
}

func (r *Repository) CreateVolume(ctx context.Context, volume *models.IngredientVolume) error {
	ctx, span := tracing.StartSpan(ctx, "IngredientRepository.CreateVolume")
	defer span.End()

	if volume.ID == "" {
		volume.ID = uuid.New().String()
	}

	query, args := volumeStruct.InsertInto(volumeTableName, volume).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"ingredient_id": volume.IngredientID,
			"unit_id":       volume.UnitID,
		}).Error("failed to create ingredient volume")
		return fmt.Errorf("failed to create ingredient volume: %w", err)
	}

	return nil
}
