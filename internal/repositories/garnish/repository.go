package garnish

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
	tableName      = "garnishes"
	imageTableName = "garnish_images"
)

var (
	garnishStruct = database.NewStruct(new(models.Garnish))
	imageStruct = database.NewStruct(new(models.GarnishImage))
)

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

func (r *Repository) List(ctx context.Context, workspaceID string) ([]models.Garnish, error) {
	ctx, span := tracing.StartSpan(ctx, "GarnishRepository.List")
	defer span.End()

	sb := garnishStruct.SelectFrom(tableName)
	sb.Where(sb.Equal("workspace_id", workspaceID))
	sb.OrderBy("name ASC")

	query, args := sb.Build()

	var garnishes []models.Garnish
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &garnishes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list garnishes")
		return nil, fmt.Errorf("failed to list garnishes: %w", err)
	}

	return garnishes, nil
}

func (r *Repository) GetByIDs(ctx context.Context, workspaceID string, ids []string) ([]models.Garnish, error) {
	ctx, span := tracing.StartSpan(ctx, "GarnishRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	sb := garnishStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.In("id", database.Args(ids)...),
	)

	query, args := sb.Build()

	var garnishes []models.Garnish
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &garnishes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get garnishes by ids")
		return nil, fmt.Errorf("failed to get garnishes: %w", err)
	}

	return garnishes, nil
}

func (r *Repository) FindByName(ctx context.Context, workspaceID string, name string) ([]models.Garnish, error) {
	ctx, span := tracing.StartSpan(ctx, "GarnishRepository.FindByName")
	defer span.End()

	sb := garnishStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.EqualFold("name", name),
	)

	query, args := sb.Build()

	var garnishes []models.Garnish
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &garnishes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to find garnishes by name")
		return nil, fmt.Errorf("failed to find garnishes: %w", err)
	}

	return garnishes, nil
}

func (r *Repository) Create(ctx context.Context, garnish *models.Garnish) error {
	ctx, span := tracing.StartSpan(ctx, "GarnishRepository.Create")
	defer span.End()

	if garnish.ID == "" {
		garnish.ID = uuid.New().String()
	}

	query, args := garnishStruct.InsertInto(tableName, garnish).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create garnish")
		return fmt.Errorf("failed to create garnish: %w", err)
	}

	return nil
}

// ListImages returns the images of the given garnishes.
func (r *Repository) ListImages(ctx context.Context, garnishIDs []string) ([]models.GarnishImage, error) {
	ctx, span := tracing.StartSpan(ctx, "GarnishRepository.ListImages")
	defer span.End()

	if len(garnishIDs) == 0 {
		return nil, nil
	}

	sb := imageStruct.SelectFrom(imageTableName)
	sb.Where(sb.In("garnish_id", database.Args(garnishIDs)...))

	query, args := sb.Build()

	var images []models.GarnishImage
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &images, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list garnish images")
		return nil, fmt.Errorf("failed to list garnish images: %w", err)
	}

	return images, nil
}

func (r *Repository) CreateImage(ctx context.Context, image *models.GarnishImage) error {
	ctx, span := tracing.StartSpan(ctx, "GarnishRepository.CreateImage")
	defer span.End()

	query, args := imageStruct.InsertInto(imageTableName, image).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("garnish_id", image.GarnishID).Error("failed to create garnish image")
		return fmt.Errorf("failed to create garnish image: %w", err)
	}

	return nil
}
