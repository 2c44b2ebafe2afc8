package glass

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
	tableName      = "glasses"
	imageTableName = "glass_images"
)

var (
	glassStruct = database.NewStruct(new(models.Glass))
	imageStruct = database.NewStruct(new(models.GlassImage))
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

func (r *Repository) List(ctx context.Context, workspaceID string) ([]models.Glass, error) {
	ctx, span := tracing.StartSpan(ctx, "GlassRepository.List")
	defer span.End()

	sb := glassStruct.SelectFrom(tableName)
	sb.Where(sb.Equal("workspace_id", workspaceID))
	sb.OrderBy("name ASC")

	query, args := sb.Build()

	var glasses []models.Glass
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &glasses, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list glasses")
		return nil, fmt.Errorf("failed to list glasses: %w", err)
	}

	return glasses, nil
}

func (r *Repository) GetByIDs(ctx context.Context, workspaceID string, ids []string) ([]models.Glass, error) {
	ctx, span := tracing.StartSpan(ctx, "GlassRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	sb := glassStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.In("id", database.Args(ids)...),
	)

	query, args := sb.Build()

	var glasses []models.Glass
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &glasses, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get glasses by ids")
		return nil, fmt.Errorf("failed to get glasses: %w", err)
	}

	return glasses, nil
}

func (r *Repository) FindByName(ctx context.Context, workspaceID string, name string) ([]models.Glass, error) {
	ctx, span := tracing.StartSpan(ctx, "GlassRepository.FindByName")
	defer span.End()

	sb := glassStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.EqualFold("name", name),
	)

	query, args := sb.Build()

	var glasses []models.Glass
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &glasses, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to find glasses by name")
		return nil, fmt.Errorf("failed to find glasses: %w", err)
	}

	return glasses, nil
}

func (r *Repository) Create(ctx context.Context, glass *models.Glass) error {
	ctx, span := tracing.StartSpan(ctx, "GlassRepository.Create")
	defer span.End()

	if glass.ID == "" {
		glass.ID = uuid.New().String()
	}

	query, args := glassStruct.InsertInto(tableName, glass).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create glass")
		return fmt.Errorf("failed to create glass: %w", err)
	}

	return nil
}

// ListImages returns the images of the given glasses.
func (r *Repository) ListImages(ctx context.Context, glassIDs []string) ([]models.GlassImage, error) {
	ctx, span := tracing.StartSpan(ctx, "GlassRepository.ListImages")
	defer span.End()

	if len(glassIDs) == 0 {
		return nil, nil
	}

	sb := imageStruct.SelectFrom(imageTableName)
	sb.Where(sb.In("glass_id", database.Args(glassIDs)...))

	query, args := sb.Build()

	var images []models.GlassImage
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &images, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list glass images")
		return nil, fmt.Errorf("failed to list glass images: %w", err)
	}

	return images, nil
}

func (r *Repository) CreateImage(ctx context.Context, image *models.GlassImage) error {
	ctx, span := tracing.StartSpan(ctx, "GlassRepository.CreateImage")
	defer span.End()

	query, args := imageStruct.InsertInto(imageTableName, image).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("glass_id", image.GlassID).Error("failed to create glass image")
		return fmt.Errorf("failed to create glass image: %w", err)
	}

	return nil
}
