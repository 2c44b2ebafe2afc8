package ice

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"github.com/google/uuid"
)

const tableName = "ice"

var iceStruct = database.NewStruct(new(models.Ice))

// Repository stores ice types.
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

// List returns the workspace ice types ordered by name.
func (r *Repository) List(ctx context.Context, workspaceID string) ([]models.Ice, error) {
	ctx, span := tracing.StartSpan(ctx, "IceRepository.List")
	defer span.End()

	sb := iceStruct.SelectFrom(tableName)
	sb.Where(sb.Equal("workspace_id", workspaceID))
	sb.OrderBy("name ASC")

	query, args := sb.Build()

	var ice []models.Ice
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &ice, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list ice")
		return nil, fmt.Errorf("failed to list ice: %w", err)
	}

	return ice, nil
}

func (r *Repository) GetByIDs(ctx context.Context, workspaceID string, ids []string) ([]models.Ice, error) {
	ctx, span := tracing.StartSpan(ctx, "IceRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	sb := iceStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.In("id", database.Args(ids)...),
	)

	query, args := sb.Build()

	var ice []models.Ice
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &ice, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get ice by ids")
		return nil, fmt.Errorf("failed to get ice: %w", err)
	}

	return ice, nil
}

// FindByName matches names ignoring case.
func (r *Repository) FindByName(ctx context.Context, workspaceID string, name string) ([]models.Ice, error) {
	ctx, span := tracing.StartSpan(ctx, "IceRepository.FindByName")
	defer span.End()

	sb := iceStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.EqualFold("name", name),
	)

	query, args := sb.Build()

	var ice []models.Ice
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &ice, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to find ice by name")
		return nil, fmt.Errorf("failed to find ice: %w", err)
	}

	return ice, nil
}

// Create inserts ice and mints its id when missing.
func (r *Repository) Create(ctx context.Context, ice *models.Ice) error {
	ctx, span := tracing.StartSpan(ctx, "IceRepository.Create")
	defer span.End()

	if ice.ID == "" {
		ice.ID = uuid.New().String()
	}

	query, args := iceStruct.InsertInto(tableName, ice).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create ice")
		return fmt.Errorf("failed to create ice: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           ice.ID,
		"workspace_id": ice.WorkspaceID,
		"name":         ice.Name,
	}).Debug("created ice")

	return nil
}
