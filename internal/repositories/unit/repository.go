package unit

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"github.com/google/uuid"
)

const tableName = "units"

var unitStruct = database.NewStruct(new(models.Unit))

// Repository stores units of measure.
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

// List returns every unit of the workspace ordered by name.
func (r *Repository) List(ctx context.Context, workspaceID string) ([]models.Unit, error) {
	ctx, span := tracing.StartSpan(ctx, "UnitRepository.List")
	defer span.End()

	sb := unitStruct.SelectFrom(tableName)
	sb.Where(sb.Equal("workspace_id", workspaceID))
	sb.OrderBy("name ASC")

	query, args := sb.Build()

	var units []models.Unit
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &units, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list units")
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	return units, nil
}

func (r *Repository) GetByIDs(ctx context.Context, workspaceID string, ids []string) ([]models.Unit, error) {
	ctx, span := tracing.StartSpan(ctx, "UnitRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	sb := unitStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.In("id", database.Args(ids)...),
	)

	query, args := sb.Build()

	var units []models.Unit
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &units, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get units by ids")
		return nil, fmt.Errorf("failed to get units: %w", err)
	}

	return units, nil
}

// FindByName returns the units whose name equals name ignoring case.
func (r *Repository) FindByName(ctx context.Context, workspaceID string, name string) ([]models.Unit, error) {
	ctx, span := tracing.StartSpan(ctx, "UnitRepository.FindByName")
	defer span.End()

	sb := unitStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.EqualFold("name", name),
	)

	query, args := sb.Build()

	var units []models.Unit
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &units, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to find units by name")
		return nil, fmt.Errorf("failed to find units: %w", err)
	}

	return units, nil
}

// Create inserts unit, minting an id when it has none.
func (r *Repository) Create(ctx context.Context, unit *models.Unit) error {
	ctx, span := tracing.StartSpan(ctx, "UnitRepository.Create")
	defer span.End()

	if unit.ID == "" {
		unit.ID = uuid.New().String()
	}

	query, args := unitStruct.InsertInto(tableName, unit).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create unit")
		return fmt.Errorf("failed to create unit: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           unit.ID,
		"workspace_id": unit.WorkspaceID,
		"name":         unit.Name,
	}).Debug("created unit")

	return nil
}
