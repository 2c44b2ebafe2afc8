package stepaction

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"github.com/google/uuid"
)

const tableName = "step_actions"

var stepActionStruct = database.NewStruct(new(models.StepAction))

// Repository stores step action types. Name is only unique within an action group.
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

// List returns every step action of the workspace.
func (r *Repository) List(ctx context.Context, workspaceID string) ([]models.StepAction, error) {
	ctx, span := tracing.StartSpan(ctx, "StepActionRepository.List")
	defer span.End()

	sb := stepActionStruct.SelectFrom(tableName)
	sb.Where(sb.Equal("workspace_id", workspaceID))
	sb.OrderBy("action_group ASC", "name ASC")

	query, args := sb.Build()

	var actions []models.StepAction
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &actions, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list actions")
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	return actions, nil
}

func (r *Repository) GetByIDs(ctx context.Context, workspaceID string, ids []string) ([]models.StepAction, error) {
	ctx, span := tracing.StartSpan(ctx, "StepActionRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	sb := stepActionStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.In("id", database.Args(ids)...),
	)

	query, args := sb.Build()

	var actions []models.StepAction
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &actions, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get actions by ids")
		return nil, fmt.Errorf("failed to get actions: %w", err)
	}

	return actions, nil
}

// FindByName returns the step actions of every group whose name equals name ignoring case.
func (r *Repository) FindByName(ctx context.Context, workspaceID string, name string) ([]models.StepAction, error) {
	ctx, span := tracing.StartSpan(ctx, "StepActionRepository.FindByName")
	defer span.End()

	sb := stepActionStruct.SelectFrom(tableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.EqualFold("name", name),
	)

	query, args := sb.Build()

	var actions []models.StepAction
	if err := database.Executor(ctx, r.db).SelectContext(ctx, &actions, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to find actions by name")
		return nil, fmt.Errorf("failed to find actions: %w", err)
	}

	return actions, nil
}

// Create inserts action, minting an id when it has none.
func (r *Repository) Create(ctx context.Context, action *models.StepAction) error {
	ctx, span := tracing.StartSpan(ctx, "StepActionRepository.Create")
	defer span.End()

	if action.ID == "" {
		action.ID = uuid.New().String()
	}

	query, args := stepActionStruct.InsertInto(tableName, action).Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create action")
		return fmt.Errorf("failed to create action: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           action.ID,
		"workspace_id": action.WorkspaceID,
		"name":         action.Name,
		"action_group": action.ActionGroup,
	}).Debug("created action")

	return nil
}
