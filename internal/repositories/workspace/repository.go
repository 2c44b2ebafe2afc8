package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
)

const (
	tableName         = "workspaces"
	settingsTableName = "workspace_settings"

	// SettingTranslations holds the workspace translation labels as JSONB
	SettingTranslations = "translations"
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

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	ctx, span := tracing.StartSpan(ctx, "WorkspaceRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "name")
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var workspace models.Workspace
	if err := database.Executor(ctx, r.db).GetContext(ctx, &workspace, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get workspace")
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return &workspace, nil
}

// GetTranslations returns the workspace labels, empty when none are stored.
func (r *Repository) GetTranslations(ctx context.Context, workspaceID string) (models.Translations, error) {
	ctx, span := tracing.StartSpan(ctx, "WorkspaceRepository.GetTranslations")
	defer span.End()

	return r.getTranslations(ctx, workspaceID, false)
}

func (r *Repository) getTranslations(ctx context.Context, workspaceID string, forUpdate bool) (models.Translations, error) {
	sb := database.NewSelectBuilder()
	sb.Select("value")
	sb.From(settingsTableName)
	sb.Where(
		sb.Equal("workspace_id", workspaceID),
		sb.Equal("setting", SettingTranslations),
	)
	if forUpdate {
		sb.ForUpdate()
	}

	query, args := sb.Build()

	var value database.JSONB[models.Translations]
	if err := database.Executor(ctx, r.db).GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Translations{}, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get workspace translations")
		return nil, fmt.Errorf("failed to get workspace translations: %w", err)
	}

	if value.Data == nil {
		return models.Translations{}, nil
	}
	return value.Data, nil
}

// MergeTranslations folds pending labels into the stored translations with a single upsert.
func (r *Repository) MergeTranslations(ctx context.Context, workspaceID string, pending models.Translations) error {
	ctx, span := tracing.StartSpan(ctx, "WorkspaceRepository.MergeTranslations")
	defer span.End()

	if len(pending) == 0 {
		return nil
	}

	current, err := r.getTranslations(ctx, workspaceID, true)
	if err != nil {
		return err
	}
	current.Merge(pending)

	ib := database.NewInsertBuilder()
	ib.InsertInto(settingsTableName)
	ib.Cols("workspace_id", "setting", "value")
	ib.Values(workspaceID, SettingTranslations, database.JSONB[models.Translations]{Data: current})
	ub := ib.OnConflict("workspace_id", "setting")
	ub.Set(ub.Assign("value", database.Excluded("value")))

	query, args := ib.Build()

	if _, err := database.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to upsert workspace translations")
		return fmt.Errorf("failed to upsert workspace translations: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"workspace_id": workspaceID,
		"languages":    len(pending),
	}).Info("merged workspace translations")

	return nil
}
