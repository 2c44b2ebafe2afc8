package stepaction

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_FindByName_ReturnsEveryGroup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	repo := NewRepository(database.NewDatabaseInstance(sqlx.NewDb(db, "postgres"), logger), logger)

	mock.ExpectQuery(`FROM step_actions WHERE workspace_id = \$1 AND lower\(name\) = lower\(\$2\)`).
		WithArgs("ws-1", "stir").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "name", "action_group"}).
			AddRow("a-1", "ws-1", "STIR", "MIX").
			AddRow("a-2", "ws-1", "STIR", "GARNISH"))

	actions, err := repo.FindByName(context.Background(), "ws-1", "stir")
	require.NoError(t, err)
	assert.Equal(t, []models.StepAction{
		{ID: "a-1", WorkspaceID: "ws-1", Name: "STIR", ActionGroup: "MIX"},
		{ID: "a-2", WorkspaceID: "ws-1", Name: "STIR", ActionGroup: "GARNISH"},
	}, actions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_InsertsGroup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	repo := NewRepository(database.NewDatabaseInstance(sqlx.NewDb(db, "postgres"), logger), logger)

	mock.ExpectExec(`INSERT INTO step_actions`).
		WithArgs("a-9", "ws-1", "STIR", "MIX").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), &models.StepAction{
		ID: "a-9", WorkspaceID: "ws-1", Name: "STIR", ActionGroup: "MIX",
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
