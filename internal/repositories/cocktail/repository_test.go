package cocktail

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewRepository(database.NewDatabaseInstance(sqlx.NewDb(db, "postgres"), logger), logger), mock
}

func TestRepository_Delete_RemovesSubtreeBeforeRecipe(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`DELETE FROM cocktail_recipe_ingredients WHERE cocktail_recipe_step_id IN \(SELECT id FROM cocktail_recipe_steps WHERE cocktail_recipe_id = \$1\)`).
		WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM cocktail_recipe_steps WHERE cocktail_recipe_id = \$1`).
		WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM cocktail_recipe_garnishes WHERE cocktail_recipe_id = \$1`).
		WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM cocktail_recipe_images WHERE cocktail_recipe_id = \$1`).
		WithArgs("r-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM cocktail_recipes WHERE id = \$1 AND workspace_id = \$2`).
		WithArgs("r-1", "ws-1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "ws-1", "r-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_StopsOnError(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`DELETE FROM cocktail_recipe_ingredients`).WillReturnError(errors.New("connection reset"))

	err := repo.Delete(context.Background(), "ws-1", "r-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "r-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByNames_LowercasesNames(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`FROM cocktail_recipes WHERE workspace_id = \$1 AND lower\(name\) IN \(\$2\)`).
		WithArgs("ws-1", "mojito").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "name"}).
			AddRow("r-1", "ws-1", "Mojito"))

	recipes, err := repo.FindByNames(context.Background(), "ws-1", []string{"MOJITO"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Mojito", recipes[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`FROM cocktail_recipes WHERE id = \$1 AND workspace_id = \$2`).
		WithArgs("missing", "ws-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	recipe, err := repo.GetByID(context.Background(), "ws-1", "missing")
	require.NoError(t, err)
	assert.Nil(t, recipe)
}

func TestRepository_ListSteps_OrdersByStepNumber(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`FROM cocktail_recipe_steps WHERE cocktail_recipe_id IN \(\$1\) ORDER BY cocktail_recipe_id, step_number`).
		WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "cocktail_recipe_id", "step_number", "optional", "action_id"}).
			AddRow("s-1", "r-1", 1, false, "a-1").
			AddRow("s-2", "r-1", 2, true, nil))

	steps, err := repo.ListSteps(context.Background(), []string{"r-1"})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	require.NotNil(t, steps[0].ActionID)
	assert.Equal(t, "a-1", *steps[0].ActionID)
	assert.Nil(t, steps[1].ActionID)
}
