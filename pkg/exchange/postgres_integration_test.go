//go:build integration

package exchange_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/mint/internal/repositories/cocktail"
	"github.com/Ramsey-B/mint/internal/repositories/garnish"
	"github.com/Ramsey-B/mint/internal/repositories/glass"
	"github.com/Ramsey-B/mint/internal/repositories/ice"
	"github.com/Ramsey-B/mint/internal/repositories/ingredient"
	"github.com/Ramsey-B/mint/internal/repositories/stepaction"
	"github.com/Ramsey-B/mint/internal/repositories/unit"
	"github.com/Ramsey-B/mint/internal/repositories/workspace"
	"github.com/Ramsey-B/mint/pkg/bundle"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/events"
	"github.com/Ramsey-B/mint/pkg/exchange"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type stack struct {
	db          *database.DatabaseInstance
	units       *unit.Repository
	stepActions *stepaction.Repository
	glasses     *glass.Repository
	ingredients *ingredient.Repository
	cocktails   *cocktail.Repository
	service     *exchange.Service
}

func startPostgres(t *testing.T, ctx context.Context) database.ConnectionConfig {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "user",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "mint",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return database.ConnectionConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            port.Port(),
		User:            "user",
		Password:        "password",
		Name:            "mint",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	}
}

func newStack(t *testing.T, ctx context.Context) *stack {
	t.Helper()

	zapLogger, _ := zap.NewDevelopment()
	var logger ectologger.Logger = zapadapter.NewZapEctoLogger(zapLogger, nil)

	cfg := startPostgres(t, ctx)
	db, err := database.Connect(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations := database.NewMigrationService(logger, &database.MigrationConfig{MigrationFolderPath: "../../db/pg"})
	require.NoError(t, migrations.MigratePostgres(db.DB.DB, cfg.Name))

	s := &stack{
		db:          db,
		units:       unit.NewRepository(db, logger),
		stepActions: stepaction.NewRepository(db, logger),
		glasses:     glass.NewRepository(db, logger),
		ingredients: ingredient.NewRepository(db, logger),
		cocktails:   cocktail.NewRepository(db, logger),
	}
	iceRepo := ice.NewRepository(db, logger)
	garnishes := garnish.NewRepository(db, logger)
	workspaces := workspace.NewRepository(db, logger)

	serializer := bundle.NewSerializer(bundle.Sources{
		Cocktails:   s.cocktails,
		Glasses:     s.glasses,
		Garnishes:   garnishes,
		Ingredients: s.ingredients,
		Units:       s.units,
		Ice:         iceRepo,
		StepActions: s.stepActions,
		Workspaces:  workspaces,
	}, "1.0", logger)

	repos := reconcile.Repositories{
		Units:        s.units,
		Ice:          iceRepo,
		StepActions:  s.stepActions,
		Glasses:      s.glasses,
		Garnishes:    garnishes,
		Ingredients:  s.ingredients,
		Cocktails:    s.cocktails,
		Translations: workspaces,
	}

	s.service = exchange.NewService(
		serializer,
		reconcile.NewProposer(repos, logger),
		reconcile.NewExecutor(db, repos, logger),
		nil,
		events.NewEmitter(nil, logger),
		logger,
	)

	for _, ws := range []string{"ws-src", "ws-dst"} {
		_, err := db.ExecContext(ctx, "INSERT INTO workspaces (id, name) VALUES ($1, $2)", ws, fmt.Sprintf("Bar %s", ws))
		require.NoError(t, err)
	}

	return s
}

// seedSource stores a Mojito with one step that stirs 5 cl of rum.
func (s *stack) seedSource(t *testing.T, ctx context.Context) string {
	t.Helper()

	cl := &models.Unit{WorkspaceID: "ws-src", Name: "CL"}
	require.NoError(t, s.units.Create(ctx, cl))

	stir := &models.StepAction{WorkspaceID: "ws-src", Name: "STIR", ActionGroup: "MIX"}
	require.NoError(t, s.stepActions.Create(ctx, stir))

	highball := &models.Glass{WorkspaceID: "ws-src", Name: "Highball"}
	require.NoError(t, s.glasses.Create(ctx, highball))

	rum := &models.Ingredient{WorkspaceID: "ws-src", Name: "White Rum"}
	require.NoError(t, s.ingredients.Create(ctx, rum))

	mojito := &models.CocktailRecipe{WorkspaceID: "ws-src", Name: "Mojito", GlassID: &highball.ID, Tags: []string{"classic"}}
	require.NoError(t, s.cocktails.Create(ctx, mojito))

	step := &models.CocktailRecipeStep{CocktailRecipeID: mojito.ID, StepNumber: 1, ActionID: &stir.ID}
	require.NoError(t, s.cocktails.CreateStep(ctx, step))

	amount := 5.0
	require.NoError(t, s.cocktails.CreateStepIngredient(ctx, &models.CocktailRecipeIngredient{
		CocktailRecipeStepID: step.ID,
		IngredientID:         &rum.ID,
		UnitID:               &cl.ID,
		Amount:               &amount,
		IngredientNumber:     1,
	}))

	return mojito.ID
}

func mappings(p *models.MappingProposal) *models.ImportMappings {
	m := &models.ImportMappings{Cocktails: p.CocktailMappings}
	for _, kind := range models.AuxiliaryKinds {
		m.SetAuxiliary(kind, p.AutoMappings[kind])
	}
	return m
}

func TestExchangeAcrossWorkspaces(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, ctx)
	mojitoID := s.seedSource(t, ctx)

	// the destination already has the unit under a different case
	require.NoError(t, s.units.Create(ctx, &models.Unit{WorkspaceID: "ws-dst", Name: "cl"}))

	exported, err := s.service.Export(ctx, "ws-src", models.ExportRequest{CocktailIDs: []string{mojitoID}})
	require.NoError(t, err)
	raw, err := json.Marshal(exported)
	require.NoError(t, err)

	validation := s.service.Validate(ctx, raw)
	require.True(t, validation.Valid, validation.Errors)
	assert.Equal(t, 1, validation.Summary.CocktailCount)

	proposal, err := s.service.Prepare(ctx, "ws-dst", raw)
	require.NoError(t, err)
	require.Len(t, proposal.AutoMappings[models.KindUnits], 1)
	assert.Equal(t, models.DecisionUseExisting, proposal.AutoMappings[models.KindUnits][0].Decision)
	assert.Empty(t, proposal.CocktailConflicts)

	result, err := s.service.Execute(ctx, "ws-dst", raw, mappings(proposal))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Imported.Cocktails)
	assert.Equal(t, 1, result.Reused[models.KindUnits])
	assert.Equal(t, 1, result.Created[models.KindGlasses])
	assert.Equal(t, 1, result.Created[models.KindStepActions])
	assert.Equal(t, 1, result.Created[models.KindIngredients])
	assert.Empty(t, result.Errors)

	imported, err := s.cocktails.FindByNames(ctx, "ws-dst", []string{"mojito"})
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.NotEqual(t, mojitoID, imported[0].ID)

	// a second prepare sees the imported recipe as a conflict and defaults to skip
	again, err := s.service.Prepare(ctx, "ws-dst", raw)
	require.NoError(t, err)
	require.Len(t, again.CocktailConflicts, 1)
	assert.Equal(t, models.DecisionSkip, again.CocktailMappings[0].Decision)

	result, err = s.service.Execute(ctx, "ws-dst", raw, mappings(again))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported.Cocktails)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Created[models.KindGlasses])

	// importing back into the source reuses every reference
	proposal, err = s.service.Prepare(ctx, "ws-src", raw)
	require.NoError(t, err)
	proposal.CocktailMappings[0] = models.PrimaryEntityMapping{ExportID: mojitoID, Decision: models.DecisionRename, NewName: "Mojito (copy)"}

	result, err = s.service.Execute(ctx, "ws-src", raw, mappings(proposal))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported.Cocktails)
	for kind, n := range result.Created {
		assert.Zero(t, n, kind)
	}
}
