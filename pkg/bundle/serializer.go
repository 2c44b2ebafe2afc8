package bundle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Serializer exports cocktail recipes together with everything they reference.
type Serializer struct {
	sources Sources
	version string
	logger  ectologger.Logger
	now     func() time.Time
}

func NewSerializer(sources Sources, version string, logger ectologger.Logger) *Serializer {
	return &Serializer{
		sources: sources,
		version: version,
		logger:  logger,
		now:     time.Now,
	}
}

// Export builds a bundle of the given recipes of workspaceID. Every reference in
// the result resolves inside the bundle; references to records that no longer
// exist are cleared.
func (s *Serializer) Export(ctx context.Context, workspaceID string, cocktailIDs []string) (*models.ExportBundle, error) {
	ctx, span := tracing.StartSpan(ctx, "Serializer.Export")
	defer span.End()

	requested := newIDSet()
	for _, id := range cocktailIDs {
		requested.add(id)
	}
	if len(requested.ids()) == 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "cocktailIds must not be empty")
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"workspace_id": workspaceID,
		"requested":    len(requested.ids()),
	})

	recipes, err := s.sources.Cocktails.GetByIDs(ctx, workspaceID, requested.ids())
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		log.Warn("none of the requested cocktails exist")
		return nil, httperror.NewHTTPError(http.StatusNotFound, "none of the requested cocktails exist")
	}

	b := &models.ExportBundle{
		ExportVersion:   s.version,
		ExportDate:      s.now().UTC(),
		ExportedFrom:    models.ExportSource{WorkspaceID: workspaceID},
		CocktailRecipes: recipes,
	}

	workspace, err := s.sources.Workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace != nil {
		b.ExportedFrom.WorkspaceName = workspace.Name
	}

	if err := s.loadRecipeChildren(ctx, b); err != nil {
		return nil, err
	}
	if err := s.loadReferences(ctx, workspaceID, b); err != nil {
		return nil, err
	}
	if err := s.loadTranslations(ctx, workspaceID, b); err != nil {
		return nil, err
	}

	normalize(b)

	tracing.SetAttributes(ctx, attribute.Int("mint.export.cocktails", len(b.CocktailRecipes)))
	log.WithFields(map[string]any{
		"cocktails":   len(b.CocktailRecipes),
		"ingredients": len(b.Ingredients),
		"glasses":     len(b.Glasses),
	}).Info("exported bundle")

	return b, nil
}

func (s *Serializer) loadRecipeChildren(ctx context.Context, b *models.ExportBundle) error {
	recipeIDs := ectolinq.Map(b.CocktailRecipes, func(recipe models.CocktailRecipe) string { return recipe.ID })

	var err error
	if b.CocktailRecipeImages, err = s.sources.Cocktails.ListImages(ctx, recipeIDs); err != nil {
		return err
	}
	if b.CocktailRecipeSteps, err = s.sources.Cocktails.ListSteps(ctx, recipeIDs); err != nil {
		return err
	}
	if b.CocktailRecipeGarnishes, err = s.sources.Cocktails.ListGarnishes(ctx, recipeIDs); err != nil {
		return err
	}

	stepIDs := ectolinq.Map(b.CocktailRecipeSteps, func(step models.CocktailRecipeStep) string { return step.ID })
	if b.CocktailRecipeIngredients, err = s.sources.Cocktails.ListStepIngredients(ctx, stepIDs); err != nil {
		return err
	}

	return nil
}

// loadReferences fetches the auxiliary closure and clears references that did not resolve.
func (s *Serializer) loadReferences(ctx context.Context, workspaceID string, b *models.ExportBundle) error {
	glassIDs, iceIDs, actionIDs := newIDSet(), newIDSet(), newIDSet()
	ingredientIDs, unitIDs, garnishIDs := newIDSet(), newIDSet(), newIDSet()

	for _, recipe := range b.CocktailRecipes {
		glassIDs.addRef(recipe.GlassID)
		iceIDs.addRef(recipe.IceID)
	}
	for _, step := range b.CocktailRecipeSteps {
		actionIDs.addRef(step.ActionID)
	}
	for _, line := range b.CocktailRecipeIngredients {
		ingredientIDs.addRef(line.IngredientID)
		unitIDs.addRef(line.UnitID)
	}
	for _, garnish := range b.CocktailRecipeGarnishes {
		garnishIDs.add(garnish.GarnishID)
	}

	var err error
	if b.Glasses, err = s.sources.Glasses.GetByIDs(ctx, workspaceID, glassIDs.ids()); err != nil {
		return fmt.Errorf("failed to load glasses: %w", err)
	}
	if b.Ice, err = s.sources.Ice.GetByIDs(ctx, workspaceID, iceIDs.ids()); err != nil {
		return fmt.Errorf("failed to load ice: %w", err)
	}
	if b.StepActions, err = s.sources.StepActions.GetByIDs(ctx, workspaceID, actionIDs.ids()); err != nil {
		return fmt.Errorf("failed to load step actions: %w", err)
	}
	if b.Garnishes, err = s.sources.Garnishes.GetByIDs(ctx, workspaceID, garnishIDs.ids()); err != nil {
		return fmt.Errorf("failed to load garnishes: %w", err)
	}
	if b.Ingredients, err = s.sources.Ingredients.GetByIDs(ctx, workspaceID, ingredientIDs.ids()); err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}

	found := func(ids []string) *idSet {
		set := newIDSet()
		for _, id := range ids {
			set.add(id)
		}
		return set
	}
	glasses := found(ectolinq.Map(b.Glasses, func(g models.Glass) string { return g.ID }))
	ice := found(ectolinq.Map(b.Ice, func(i models.Ice) string { return i.ID }))
	actions := found(ectolinq.Map(b.StepActions, func(a models.StepAction) string { return a.ID }))
	garnishes := found(ectolinq.Map(b.Garnishes, func(g models.Garnish) string { return g.ID }))
	ingredients := found(ectolinq.Map(b.Ingredients, func(i models.Ingredient) string { return i.ID }))

	if b.GlassImages, err = s.sources.Glasses.ListImages(ctx, glasses.ids()); err != nil {
		return fmt.Errorf("failed to load glass images: %w", err)
	}
	if b.GarnishImages, err = s.sources.Garnishes.ListImages(ctx, garnishes.ids()); err != nil {
		return fmt.Errorf("failed to load garnish images: %w", err)
	}
	if b.IngredientImages, err = s.sources.Ingredients.ListImages(ctx, ingredients.ids()); err != nil {
		return fmt.Errorf("failed to load ingredient images: %w", err)
	}
	if b.IngredientVolumes, err = s.sources.Ingredients.ListVolumes(ctx, ingredients.ids()); err != nil {
		return fmt.Errorf("failed to load ingredient volumes: %w", err)
	}

	// volume conversions are second-order unit references
	for _, volume := range b.IngredientVolumes {
		unitIDs.add(volume.UnitID)
	}
	if b.Units, err = s.sources.Units.GetByIDs(ctx, workspaceID, unitIDs.ids()); err != nil {
		return fmt.Errorf("failed to load units: %w", err)
	}
	units := found(ectolinq.Map(b.Units, func(u models.Unit) string { return u.ID }))

	for i := range b.CocktailRecipes {
		b.CocktailRecipes[i].GlassID = glasses.keep(b.CocktailRecipes[i].GlassID)
		b.CocktailRecipes[i].IceID = ice.keep(b.CocktailRecipes[i].IceID)
	}
	for i := range b.CocktailRecipeSteps {
		b.CocktailRecipeSteps[i].ActionID = actions.keep(b.CocktailRecipeSteps[i].ActionID)
	}
	for i := range b.CocktailRecipeIngredients {
		b.CocktailRecipeIngredients[i].IngredientID = ingredients.keep(b.CocktailRecipeIngredients[i].IngredientID)
		b.CocktailRecipeIngredients[i].UnitID = units.keep(b.CocktailRecipeIngredients[i].UnitID)
	}
	b.CocktailRecipeGarnishes = ectolinq.Filter(b.CocktailRecipeGarnishes, func(g models.CocktailRecipeGarnish) bool {
		return garnishes.has(g.GarnishID)
	})
	b.IngredientVolumes = ectolinq.Filter(b.IngredientVolumes, func(v models.IngredientVolume) bool {
		return units.has(v.UnitID)
	})

	return nil
}

// loadTranslations copies the source labels of the exported translated names.
func (s *Serializer) loadTranslations(ctx context.Context, workspaceID string, b *models.ExportBundle) error {
	all, err := s.sources.Workspaces.GetTranslations(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	if len(all) == 0 {
		return nil
	}

	names := newIDSet()
	for _, unit := range b.Units {
		names.add(unit.Name)
	}
	for _, ice := range b.Ice {
		names.add(ice.Name)
	}
	for _, action := range b.StepActions {
		names.add(action.Name)
	}

	translations := models.Translations{}
	for _, name := range names.ids() {
		for lang, label := range all.Labels(name) {
			translations.Set(lang, name, label)
		}
	}
	if len(translations) > 0 {
		b.Translations = translations
	}

	return nil
}

// normalize replaces nil lists so every kind serializes as an array.
func normalize(b *models.ExportBundle) {
	b.CocktailRecipes = orEmpty(b.CocktailRecipes)
	b.CocktailRecipeImages = orEmpty(b.CocktailRecipeImages)
	b.CocktailRecipeSteps = orEmpty(b.CocktailRecipeSteps)
	b.CocktailRecipeGarnishes = orEmpty(b.CocktailRecipeGarnishes)
	b.CocktailRecipeIngredients = orEmpty(b.CocktailRecipeIngredients)
	b.Glasses = orEmpty(b.Glasses)
	b.GlassImages = orEmpty(b.GlassImages)
	b.Garnishes = orEmpty(b.Garnishes)
	b.GarnishImages = orEmpty(b.GarnishImages)
	b.Ingredients = orEmpty(b.Ingredients)
	b.IngredientImages = orEmpty(b.IngredientImages)
	b.IngredientVolumes = orEmpty(b.IngredientVolumes)
	b.Ice = orEmpty(b.Ice)
	b.Units = orEmpty(b.Units)
	b.StepActions = orEmpty(b.StepActions)
}
