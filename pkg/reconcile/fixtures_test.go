package reconcile

import (
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/models"
)

func ptr[T any](v T) *T {
	return &v
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestExecutor(store *memoryStore, opts ...ExecutorOption) *Executor {
	return NewExecutor(store, store.repositories(), testLogger(), opts...)
}

// scenarioBundle is one recipe in a highball with a single stir step measured in CL.
func scenarioBundle() *models.ExportBundle {
	return &models.ExportBundle{
		ExportVersion: "1.0",
		ExportedFrom:  models.ExportSource{WorkspaceID: "ws-src", WorkspaceName: "Source Bar"},
		Units:         []models.Unit{{ID: "u1", Name: "CL"}},
		Glasses:       []models.Glass{{ID: "g1", Name: "Highball"}},
		StepActions:   []models.StepAction{{ID: "a1", Name: "STIR", ActionGroup: "MIX"}},
		CocktailRecipes: []models.CocktailRecipe{
			{ID: "r1", Name: "Mojito", GlassID: ptr("g1")},
		},
		CocktailRecipeSteps: []models.CocktailRecipeStep{
			{ID: "s1", CocktailRecipeID: "r1", StepNumber: 1, ActionID: ptr("a1")},
		},
		CocktailRecipeIngredients: []models.CocktailRecipeIngredient{
			{ID: "l1", CocktailRecipeStepID: "s1", UnitID: ptr("u1"), Amount: ptr(5.0), IngredientNumber: 1},
		},
	}
}

// mojitoBundle extends scenarioBundle with every auxiliary kind and nested record.
func mojitoBundle() *models.ExportBundle {
	b := scenarioBundle()
	b.Ice = []models.Ice{{ID: "c1", Name: "Crushed"}}
	b.Garnishes = []models.Garnish{{ID: "gr1", Name: "Mint Sprig"}}
	b.GarnishImages = []models.GarnishImage{{GarnishID: "gr1", Image: "data:image/png;base64,bWludA=="}}
	b.Ingredients = []models.Ingredient{{ID: "i1", Name: "White Rum"}}
	b.IngredientImages = []models.IngredientImage{{IngredientID: "i1", Image: "data:image/png;base64,cnVt"}}
	b.IngredientVolumes = []models.IngredientVolume{{ID: "v1", IngredientID: "i1", UnitID: "u1", Volume: 70}}
	b.GlassImages = []models.GlassImage{{GlassID: "g1", Image: "data:image/png;base64,Z2xhc3M="}}
	b.CocktailRecipes[0].IceID = ptr("c1")
	b.CocktailRecipeImages = []models.CocktailRecipeImage{{CocktailRecipeID: "r1", Image: "data:image/png;base64,bW9qaXRv"}}
	b.CocktailRecipeGarnishes = []models.CocktailRecipeGarnish{{CocktailRecipeID: "r1", GarnishID: "gr1", GarnishNumber: 1}}
	b.CocktailRecipeIngredients[0].IngredientID = ptr("i1")
	return b
}

// createAll decides create-new for every auxiliary entity and import for every recipe.
func createAll(b *models.ExportBundle) *models.ImportMappings {
	create := func(id string) models.AuxiliaryEntityMapping {
		return models.AuxiliaryEntityMapping{ExportID: id, Decision: models.DecisionCreateNew}
	}
	return &models.ImportMappings{
		Units:       ectolinq.Map(b.Units, func(u models.Unit) models.AuxiliaryEntityMapping { return create(u.ID) }),
		Ice:         ectolinq.Map(b.Ice, func(i models.Ice) models.AuxiliaryEntityMapping { return create(i.ID) }),
		StepActions: ectolinq.Map(b.StepActions, func(a models.StepAction) models.AuxiliaryEntityMapping { return create(a.ID) }),
		Glasses:     ectolinq.Map(b.Glasses, func(g models.Glass) models.AuxiliaryEntityMapping { return create(g.ID) }),
		Garnishes:   ectolinq.Map(b.Garnishes, func(g models.Garnish) models.AuxiliaryEntityMapping { return create(g.ID) }),
		Ingredients: ectolinq.Map(b.Ingredients, func(i models.Ingredient) models.AuxiliaryEntityMapping { return create(i.ID) }),
		Cocktails: ectolinq.Map(b.CocktailRecipes, func(r models.CocktailRecipe) models.PrimaryEntityMapping {
			return models.PrimaryEntityMapping{ExportID: r.ID, Decision: models.DecisionImport}
		}),
	}
}

func mappingsFromProposal(p *models.MappingProposal) *models.ImportMappings {
	m := &models.ImportMappings{Cocktails: p.CocktailMappings}
	for _, kind := range models.AuxiliaryKinds {
		m.SetAuxiliary(kind, p.AutoMappings[kind])
	}
	return m
}

// seedBundle stores the bundle's records in workspaceID under their bundle ids.
func seedBundle(s *memoryStore, workspaceID string, b *models.ExportBundle) {
	for _, u := range b.Units {
		u.WorkspaceID = workspaceID
		s.state.units = append(s.state.units, u)
	}
	for _, i := range b.Ice {
		i.WorkspaceID = workspaceID
		s.state.ice = append(s.state.ice, i)
	}
	for _, a := range b.StepActions {
		a.WorkspaceID = workspaceID
		s.state.stepActions = append(s.state.stepActions, a)
	}
	for _, g := range b.Glasses {
		g.WorkspaceID = workspaceID
		s.state.glasses = append(s.state.glasses, g)
	}
	for _, g := range b.Garnishes {
		g.WorkspaceID = workspaceID
		s.state.garnishes = append(s.state.garnishes, g)
	}
	for _, i := range b.Ingredients {
		i.WorkspaceID = workspaceID
		s.state.ingredients = append(s.state.ingredients, i)
	}
	for _, r := range b.CocktailRecipes {
		r.WorkspaceID = workspaceID
		s.state.cocktails = append(s.state.cocktails, r)
	}
	s.state.glassImages = append(s.state.glassImages, b.GlassImages...)
	s.state.garnishImages = append(s.state.garnishImages, b.GarnishImages...)
	s.state.ingredientImages = append(s.state.ingredientImages, b.IngredientImages...)
	s.state.ingredientVolumes = append(s.state.ingredientVolumes, b.IngredientVolumes...)
	s.state.cocktailImages = append(s.state.cocktailImages, b.CocktailRecipeImages...)
	s.state.steps = append(s.state.steps, b.CocktailRecipeSteps...)
	s.state.stepIngredients = append(s.state.stepIngredients, b.CocktailRecipeIngredients...)
	s.state.cocktailGarnishes = append(s.state.cocktailGarnishes, b.CocktailRecipeGarnishes...)
}
