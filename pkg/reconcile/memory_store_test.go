package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/models"
)

// memoryState is the whole fake database. Savepoints snapshot and restore it.
type memoryState struct {
	units             []models.Unit
	ice               []models.Ice
	stepActions       []models.StepAction
	glasses           []models.Glass
	glassImages       []models.GlassImage
	garnishes         []models.Garnish
	garnishImages     []models.GarnishImage
	ingredients       []models.Ingredient
	ingredientImages  []models.IngredientImage
	ingredientVolumes []models.IngredientVolume
	cocktails         []models.CocktailRecipe
	cocktailImages    []models.CocktailRecipeImage
	steps             []models.CocktailRecipeStep
	stepIngredients   []models.CocktailRecipeIngredient
	cocktailGarnishes []models.CocktailRecipeGarnish
	translations      map[string]models.Translations
}

func (s memoryState) clone() memoryState {
	c := memoryState{
		units:             append([]models.Unit(nil), s.units...),
		ice:               append([]models.Ice(nil), s.ice...),
		stepActions:       append([]models.StepAction(nil), s.stepActions...),
		glasses:           append([]models.Glass(nil), s.glasses...),
		glassImages:       append([]models.GlassImage(nil), s.glassImages...),
		garnishes:         append([]models.Garnish(nil), s.garnishes...),
		garnishImages:     append([]models.GarnishImage(nil), s.garnishImages...),
		ingredients:       append([]models.Ingredient(nil), s.ingredients...),
		ingredientImages:  append([]models.IngredientImage(nil), s.ingredientImages...),
		ingredientVolumes: append([]models.IngredientVolume(nil), s.ingredientVolumes...),
		cocktails:         append([]models.CocktailRecipe(nil), s.cocktails...),
		cocktailImages:    append([]models.CocktailRecipeImage(nil), s.cocktailImages...),
		steps:             append([]models.CocktailRecipeStep(nil), s.steps...),
		stepIngredients:   append([]models.CocktailRecipeIngredient(nil), s.stepIngredients...),
		cocktailGarnishes: append([]models.CocktailRecipeGarnish(nil), s.cocktailGarnishes...),
		translations:      map[string]models.Translations{},
	}
	for workspaceID, translations := range s.translations {
		copied := models.Translations{}
		copied.Merge(translations)
		c.translations[workspaceID] = copied
	}
	return c
}

type failureRule struct {
	op    string
	match func(value any) bool
	err   error
}

type memoryStore struct {
	state      memoryState
	inTx       bool
	seq        int
	failures   []failureRule
	commitErr  error
	savepoints int
	merges     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{state: memoryState{translations: map[string]models.Translations{}}}
}

func (s *memoryStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-new-%d", prefix, s.seq)
}

// failWhen makes op return err for values accepted by match.
func (s *memoryStore) failWhen(op string, match func(value any) bool, err error) {
	s.failures = append(s.failures, failureRule{op: op, match: match, err: err})
}

func (s *memoryStore) check(op string, value any) error {
	for _, rule := range s.failures {
		if rule.op == op && (rule.match == nil || rule.match(value)) {
			return rule.err
		}
	}
	return nil
}

func (s *memoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := s.state.clone()
	s.inTx = true
	err := fn(ctx)
	s.inTx = false
	if err != nil {
		s.state = snapshot
		return err
	}
	if s.commitErr != nil {
		s.state = snapshot
		return fmt.Errorf("%w: %v", database.ErrTransaction, s.commitErr)
	}
	return nil
}

func (s *memoryStore) WithSavepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if !s.inTx {
		return fmt.Errorf("%w: savepoint %s requires an open transaction", database.ErrTransaction, name)
	}
	s.savepoints++
	snapshot := s.state.clone()
	if err := fn(ctx); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *memoryStore) repositories() Repositories {
	return Repositories{
		Units: &memoryTable[models.Unit]{store: s, op: "units", rows: func(st *memoryState) *[]models.Unit { return &st.units },
			fields: func(u *models.Unit) (*string, string, string) { return &u.ID, u.WorkspaceID, u.Name }},
		Ice: &memoryTable[models.Ice]{store: s, op: "ice", rows: func(st *memoryState) *[]models.Ice { return &st.ice },
			fields: func(i *models.Ice) (*string, string, string) { return &i.ID, i.WorkspaceID, i.Name }},
		StepActions: &memoryTable[models.StepAction]{store: s, op: "stepActions", rows: func(st *memoryState) *[]models.StepAction { return &st.stepActions },
			fields: func(a *models.StepAction) (*string, string, string) { return &a.ID, a.WorkspaceID, a.Name }},
		Glasses: &memoryGlasses{memoryTable[models.Glass]{store: s, op: "glasses", rows: func(st *memoryState) *[]models.Glass { return &st.glasses },
			fields: func(g *models.Glass) (*string, string, string) { return &g.ID, g.WorkspaceID, g.Name }}},
		Garnishes: &memoryGarnishes{memoryTable[models.Garnish]{store: s, op: "garnishes", rows: func(st *memoryState) *[]models.Garnish { return &st.garnishes },
			fields: func(g *models.Garnish) (*string, string, string) { return &g.ID, g.WorkspaceID, g.Name }}},
		Ingredients: &memoryIngredients{memoryTable[models.Ingredient]{store: s, op: "ingredients", rows: func(st *memoryState) *[]models.Ingredient { return &st.ingredients },
			fields: func(i *models.Ingredient) (*string, string, string) { return &i.ID, i.WorkspaceID, i.Name }}},
		Cocktails:    &memoryCocktails{store: s},
		Translations: &memoryTranslations{store: s},
	}
}

type memoryTable[T any] struct {
	store  *memoryStore
	op     string
	rows   func(*memoryState) *[]T
	fields func(*T) (id *string, workspaceID string, name string)
}

func (t *memoryTable[T]) List(ctx context.Context, workspaceID string) ([]T, error) {
	if err := t.store.check(t.op+".List", workspaceID); err != nil {
		return nil, err
	}
	var out []T
	for _, row := range *t.rows(&t.store.state) {
		if _, ws, _ := t.fields(&row); ws == workspaceID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *memoryTable[T]) FindByName(ctx context.Context, workspaceID string, name string) ([]T, error) {
	rows, err := t.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	var out []T
	for _, row := range rows {
		if _, _, rowName := t.fields(&row); strings.EqualFold(rowName, name) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *memoryTable[T]) Create(ctx context.Context, record *T) error {
	if err := t.store.check(t.op+".Create", *record); err != nil {
		return err
	}
	id, _, _ := t.fields(record)
	if *id == "" {
		*id = t.store.nextID(t.op)
	}
	rows := t.rows(&t.store.state)
	*rows = append(*rows, *record)
	return nil
}

func (t *memoryTable[T]) byWorkspace(workspaceID string) []T {
	rows, _ := t.List(context.Background(), workspaceID)
	return rows
}

type memoryGlasses struct {
	memoryTable[models.Glass]
}

func (g *memoryGlasses) CreateImage(ctx context.Context, image *models.GlassImage) error {
	if err := g.store.check("glasses.CreateImage", *image); err != nil {
		return err
	}
	g.store.state.glassImages = append(g.store.state.glassImages, *image)
	return nil
}

type memoryGarnishes struct {
	memoryTable[models.Garnish]
}

func (g *memoryGarnishes) CreateImage(ctx context.Context, image *models.GarnishImage) error {
	g.store.state.garnishImages = append(g.store.state.garnishImages, *image)
	return nil
}

type memoryIngredients struct {
	memoryTable[models.Ingredient]
}

func (i *memoryIngredients) CreateImage(ctx context.Context, image *models.IngredientImage) error {
	i.store.state.ingredientImages = append(i.store.state.ingredientImages, *image)
	return nil
}

func (i *memoryIngredients) CreateVolume(ctx context.Context, volume *models.IngredientVolume) error {
	if err := i.store.check("ingredients.CreateVolume", *volume); err != nil {
		return err
	}
	if volume.ID == "" {
		volume.ID = i.store.nextID("volume")
	}
	i.store.state.ingredientVolumes = append(i.store.state.ingredientVolumes, *volume)
	return nil
}

type memoryCocktails struct {
	store *memoryStore
}

func (c *memoryCocktails) GetByID(ctx context.Context, workspaceID string, id string) (*models.CocktailRecipe, error) {
	for _, recipe := range c.store.state.cocktails {
		if recipe.ID == id && recipe.WorkspaceID == workspaceID {
			found := recipe
			return &found, nil
		}
	}
	return nil, nil
}

func (c *memoryCocktails) FindByNames(ctx context.Context, workspaceID string, names []string) ([]models.CocktailRecipe, error) {
	var out []models.CocktailRecipe
	for _, recipe := range c.store.state.cocktails {
		if recipe.WorkspaceID != workspaceID {
			continue
		}
		for _, name := range names {
			if strings.EqualFold(recipe.Name, name) {
				out = append(out, recipe)
				break
			}
		}
	}
	return out, nil
}

func (c *memoryCocktails) Create(ctx context.Context, recipe *models.CocktailRecipe) error {
	if err := c.store.check("cocktails.Create", *recipe); err != nil {
		return err
	}
	if recipe.ID == "" {
		recipe.ID = c.store.nextID("cocktail")
	}
	for _, existing := range c.store.state.cocktails {
		if existing.ID == recipe.ID {
			return fmt.Errorf("duplicate key value violates unique constraint cocktail_recipes_pkey")
		}
	}
	c.store.state.cocktails = append(c.store.state.cocktails, *recipe)
	return nil
}

func (c *memoryCocktails) Delete(ctx context.Context, workspaceID string, id string) error {
	st := &c.store.state
	stepIDs := map[string]bool{}
	steps := st.steps[:0:0]
	for _, step := range st.steps {
		if step.CocktailRecipeID == id {
			stepIDs[step.ID] = true
			continue
		}
		steps = append(steps, step)
	}
	st.steps = steps

	lines := st.stepIngredients[:0:0]
	for _, line := range st.stepIngredients {
		if !stepIDs[line.CocktailRecipeStepID] {
			lines = append(lines, line)
		}
	}
	st.stepIngredients = lines

	garnishes := st.cocktailGarnishes[:0:0]
	for _, garnish := range st.cocktailGarnishes {
		if garnish.CocktailRecipeID != id {
			garnishes = append(garnishes, garnish)
		}
	}
	st.cocktailGarnishes = garnishes

	images := st.cocktailImages[:0:0]
	for _, image := range st.cocktailImages {
		if image.CocktailRecipeID != id {
			images = append(images, image)
		}
	}
	st.cocktailImages = images

	recipes := st.cocktails[:0:0]
	for _, recipe := range st.cocktails {
		if !(recipe.ID == id && recipe.WorkspaceID == workspaceID) {
			recipes = append(recipes, recipe)
		}
	}
	st.cocktails = recipes
	return nil
}

func (c *memoryCocktails) CreateImage(ctx context.Context, image *models.CocktailRecipeImage) error {
	c.store.state.cocktailImages = append(c.store.state.cocktailImages, *image)
	return nil
}

func (c *memoryCocktails) CreateStep(ctx context.Context, step *models.CocktailRecipeStep) error {
	if err := c.store.check("cocktails.CreateStep", *step); err != nil {
		return err
	}
	if step.ID == "" {
		step.ID = c.store.nextID("step")
	}
	c.store.state.steps = append(c.store.state.steps, *step)
	return nil
}

func (c *memoryCocktails) CreateStepIngredient(ctx context.Context, line *models.CocktailRecipeIngredient) error {
	if line.ID == "" {
		line.ID = c.store.nextID("line")
	}
	c.store.state.stepIngredients = append(c.store.state.stepIngredients, *line)
	return nil
}

func (c *memoryCocktails) CreateGarnish(ctx context.Context, garnish *models.CocktailRecipeGarnish) error {
	c.store.state.cocktailGarnishes = append(c.store.state.cocktailGarnishes, *garnish)
	return nil
}

func (c *memoryCocktails) stepsOf(recipeID string) []models.CocktailRecipeStep {
	var out []models.CocktailRecipeStep
	for _, step := range c.store.state.steps {
		if step.CocktailRecipeID == recipeID {
			out = append(out, step)
		}
	}
	return out
}

type memoryTranslations struct {
	store *memoryStore
}

func (m *memoryTranslations) MergeTranslations(ctx context.Context, workspaceID string, pending models.Translations) error {
	if len(pending) == 0 {
		return nil
	}
	if err := m.store.check("translations.Merge", pending); err != nil {
		return err
	}
	m.store.merges++
	current, ok := m.store.state.translations[workspaceID]
	if !ok {
		current = models.Translations{}
		m.store.state.translations[workspaceID] = current
	}
	current.Merge(pending)
	return nil
}
