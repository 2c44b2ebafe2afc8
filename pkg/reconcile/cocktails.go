package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/mint/pkg/models"
)

func (e *Executor) reconcileCocktails(ctx context.Context, r *run) error {
	recipes, duplicates := indexRecords(r.bundle.CocktailRecipes, func(recipe models.CocktailRecipe) string { return recipe.ID })

	seen := map[string]bool{}
	for _, mapping := range r.mappings.Cocktails {
		recipe, ok := recipes[mapping.ExportID]
		if !ok {
			r.fail(ctx, models.KindCocktails, mapping.ExportID, mapping.ExportID, fmt.Errorf("cocktail %s is not part of the bundle", mapping.ExportID))
			continue
		}
		if duplicates[mapping.ExportID] {
			r.fail(ctx, models.KindCocktails, mapping.ExportID, recipe.Name, fmt.Errorf("cocktail %s appears more than once in the bundle", mapping.ExportID))
			continue
		}
		if seen[mapping.ExportID] {
			r.fail(ctx, models.KindCocktails, mapping.ExportID, recipe.Name, fmt.Errorf("cocktail %s is mapped more than once", mapping.ExportID))
			continue
		}
		seen[mapping.ExportID] = true

		name := recipe.Name
		switch mapping.Decision {
		case models.DecisionSkip:
			r.result.Skipped++
			continue
		case models.DecisionRename:
			name = strings.TrimSpace(mapping.NewName)
			if name == "" {
				r.fail(ctx, models.KindCocktails, mapping.ExportID, recipe.Name, fmt.Errorf("new name for cocktail %s must not be blank", mapping.ExportID))
				continue
			}
		case models.DecisionImport, models.DecisionOverwrite:
		default:
			r.fail(ctx, models.KindCocktails, mapping.ExportID, recipe.Name, fmt.Errorf("unknown decision %q", mapping.Decision))
			continue
		}

		err := r.item(ctx, models.KindCocktails, mapping.ExportID, name, func(ctx context.Context) error {
			return e.materializeCocktail(ctx, r, recipe, mapping, name)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// materializeCocktail writes one recipe and its nested records with remapped references.
func (e *Executor) materializeCocktail(ctx context.Context, r *run, recipe models.CocktailRecipe, mapping models.PrimaryEntityMapping, name string) error {
	repo := e.repos.Cocktails

	id := ""
	if mapping.Decision == models.DecisionOverwrite {
		target, err := repo.GetByID(ctx, r.workspaceID, mapping.OverwriteID)
		if err != nil {
			return err
		}
		if target == nil {
			return fmt.Errorf("cocktail %s to overwrite does not exist", mapping.OverwriteID)
		}
		if err := repo.Delete(ctx, r.workspaceID, target.ID); err != nil {
			return err
		}
		id = target.ID
	}

	created := recipe
	created.ID = id
	created.WorkspaceID = r.workspaceID
	created.Name = name
	created.GlassID = r.remap.Resolve(models.KindGlasses, recipe.GlassID)
	created.IceID = r.remap.Resolve(models.KindIce, recipe.IceID)
	if err := repo.Create(ctx, &created); err != nil {
		return err
	}

	images := ectolinq.Filter(r.bundle.CocktailRecipeImages, func(image models.CocktailRecipeImage) bool {
		return image.CocktailRecipeID == recipe.ID
	})
	for _, image := range images {
		if err := repo.CreateImage(ctx, &models.CocktailRecipeImage{CocktailRecipeID: created.ID, Image: image.Image}); err != nil {
			return err
		}
	}

	if err := e.materializeSteps(ctx, r, recipe.ID, created.ID); err != nil {
		return err
	}

	garnishes := ectolinq.Filter(r.bundle.CocktailRecipeGarnishes, func(garnish models.CocktailRecipeGarnish) bool {
		return garnish.CocktailRecipeID == recipe.ID
	})
	sort.SliceStable(garnishes, func(i, j int) bool { return garnishes[i].GarnishNumber < garnishes[j].GarnishNumber })
	for _, garnish := range garnishes {
		garnishID, ok := r.remap.Lookup(models.KindGarnishes, garnish.GarnishID)
		if !ok {
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"cocktail":   name,
				"garnish_id": garnish.GarnishID,
			}).Debug("dropping garnish with unresolved reference")
			continue
		}

		garnish.CocktailRecipeID = created.ID
		garnish.GarnishID = garnishID
		if err := repo.CreateGarnish(ctx, &garnish); err != nil {
			return err
		}
	}

	r.result.Imported.Cocktails++
	return nil
}

func (e *Executor) materializeSteps(ctx context.Context, r *run, exportRecipeID, recipeID string) error {
	repo := e.repos.Cocktails

	steps := ectolinq.Filter(r.bundle.CocktailRecipeSteps, func(step models.CocktailRecipeStep) bool {
		return step.CocktailRecipeID == exportRecipeID
	})
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].StepNumber < steps[j].StepNumber })

	for _, step := range steps {
		actionID := r.remap.Resolve(models.KindStepActions, step.ActionID)
		if actionID == nil {
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"cocktail_id": exportRecipeID,
				"step_id":     step.ID,
			}).Debug("dropping step with unresolved action")
			continue
		}

		created := models.CocktailRecipeStep{
			CocktailRecipeID: recipeID,
			StepNumber:       step.StepNumber,
			Optional:         step.Optional,
			ActionID:         actionID,
		}
		if err := repo.CreateStep(ctx, &created); err != nil {
			return err
		}

		lines := ectolinq.Filter(r.bundle.CocktailRecipeIngredients, func(line models.CocktailRecipeIngredient) bool {
			return line.CocktailRecipeStepID == step.ID
		})
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].IngredientNumber < lines[j].IngredientNumber })

		for _, line := range lines {
			if err := repo.CreateStepIngredient(ctx, &models.CocktailRecipeIngredient{
				CocktailRecipeStepID: created.ID,
				IngredientID:         r.remap.Resolve(models.KindIngredients, line.IngredientID),
				UnitID:               r.remap.Resolve(models.KindUnits, line.UnitID),
				Amount:               line.Amount,
				IngredientNumber:     line.IngredientNumber,
				Optional:             line.Optional,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
