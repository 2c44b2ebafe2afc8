package reconcile

import (
	"context"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/mint/pkg/models"
)

func newReconcilers(repos Repositories) map[models.EntityKind]reconciler {
	return map[models.EntityKind]reconciler{
		models.KindUnits: &auxiliary[models.Unit]{
			kind:     models.KindUnits,
			repo:     repos.Units,
			records:  func(b *models.ExportBundle) []models.Unit { return b.Units },
			identify: func(u models.Unit) (string, string) { return u.ID, u.Name },
			assign: func(u *models.Unit, id, workspaceID string) {
				u.ID, u.WorkspaceID = id, workspaceID
			},
			translated: true,
		},
		models.KindIce: &auxiliary[models.Ice]{
			kind:     models.KindIce,
			repo:     repos.Ice,
			records:  func(b *models.ExportBundle) []models.Ice { return b.Ice },
			identify: func(i models.Ice) (string, string) { return i.ID, i.Name },
			assign: func(i *models.Ice, id, workspaceID string) {
				i.ID, i.WorkspaceID = id, workspaceID
			},
			translated: true,
		},
		models.KindStepActions: &auxiliary[models.StepAction]{
			kind:     models.KindStepActions,
			repo:     repos.StepActions,
			records:  func(b *models.ExportBundle) []models.StepAction { return b.StepActions },
			identify: func(a models.StepAction) (string, string) { return a.ID, a.Name },
			// a name is only unique within its action group
			sameKey: func(a, b models.StepAction) bool {
				return strings.EqualFold(a.Name, b.Name) && a.ActionGroup == b.ActionGroup
			},
			assign: func(a *models.StepAction, id, workspaceID string) {
				a.ID, a.WorkspaceID = id, workspaceID
			},
			translated: true,
		},
		models.KindGlasses: &auxiliary[models.Glass]{
			kind:     models.KindGlasses,
			repo:     repos.Glasses,
			records:  func(b *models.ExportBundle) []models.Glass { return b.Glasses },
			identify: func(g models.Glass) (string, string) { return g.ID, g.Name },
			assign: func(g *models.Glass, id, workspaceID string) {
				g.ID, g.WorkspaceID = id, workspaceID
			},
			children: func(ctx context.Context, r *run, exportID, newID string) error {
				images := ectolinq.Filter(r.bundle.GlassImages, func(image models.GlassImage) bool {
					return image.GlassID == exportID
				})
				for _, image := range images {
					if err := repos.Glasses.CreateImage(ctx, &models.GlassImage{GlassID: newID, Image: image.Image}); err != nil {
						return err
					}
				}
				return nil
			},
		},
		models.KindGarnishes: &auxiliary[models.Garnish]{
			kind:     models.KindGarnishes,
			repo:     repos.Garnishes,
			records:  func(b *models.ExportBundle) []models.Garnish { return b.Garnishes },
			identify: func(g models.Garnish) (string, string) { return g.ID, g.Name },
			assign: func(g *models.Garnish, id, workspaceID string) {
				g.ID, g.WorkspaceID = id, workspaceID
			},
			children: func(ctx context.Context, r *run, exportID, newID string) error {
				images := ectolinq.Filter(r.bundle.GarnishImages, func(image models.GarnishImage) bool {
					return image.GarnishID == exportID
				})
				for _, image := range images {
					if err := repos.Garnishes.CreateImage(ctx, &models.GarnishImage{GarnishID: newID, Image: image.Image}); err != nil {
						return err
					}
				}
				return nil
			},
		},
		models.KindIngredients: &auxiliary[models.Ingredient]{
			kind:     models.KindIngredients,
			repo:     repos.Ingredients,
			records:  func(b *models.ExportBundle) []models.Ingredient { return b.Ingredients },
			identify: func(i models.Ingredient) (string, string) { return i.ID, i.Name },
			assign: func(i *models.Ingredient, id, workspaceID string) {
				i.ID, i.WorkspaceID = id, workspaceID
			},
			children: func(ctx context.Context, r *run, exportID, newID string) error {
				return copyIngredientChildren(ctx, r, repos.Ingredients, exportID, newID)
			},
		},
	}
}

func copyIngredientChildren(ctx context.Context, r *run, repo IngredientRepository, exportID, newID string) error {
	images := ectolinq.Filter(r.bundle.IngredientImages, func(image models.IngredientImage) bool {
		return image.IngredientID == exportID
	})
	for _, image := range images {
		if err := repo.CreateImage(ctx, &models.IngredientImage{IngredientID: newID, Image: image.Image}); err != nil {
			return err
		}
	}

	volumes := ectolinq.Filter(r.bundle.IngredientVolumes, func(volume models.IngredientVolume) bool {
		return volume.IngredientID == exportID
	})
	for _, volume := range volumes {
		unitID, ok := r.remap.Lookup(models.KindUnits, volume.UnitID)
		if !ok {
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"ingredient_id": exportID,
				"unit_id":       volume.UnitID,
			}).Debug("dropping ingredient volume with unresolved unit")
			continue
		}

		if err := repo.CreateVolume(ctx, &models.IngredientVolume{
			WorkspaceID:  r.workspaceID,
			IngredientID: newID,
			UnitID:       unitID,
			Volume:       volume.Volume,
		}); err != nil {
			return err
		}
	}

	return nil
}
