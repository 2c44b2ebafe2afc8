package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
)

// Proposer computes default decisions for a bundle against a workspace. It never writes.
type Proposer struct {
	repos       Repositories
	reconcilers map[models.EntityKind]reconciler
	logger      ectologger.Logger
}

func NewProposer(repos Repositories, logger ectologger.Logger) *Proposer {
	return &Proposer{
		repos:       repos,
		reconcilers: newReconcilers(repos),
		logger:      logger,
	}
}

func (p *Proposer) Propose(ctx context.Context, workspaceID string, bundle *models.ExportBundle) (*models.MappingProposal, error) {
	ctx, span := tracing.StartSpan(ctx, "Proposer.Propose")
	defer span.End()

	proposal := &models.MappingProposal{
		ExistingMatches: make(map[models.EntityKind][]models.ExistingMatch, len(models.AuxiliaryKinds)),
		AutoMappings:    make(map[models.EntityKind][]models.AuxiliaryEntityMapping, len(models.AuxiliaryKinds)),
	}

	for _, kind := range models.AuxiliaryKinds {
		matches, mappings, err := p.reconcilers[kind].propose(ctx, workspaceID, bundle)
		if err != nil {
			p.logger.WithContext(ctx).WithError(err).WithField("kind", kind).Error("failed to propose mappings")
			return nil, err
		}
		proposal.ExistingMatches[kind] = matches
		proposal.AutoMappings[kind] = mappings
	}

	conflicts, cocktailMappings, err := p.proposeCocktails(ctx, workspaceID, bundle)
	if err != nil {
		return nil, err
	}
	proposal.CocktailConflicts = conflicts
	proposal.CocktailMappings = cocktailMappings

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"workspace_id": workspaceID,
		"cocktails":    len(bundle.CocktailRecipes),
		"conflicts":    len(conflicts),
	}).Info("proposed bundle mappings")

	return proposal, nil
}

// proposeCocktails reports every destination recipe with the same name. Any
// conflict defaults the recipe to skip so rename or overwrite stays a human choice.
func (p *Proposer) proposeCocktails(ctx context.Context, workspaceID string, bundle *models.ExportBundle) ([]models.CocktailConflict, []models.PrimaryEntityMapping, error) {
	conflicts := []models.CocktailConflict{}
	mappings := make([]models.PrimaryEntityMapping, 0, len(bundle.CocktailRecipes))
	if len(bundle.CocktailRecipes) == 0 {
		return conflicts, mappings, nil
	}

	names := ectolinq.Map(bundle.CocktailRecipes, func(recipe models.CocktailRecipe) string {
		return recipe.Name
	})
	existing, err := p.repos.Cocktails.FindByNames(ctx, workspaceID, names)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find existing cocktails: %w", err)
	}

	for _, recipe := range bundle.CocktailRecipes {
		same := ectolinq.Filter(existing, func(candidate models.CocktailRecipe) bool {
			return strings.EqualFold(candidate.Name, recipe.Name)
		})

		mapping := models.PrimaryEntityMapping{ExportID: recipe.ID, Decision: models.DecisionImport}
		if len(same) > 0 {
			mapping.Decision = models.DecisionSkip
			conflicts = append(conflicts, models.CocktailConflict{
				ExportID:   recipe.ID,
				ExportName: recipe.Name,
				Conflicts: ectolinq.Map(same, func(candidate models.CocktailRecipe) models.EntityRef {
					return models.EntityRef{ID: candidate.ID, Name: candidate.Name}
				}),
			})
		}
		mappings = append(mappings, mapping)
	}

	return conflicts, mappings, nil
}
