package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/mint/pkg/models"
)

// reconciler is implemented once per auxiliary kind.
type reconciler interface {
	propose(ctx context.Context, workspaceID string, bundle *models.ExportBundle) ([]models.ExistingMatch, []models.AuxiliaryEntityMapping, error)
	reconcile(ctx context.Context, r *run) error
}

// auxiliary reconciles one reference-data kind. The function fields are the
// only per-kind behavior; everything else is shared.
type auxiliary[T any] struct {
	kind models.EntityKind
	repo AuxiliaryRepository[T]
	// records selects the kind's list from a bundle
	records  func(bundle *models.ExportBundle) []T
	identify func(record T) (id string, name string)
	// sameKey reports whether two records share the identifying key; nil compares names ignoring case
	sameKey func(a, b T) bool
	assign  func(record *T, id, workspaceID string)
	// children copies the nested records of exportID onto the created newID
	children   func(ctx context.Context, r *run, exportID, newID string) error
	translated bool
}

func (a *auxiliary[T]) matches(x, y T) bool {
	if a.sameKey != nil {
		return a.sameKey(x, y)
	}
	_, xName := a.identify(x)
	_, yName := a.identify(y)
	return strings.EqualFold(xName, yName)
}

func (a *auxiliary[T]) ref(record T) models.EntityRef {
	id, name := a.identify(record)
	return models.EntityRef{ID: id, Name: name}
}

func (a *auxiliary[T]) propose(ctx context.Context, workspaceID string, bundle *models.ExportBundle) ([]models.ExistingMatch, []models.AuxiliaryEntityMapping, error) {
	records := a.records(bundle)
	matches := make([]models.ExistingMatch, 0, len(records))
	mappings := make([]models.AuxiliaryEntityMapping, 0, len(records))
	if len(records) == 0 {
		return matches, mappings, nil
	}

	existing, err := a.repo.List(ctx, workspaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list existing %s: %w", a.kind, err)
	}

	for _, record := range records {
		exportID, name := a.identify(record)

		exact, partial := relatedByName(existing, name, a.identify)
		matches = append(matches, models.ExistingMatch{
			ExportID:   exportID,
			ExportName: name,
			Matches:    ectolinq.Map(append(exact, partial...), a.ref),
		})

		mapping := models.AuxiliaryEntityMapping{
			ExportID: exportID,
			Decision: models.DecisionCreateNew,
		}
		auto := ectolinq.Filter(exact, func(candidate T) bool {
			return a.matches(candidate, record)
		})
		if len(auto) == 1 {
			mapping.Decision = models.DecisionUseExisting
			mapping.ExistingID, _ = a.identify(auto[0])
		}
		mappings = append(mappings, mapping)
	}

	return matches, mappings, nil
}

// relatedByName splits candidates into exact (case-insensitive) name matches and
// names that contain or are contained in name.
func relatedByName[T any](candidates []T, name string, identify func(T) (string, string)) (exact []T, partial []T) {
	target := strings.ToLower(strings.TrimSpace(name))
	exact = []T{}
	partial = []T{}
	if target == "" {
		return exact, partial
	}

	for _, candidate := range candidates {
		_, candidateName := identify(candidate)
		other := strings.ToLower(strings.TrimSpace(candidateName))
		switch {
		case other == "":
		case other == target:
			exact = append(exact, candidate)
		case strings.Contains(other, target) || strings.Contains(target, other):
			partial = append(partial, candidate)
		}
	}

	return exact, partial
}

func (a *auxiliary[T]) reconcile(ctx context.Context, r *run) error {
	records, duplicates := indexRecords(a.records(r.bundle), func(record T) string {
		id, _ := a.identify(record)
		return id
	})

	mappings := r.mappings.Auxiliary(a.kind)
	destination, err := a.destinationIDs(ctx, r, mappings)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, mapping := range mappings {
		record, ok := records[mapping.ExportID]
		if !ok {
			r.fail(ctx, a.kind, mapping.ExportID, mapping.ExportID, fmt.Errorf("%s %s is not part of the bundle", a.kind.EntityType(), mapping.ExportID))
			continue
		}
		_, name := a.identify(record)

		if duplicates[mapping.ExportID] {
			r.fail(ctx, a.kind, mapping.ExportID, name, fmt.Errorf("%s %s appears more than once in the bundle", a.kind.EntityType(), mapping.ExportID))
			continue
		}
		if seen[mapping.ExportID] {
			r.fail(ctx, a.kind, mapping.ExportID, name, fmt.Errorf("%s %s is mapped more than once", a.kind.EntityType(), mapping.ExportID))
			continue
		}
		seen[mapping.ExportID] = true

		switch mapping.Decision {
		case models.DecisionUseExisting:
			if !destination[mapping.ExistingID] {
				r.fail(ctx, a.kind, mapping.ExportID, name, fmt.Errorf("%s %s does not exist in the workspace", a.kind.EntityType(), mapping.ExistingID))
				continue
			}
			r.remap.Set(a.kind, mapping.ExportID, mapping.ExistingID)
			r.result.Reused[a.kind]++
		case models.DecisionCreateNew:
			err := r.item(ctx, a.kind, mapping.ExportID, name, func(ctx context.Context) error {
				return a.create(ctx, r, record, mapping)
			})
			if err != nil {
				return err
			}
		default:
			r.fail(ctx, a.kind, mapping.ExportID, name, fmt.Errorf("unknown decision %q", mapping.Decision))
		}
	}

	return nil
}

// destinationIDs lists the workspace's ids of this kind when any mapping reuses an existing record.
func (a *auxiliary[T]) destinationIDs(ctx context.Context, r *run, mappings []models.AuxiliaryEntityMapping) (map[string]bool, error) {
	ids := map[string]bool{}
	if !ectolinq.Contains(ectolinq.Map(mappings, func(m models.AuxiliaryEntityMapping) models.AuxiliaryDecision { return m.Decision }), models.DecisionUseExisting) {
		return ids, nil
	}

	existing, err := a.repo.List(ctx, r.workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing %s: %w", a.kind, err)
	}
	for _, record := range existing {
		id, _ := a.identify(record)
		ids[id] = true
	}
	return ids, nil
}

// indexRecords keys records by id and reports ids that occur more than once.
func indexRecords[T any](records []T, id func(T) string) (map[string]T, map[string]bool) {
	index := make(map[string]T, len(records))
	duplicates := map[string]bool{}
	for _, record := range records {
		key := id(record)
		if _, ok := index[key]; ok {
			duplicates[key] = true
		}
		index[key] = record
	}
	return index, duplicates
}

func (a *auxiliary[T]) create(ctx context.Context, r *run, record T, mapping models.AuxiliaryEntityMapping) error {
	_, exportName := a.identify(record)

	final, err := applyOverrides(record, mapping.NewEntityData)
	if err != nil {
		return err
	}
	_, name := a.identify(final)
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name must not be empty", a.kind.EntityType())
	}

	// the destination may have gained a record with this key since the mapping was proposed
	existing, err := a.repo.FindByName(ctx, r.workspaceID, name)
	if err != nil {
		return err
	}
	conflict := ectolinq.Filter(existing, func(candidate T) bool {
		return a.matches(candidate, final)
	})
	if len(conflict) > 0 {
		existingID, _ := a.identify(conflict[0])
		if r.strict {
			return fmt.Errorf("%s %q already exists (%s)", a.kind.EntityType(), name, existingID)
		}
		r.fail(ctx, a.kind, mapping.ExportID, name, fmt.Errorf("%s %q already exists, reusing %s", a.kind.EntityType(), name, existingID))
		r.remap.Set(a.kind, mapping.ExportID, existingID)
		r.result.Reused[a.kind]++
		return nil
	}

	a.assign(&final, "", r.workspaceID)
	if err := a.repo.Create(ctx, &final); err != nil {
		return err
	}
	newID, _ := a.identify(final)

	if a.children != nil {
		if err := a.children(ctx, r, mapping.ExportID, newID); err != nil {
			return err
		}
	}

	if a.translated {
		labels, ok := overrideLabels(mapping.NewEntityData)
		if !ok {
			labels = r.bundle.Translations.Labels(exportName)
		}
		for lang, label := range labels {
			r.pending.Set(lang, name, label)
		}
	}

	r.remap.Set(a.kind, mapping.ExportID, newID)
	r.result.Created[a.kind]++
	return nil
}
