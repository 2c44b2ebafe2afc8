package reconcile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Ramsey-B/mint/pkg/models"
)

// declaredKinds is the tie-break order for kinds with no dependency between them.
var declaredKinds = []models.EntityKind{
	models.KindUnits,
	models.KindIce,
	models.KindStepActions,
	models.KindGlasses,
	models.KindGarnishes,
	models.KindIngredients,
	models.KindCocktails,
}

// references lists, per kind, the kinds its records point at.
var references = map[models.EntityKind][]models.EntityKind{
	// ingredient volumes reference units
	models.KindIngredients: {models.KindUnits},
	models.KindCocktails: {
		models.KindGlasses,
		models.KindIce,
		models.KindStepActions,
		models.KindIngredients,
		models.KindUnits,
		models.KindGarnishes,
	},
}

// ExecutionOrder is the order in which the executor materializes kinds.
var ExecutionOrder = mustOrder(declaredKinds, references)

func mustOrder(kinds []models.EntityKind, refs map[models.EntityKind][]models.EntityKind) []models.EntityKind {
	order, err := DependencyOrder(kinds, refs)
	if err != nil {
		panic(err)
	}
	return order
}

// DependencyOrder sorts kinds so every kind comes after the kinds it references.
// Among ready kinds the one declared first wins, so the result is deterministic.
func DependencyOrder(kinds []models.EntityKind, refs map[models.EntityKind][]models.EntityKind) ([]models.EntityKind, error) {
	index := make(map[models.EntityKind]int, len(kinds))
	for i, kind := range kinds {
		index[kind] = i
	}

	indeg := make([]int, len(kinds))
	out := make([][]int, len(kinds))
	for i, kind := range kinds {
		for _, ref := range refs[kind] {
			d, ok := index[ref]
			if !ok {
				return nil, fmt.Errorf("kind %s references undeclared kind %s", kind, ref)
			}
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int
	for i := range kinds {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]models.EntityKind, 0, len(kinds))
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, kinds[i])

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != len(kinds) {
		return nil, errors.New("cycle detected in entity references")
	}

	return order, nil
}
