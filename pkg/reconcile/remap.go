package reconcile

import "github.com/Ramsey-B/mint/pkg/models"

// RemapTables maps bundle identifiers to destination identifiers, one table per kind.
// A table lives only for the duration of one execute.
type RemapTables map[models.EntityKind]map[string]string

func (t RemapTables) Set(kind models.EntityKind, exportID, destinationID string) {
	if t[kind] == nil {
		t[kind] = map[string]string{}
	}
	t[kind][exportID] = destinationID
}

func (t RemapTables) Lookup(kind models.EntityKind, exportID string) (string, bool) {
	id, ok := t[kind][exportID]
	return id, ok
}

// Resolve maps an optional reference. Unknown or missing references resolve to nil.
func (t RemapTables) Resolve(kind models.EntityKind, exportID *string) *string {
	if exportID == nil {
		return nil
	}
	id, ok := t.Lookup(kind, *exportID)
	if !ok {
		return nil
	}
	return &id
}
