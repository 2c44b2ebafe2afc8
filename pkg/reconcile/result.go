package reconcile

import "github.com/Ramsey-B/mint/pkg/models"

type ImportedCounts struct {
	Cocktails int `json:"cocktails"`
}

// Result is the outcome of a committed execute.
type Result struct {
	Success  bool                      `json:"success"`
	Imported ImportedCounts            `json:"imported"`
	Created  map[models.EntityKind]int `json:"created"`
	Reused   map[models.EntityKind]int `json:"reused"`
	Skipped  int                       `json:"skipped"`
	Errors   []ItemError               `json:"errors,omitempty"`
}

func newResult() *Result {
	return &Result{
		Created: map[models.EntityKind]int{},
		Reused:  map[models.EntityKind]int{},
	}
}
