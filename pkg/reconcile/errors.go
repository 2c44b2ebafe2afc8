package reconcile

import (
	"fmt"
)

// ItemError records one entity that could not be reconciled.
type ItemError struct {
	Step       string `json:"step"`
	EntityType string `json:"entityType"`
	EntityName string `json:"entityName"`
	Error      string `json:"error"`
}

// TransactionError reports a failure of the import transaction itself. Nothing was committed;
// Errors carries the item errors collected before the failure.
type TransactionError struct {
	Err    error
	Errors []ItemError
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("import transaction failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
