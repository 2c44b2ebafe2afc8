package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/models"
)

// run carries the state of one execute. It never outlives the transaction.
type run struct {
	workspaceID string
	bundle      *models.ExportBundle
	mappings    *models.ImportMappings
	remap       RemapTables
	result      *Result
	pending     models.Translations
	strict      bool

	transactor Transactor
	logger     ectologger.Logger
	savepoints int
}

func newRun(workspaceID string, bundle *models.ExportBundle, mappings *models.ImportMappings, transactor Transactor, logger ectologger.Logger, strict bool) *run {
	return &run{
		workspaceID: workspaceID,
		bundle:      bundle,
		mappings:    mappings,
		remap:       RemapTables{},
		result:      newResult(),
		pending:     models.Translations{},
		strict:      strict,
		transactor:  transactor,
		logger:      logger,
	}
}

// item runs fn in its own savepoint. A failing fn is recorded and swallowed;
// only failures of the transaction itself are returned.
func (r *run) item(ctx context.Context, kind models.EntityKind, exportID, name string, fn func(ctx context.Context) error) error {
	r.savepoints++
	savepoint := fmt.Sprintf("mint_item_%d", r.savepoints)

	err := r.transactor.WithSavepoint(ctx, savepoint, fn)
	if err == nil {
		return nil
	}
	if errors.Is(err, database.ErrTransaction) {
		return err
	}

	r.fail(ctx, kind, exportID, name, err)
	return nil
}

func (r *run) fail(ctx context.Context, kind models.EntityKind, exportID, name string, err error) {
	r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
		"kind":      kind,
		"export_id": exportID,
		"name":      name,
	}).Warn("failed to reconcile entity")

	r.result.Errors = append(r.result.Errors, ItemError{
		Step:       string(kind),
		EntityType: kind.EntityType(),
		EntityName: name,
		Error:      err.Error(),
	})
}
