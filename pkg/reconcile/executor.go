package reconcile

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

type ExecutorOption func(*Executor)

// WithStrictConflicts makes a create-new decision that collides with an existing
// record an item error instead of reusing the existing record.
func WithStrictConflicts(strict bool) ExecutorOption {
	return func(e *Executor) {
		e.strictConflicts = strict
	}
}

// Executor applies an approved decision set to a workspace inside one transaction.
type Executor struct {
	transactor      Transactor
	repos           Repositories
	reconcilers     map[models.EntityKind]reconciler
	logger          ectologger.Logger
	strictConflicts bool
}

func NewExecutor(transactor Transactor, repos Repositories, logger ectologger.Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{
		transactor:  transactor,
		repos:       repos,
		reconcilers: newReconcilers(repos),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute imports bundle into workspaceID. Item failures are collected in the
// result and the transaction still commits; a failure of the transaction itself
// returns a *TransactionError and nothing is committed.
func (e *Executor) Execute(ctx context.Context, workspaceID string, bundle *models.ExportBundle, mappings *models.ImportMappings) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "Executor.Execute")
	defer span.End()

	if err := ValidateMappings(mappings); err != nil {
		return nil, err
	}

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"workspace_id":        workspaceID,
		"source_workspace_id": bundle.ExportedFrom.WorkspaceID,
		"cocktails":           len(mappings.Cocktails),
	})
	log.Info("starting bundle import")

	r := newRun(workspaceID, bundle, mappings, e.transactor, e.logger, e.strictConflicts)

	err := e.transactor.WithTx(ctx, func(ctx context.Context) error {
		for _, kind := range ExecutionOrder {
			if kind == models.KindCocktails {
				if err := e.reconcileCocktails(ctx, r); err != nil {
					return err
				}
				continue
			}
			if err := e.reconcilers[kind].reconcile(ctx, r); err != nil {
				return err
			}
		}

		return e.repos.Translations.MergeTranslations(ctx, workspaceID, r.pending)
	})
	if err != nil {
		log.WithError(err).WithField("item_errors", len(r.result.Errors)).Error("bundle import transaction failed")
		return nil, &TransactionError{Err: err, Errors: r.result.Errors}
	}

	r.result.Success = true

	tracing.SetAttributes(ctx,
		attribute.Int("mint.imported.cocktails", r.result.Imported.Cocktails),
		attribute.Int("mint.errors", len(r.result.Errors)),
	)
	log.WithFields(map[string]any{
		"imported": r.result.Imported.Cocktails,
		"created":  r.result.Created,
		"reused":   r.result.Reused,
		"skipped":  r.result.Skipped,
		"errors":   len(r.result.Errors),
	}).Info("bundle import committed")

	return r.result, nil
}
