package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type TxContextKey string

const txKey = TxContextKey("tx-context-key")

// ErrTransaction marks failures of the transaction itself rather than of a statement inside it.
var ErrTransaction = errors.New("transaction failure")

type Tx interface {
	Queryer
	IsOpen() bool
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Savepoint(ctx context.Context, name string) error
	RollbackToSavepoint(ctx context.Context, name string) error
	ReleaseSavepoint(ctx context.Context, name string) error
}

type beginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// Transaction wraps sqlx.Tx and tracks whether it has been closed.
type Transaction struct {
	*sqlx.Tx
	logger   ectologger.Logger
	isClosed bool
}

// joinedTx is handed to callers that reuse a transaction already in the context.
// Only the caller that began the transaction may end it.
type joinedTx struct {
	*Transaction
}

func (t *joinedTx) Commit(ctx context.Context) error   { return nil }
func (t *joinedTx) Rollback(ctx context.Context) error { return nil }

func NewTx(tx *sqlx.Tx, logger ectologger.Logger) *Transaction {
	return &Transaction{
		Tx:     tx,
		logger: logger,
	}
}

// GetTx returns the open transaction carried by ctx or begins a new one and stores it in the returned context.
func GetTx(ctx context.Context, logger ectologger.Logger, db beginner, opts *sql.TxOptions) (context.Context, Tx, error) {
	if current, ok := ctx.Value(txKey).(*Transaction); ok && current.IsOpen() {
		return ctx, &joinedTx{Transaction: current}, nil
	}

	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Errorf("error while beginning transaction")
		return ctx, nil, fmt.Errorf("%w: error while beginning transaction: %v", ErrTransaction, err)
	}

	newTx := NewTx(tx, logger)
	ctx = context.WithValue(ctx, txKey, newTx)
	return ctx, newTx, nil
}

// TxFromContext returns the open transaction carried by ctx.
func TxFromContext(ctx context.Context) (Tx, bool) {
	current, ok := ctx.Value(txKey).(*Transaction)
	if !ok || !current.IsOpen() {
		return nil, false
	}
	return &joinedTx{Transaction: current}, true
}

func (t *Transaction) IsOpen() bool {
	return !t.isClosed
}

func (t *Transaction) Rollback(ctx context.Context) error {
	if t.isClosed {
		return nil
	}

	err := t.Tx.Rollback()
	t.isClosed = true
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while rolling back transaction")
		return fmt.Errorf("%w: error while rolling back transaction: %v", ErrTransaction, err)
	}

	return nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	if t.isClosed {
		return nil
	}

	err := t.Tx.Commit()
	t.isClosed = true
	if err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while committing transaction")
		return fmt.Errorf("%w: error while committing transaction: %v", ErrTransaction, err)
	}

	return nil
}

func (t *Transaction) Savepoint(ctx context.Context, name string) error {
	return t.savepointExec(ctx, "SAVEPOINT "+pq.QuoteIdentifier(name))
}

func (t *Transaction) RollbackToSavepoint(ctx context.Context, name string) error {
	return t.savepointExec(ctx, "ROLLBACK TO SAVEPOINT "+pq.QuoteIdentifier(name))
}

func (t *Transaction) ReleaseSavepoint(ctx context.Context, name string) error {
	return t.savepointExec(ctx, "RELEASE SAVEPOINT "+pq.QuoteIdentifier(name))
}

func (t *Transaction) savepointExec(ctx context.Context, statement string) error {
	if _, err := t.Tx.ExecContext(ctx, statement); err != nil {
		t.logger.WithContext(ctx).WithError(err).WithField("statement", statement).Error("savepoint statement failed")
		return fmt.Errorf("%w: %s: %v", ErrTransaction, statement, err)
	}
	return nil
}
