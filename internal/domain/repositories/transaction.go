package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles transactions. Repositories called with the
// context passed to fn participate in the transaction.
type TransactionManager interface {
	// ExecTx executes a function within a transaction.
	// If fn returns an error every write made through ctx is discarded.
	ExecTx(ctx context.Context, fn TxFn) error
}
