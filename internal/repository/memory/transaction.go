package memory

import (
	"context"

	"coursepanel/internal/domain/repositories"
)

// TransactionManager runs callbacks under the store's write lock.
// A failed or panicking callback restores the state captured before it ran.
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager for the store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx executes fn atomically. Nested calls join the outer transaction.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if tm.store.inTx(ctx) {
		return fn(ctx)
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	snap := tm.store.snapshot()
	committed := false
	defer func() {
		if !committed {
			tm.store.restore(snap)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tm.store)); err != nil {
		return err
	}

	committed = true
	return nil
}
