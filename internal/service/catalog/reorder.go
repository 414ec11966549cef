package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursepanel/internal/domain"
	models "coursepanel/internal/domain/models/catalog"
	"coursepanel/internal/domain/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// orderSetter writes a new order for one entity and returns it.
// It returns domain.ErrNotFound for unknown IDs.
type orderSetter[T any] func(ctx context.Context, id string, order int, at time.Time) (*T, error)

// applyReorder validates the whole batch, then applies every item in one transaction.
// Unknown IDs are skipped; any other failure discards all writes.
// The result lists updated entities in request order.
func applyReorder[T any](
	ctx context.Context,
	txManager repositories.TransactionManager,
	items []models.ReorderItem,
	setOrder orderSetter[T],
) ([]T, error) {
	if err := validateReorderItems(items); err != nil {
		return nil, err
	}

	var updated []T
	err := txManager.ExecTx(ctx, func(txCtx context.Context) error {
		updated = make([]T, 0, len(items))
		now := time.Now()
		for _, item := range items {
			entity, err := setOrder(txCtx, item.ID, *item.Order, now)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			updated = append(updated, *entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// validateReorderItems rejects an empty batch and items without id or order.
// An order of 0 is valid.
func validateReorderItems(items []models.ReorderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: reorder payload must be a non-empty array", domain.ErrValidation)
	}

	for i := range items {
		item := &items[i]
		err := validation.ValidateStruct(item,
			validation.Field(&item.ID, validation.Required),
			validation.Field(&item.Order, validation.NotNil),
		)
		if err != nil {
			return fmt.Errorf("%w: item %d: %v", domain.ErrValidation, i, err)
		}
	}

	return nil
}
