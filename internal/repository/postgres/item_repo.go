package postgres

import (
	"context"

	"eventplanner/internal/domain"
)

type itemRepository struct {
	DB DBTX
}

func NewItemRepository(db DBTX) domain.ItemRepository {
	return &itemRepository{DB: db}
}

func (r *itemRepository) ListByEventID(ctx context.Context, eventID int64) ([]domain.Item, error) {
	query := `
		SELECT item_id, item_name, quantity
		FROM event_items
		WHERE event_id = $1
		ORDER BY item_id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ItemID, &it.ItemName, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *itemRepository) Create(ctx context.Context, eventID int64, item *domain.Item) error {
	query := `
		INSERT INTO event_items (event_id, item_name, quantity)
		VALUES ($1, $2, $3)
		RETURNING item_id
	`
	if err := r.DB.QueryRowContext(ctx, query, eventID, item.ItemName, item.Quantity).Scan(&item.ItemID); err != nil {
		return classifyWriteError(err, domain.ErrNotFound)
	}
	return nil
}

func (r *itemRepository) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE event_items SET quantity = $1 WHERE item_id = $2`, quantity, itemID)
	if err != nil {
		return classifyWriteError(err, nil)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, itemID int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM event_items WHERE item_id = $1`, itemID)
	return err
}

func (r *itemRepository) DeleteByEventID(ctx context.Context, eventID int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM event_items WHERE event_id = $1`, eventID)
	return err
}
