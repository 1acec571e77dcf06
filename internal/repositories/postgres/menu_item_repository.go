package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const menuItemColumns = `id, restaurant_id, name, description, price, category,
    available_in_store, available_online, delivery_fee`

type MenuItemRepository struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := row.Scan(
		&item.ID,
		&item.RestaurantID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.AvailableInStore,
		&item.AvailableOnline,
		&item.DeliveryFee,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *MenuItemRepository) BulkCreate(ctx context.Context, items []*models.MenuItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		[]string{
			"id", "restaurant_id", "name", "description", "price", "category",
			"available_in_store", "available_online", "delivery_fee",
		},
		pgx.CopyFromSlice(len(items), func(i int) ([]interface{}, error) {
			return []interface{}{
				items[i].ID,
				items[i].RestaurantID,
				items[i].Name,
				items[i].Description,
				items[i].Price,
				items[i].Category,
				items[i].AvailableInStore,
				items[i].AvailableOnline,
				items[i].DeliveryFee,
			}, nil
		}),
	)
	return err
}

func (r *MenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
        INSERT INTO menu_items (
            id, restaurant_id, name, description, price, category,
            available_in_store, available_online, delivery_fee
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9
        )
    `
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.RestaurantID,
		item.Name,
		item.Description,
		item.Price,
		item.Category,
		item.AvailableInStore,
		item.AvailableOnline,
		item.DeliveryFee,
	)
	return translateError(err)
}

func (r *MenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	query := `
        UPDATE menu_items SET
            restaurant_id = $2, name = $3, description = $4, price = $5, category = $6,
            available_in_store = $7, available_online = $8, delivery_fee = $9,
            updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query,
		item.ID,
		item.RestaurantID,
		item.Name,
		item.Description,
		item.Price,
		item.Category,
		item.AvailableInStore,
		item.AvailableOnline,
		item.DeliveryFee,
	)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *MenuItemRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *MenuItemRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.MenuItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string]*models.MenuItem, len(ids))
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

func (r *MenuItemRepository) List(ctx context.Context, f repositories.MenuItemFilter) ([]*models.MenuItem, int, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Search != "" {
		add("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", likePattern(f.Search))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.RestaurantID != "" {
		add("restaurant_id = $%d", f.RestaurantID)
	}
	if f.Available != nil {
		add("available_online = $%d", *f.Available)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM menu_items%s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		menuItemColumns, clause, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *MenuItemRepository) BulkUpdateAvailability(ctx context.Context, patches []models.MenuItemPatch) (int, error) {
	updated := 0
	err := execTxWithRetry(ctx, r.pool, 3, func(tx pgx.Tx) error {
		updated = 0
		batch := &pgx.Batch{}
		for _, p := range patches {
			batch.Queue(`
                UPDATE menu_items SET
                    available_in_store = COALESCE($2, available_in_store),
                    available_online = COALESCE($3, available_online),
                    updated_at = NOW()
                WHERE id = $1
            `, p.ID, p.AvailableInStore, p.AvailableOnline)
		}
		results := tx.SendBatch(ctx, batch)
		for range patches {
			tag, err := results.Exec()
			if err != nil {
				results.Close()
				return err
			}
			updated += int(tag.RowsAffected())
		}
		return results.Close()
	})
	return updated, err
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}

func (r *MenuItemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_items CASCADE")
	return err
}
