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

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&n)
	return n, err
}

// Create stores the order and its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return execTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            INSERT INTO orders (
                id, number, status, payment_method, coupon_code, subtotal, delivery_fee,
                discount, total_amount, client_total, delivery_name, delivery_phone,
                delivery_address, delivery_notes, created_at
            ) VALUES (
                $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
            )
        `,
			o.ID,
			o.Number,
			o.Status,
			string(o.PaymentMethod),
			o.CouponCode,
			o.Subtotal,
			o.DeliveryFee,
			o.Discount,
			o.TotalAmount,
			o.ClientTotal,
			o.DeliveryInfo.Name,
			o.DeliveryInfo.Phone,
			o.DeliveryInfo.Address,
			o.DeliveryInfo.Notes,
			o.CreatedAt,
		)
		if err != nil {
			return translateError(err)
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"order_items"},
			[]string{"order_id", "menu_item_id", "restaurant_id", "name", "quantity", "unit_price", "delivery_fee"},
			pgx.CopyFromSlice(len(o.Items), func(i int) ([]interface{}, error) {
				it := o.Items[i]
				return []interface{}{o.ID, it.MenuItemID, it.RestaurantID, it.Name, it.Quantity, it.UnitPrice, it.DeliveryFee}, nil
			}),
		)
		return err
	})
}

func (r *OrderRepository) List(ctx context.Context, f repositories.OrderFilter) ([]*models.Order, int, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Search != "" {
		add("(number ILIKE $%[1]d OR delivery_name ILIKE $%[1]d OR delivery_phone ILIKE $%[1]d)", likePattern(f.Search))
	}
	if !f.Since.IsZero() {
		add("created_at >= $%d", f.Since)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
        SELECT id::text, number, status, payment_method, coupon_code, subtotal, delivery_fee,
            discount, total_amount, client_total, delivery_name, delivery_phone,
            delivery_address, delivery_notes, created_at
        FROM orders%s
        ORDER BY created_at DESC, number DESC
        LIMIT $%d OFFSET $%d`, clause, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*models.Order
	byID := make(map[string]*models.Order)
	for rows.Next() {
		o := &models.Order{}
		var method string
		err := rows.Scan(
			&o.ID,
			&o.Number,
			&o.Status,
			&method,
			&o.CouponCode,
			&o.Subtotal,
			&o.DeliveryFee,
			&o.Discount,
			&o.TotalAmount,
			&o.ClientTotal,
			&o.DeliveryInfo.Name,
			&o.DeliveryInfo.Phone,
			&o.DeliveryInfo.Address,
			&o.DeliveryInfo.Notes,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		o.PaymentMethod = models.PaymentMethod(method)
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(orders) == 0 {
		return orders, total, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemRows, err := r.pool.Query(ctx, `
        SELECT order_id::text, menu_item_id, restaurant_id, name, quantity, unit_price, delivery_fee
        FROM order_items
        WHERE order_id = ANY($1::uuid[])
        ORDER BY name`, ids)
	if err != nil {
		return nil, 0, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID string
		var it models.OrderItem
		if err := itemRows.Scan(&orderID, &it.MenuItemID, &it.RestaurantID, &it.Name, &it.Quantity, &it.UnitPrice, &it.DeliveryFee); err != nil {
			return nil, 0, err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return orders, total, itemRows.Err()
}
