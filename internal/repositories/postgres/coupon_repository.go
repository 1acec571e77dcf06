package postgres

import (
	"context"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const couponColumns = `code, kind, value, min_order_amount, max_discount, expires_at, active, created_at`

type CouponRepository struct {
	pool *pgxpool.Pool
}

func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

func scanCoupon(row pgx.Row) (*models.Coupon, error) {
	c := &models.Coupon{}
	err := row.Scan(
		&c.Code,
		&c.Kind,
		&c.Value,
		&c.MinOrderAmount,
		&c.MaxDiscount,
		&c.ExpiresAt,
		&c.Active,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CouponRepository) BulkCreate(ctx context.Context, coupons []*models.Coupon) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"coupons"},
		[]string{"code", "kind", "value", "min_order_amount", "max_discount", "expires_at", "active"},
		pgx.CopyFromSlice(len(coupons), func(i int) ([]interface{}, error) {
			return []interface{}{
				coupons[i].Code,
				coupons[i].Kind,
				coupons[i].Value,
				coupons[i].MinOrderAmount,
				coupons[i].MaxDiscount,
				coupons[i].ExpiresAt,
				coupons[i].Active,
			}, nil
		}),
	)
	return err
}

func (r *CouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	query := `
        INSERT INTO coupons (code, kind, value, min_order_amount, max_discount, expires_at, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at
    `
	err := r.pool.QueryRow(ctx, query,
		c.Code,
		c.Kind,
		c.Value,
		c.MinOrderAmount,
		c.MaxDiscount,
		c.ExpiresAt,
		c.Active,
	).Scan(&c.CreatedAt)
	return translateError(err)
}

func (r *CouponRepository) Get(ctx context.Context, code string) (*models.Coupon, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
	if err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

func (r *CouponRepository) List(ctx context.Context, offset, limit int) ([]*models.Coupon, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM coupons`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC, code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var coupons []*models.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, err
		}
		coupons = append(coupons, c)
	}
	return coupons, total, rows.Err()
}

func (r *CouponRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *CouponRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE coupons")
	return err
}
