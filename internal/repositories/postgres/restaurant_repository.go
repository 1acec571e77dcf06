package postgres

import (
	"context"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RestaurantRepository struct {
	pool *pgxpool.Pool
}

func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

func (r *RestaurantRepository) BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"restaurants"},
		[]string{"id", "name", "slug_name", "phone", "town", "cuisines", "offline"},
		pgx.CopyFromSlice(len(restaurants), func(i int) ([]interface{}, error) {
			return []interface{}{
				restaurants[i].ID,
				restaurants[i].Name,
				restaurants[i].SlugName,
				restaurants[i].Phone,
				restaurants[i].Town,
				restaurants[i].Cuisines,
				restaurants[i].Offline,
			}, nil
		}),
	)
	return err
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	query := `
        INSERT INTO restaurants (id, name, slug_name, phone, town, cuisines, offline)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pool.Exec(ctx, query,
		restaurant.ID,
		restaurant.Name,
		restaurant.SlugName,
		restaurant.Phone,
		restaurant.Town,
		restaurant.Cuisines,
		restaurant.Offline,
	)
	return translateError(err)
}

func (r *RestaurantRepository) GetAll(ctx context.Context) ([]*models.Restaurant, error) {
	// First get all restaurants
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, slug_name, phone, town, cuisines, offline
        FROM restaurants
        ORDER BY name
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []*models.Restaurant
	byID := make(map[string]*models.Restaurant)
	for rows.Next() {
		restaurant := &models.Restaurant{}
		err := rows.Scan(
			&restaurant.ID,
			&restaurant.Name,
			&restaurant.SlugName,
			&restaurant.Phone,
			&restaurant.Town,
			&restaurant.Cuisines,
			&restaurant.Offline,
		)
		if err != nil {
			return nil, err
		}
		restaurant.MenuItems = []models.MenuItem{}
		restaurants = append(restaurants, restaurant)
		byID[restaurant.ID] = restaurant
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Then attach menu items
	menuRows, err := r.pool.Query(ctx, `SELECT `+menuItemColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer menuRows.Close()

	for menuRows.Next() {
		item, err := scanMenuItem(menuRows)
		if err != nil {
			return nil, err
		}
		if restaurant, ok := byID[item.RestaurantID]; ok {
			restaurant.MenuItems = append(restaurant.MenuItems, *item)
		}
	}
	return restaurants, menuRows.Err()
}

func (r *RestaurantRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	return count, err
}

func (r *RestaurantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE restaurants CASCADE")
	return err
}
