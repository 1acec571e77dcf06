package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/chrisdamba/foodstore/internal/models"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record already exists")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

type RestaurantRepository interface {
	BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error
	Create(ctx context.Context, restaurant *models.Restaurant) error
	// GetAll returns every restaurant with its menu items nested.
	GetAll(ctx context.Context) ([]*models.Restaurant, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type MenuItemFilter struct {
	Search       string
	Category     string
	RestaurantID string
	Available    *bool // matches available_online
	Offset       int
	Limit        int
}

type MenuItemRepository interface {
	BulkCreate(ctx context.Context, items []*models.MenuItem) error
	Create(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id string) error
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.MenuItem, error)
	List(ctx context.Context, f MenuItemFilter) ([]*models.MenuItem, int, error)
	// BulkUpdateAvailability applies patches atomically and reports how many rows changed.
	BulkUpdateAvailability(ctx context.Context, patches []models.MenuItemPatch) (int, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type CouponRepository interface {
	BulkCreate(ctx context.Context, coupons []*models.Coupon) error
	Create(ctx context.Context, coupon *models.Coupon) error
	Get(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context, offset, limit int) ([]*models.Coupon, int, error)
	Delete(ctx context.Context, code string) error
	DeleteAll(ctx context.Context) error
}

type OrderFilter struct {
	Status string
	Search string
	Since  time.Time
	Offset int
	Limit  int
}

type OrderRepository interface {
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, order *models.Order) error
	List(ctx context.Context, f OrderFilter) ([]*models.Order, int, error)
}
