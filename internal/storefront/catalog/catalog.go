// Package catalog loads restaurants and their menus once per page session.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrisdamba/foodstore/internal/models"
)

type Source interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

type Catalog struct {
	src Source

	mu          sync.RWMutex
	loaded      bool
	restaurants []models.Restaurant
	items       map[string]models.MenuItem
}

func New(src Source) *Catalog {
	return &Catalog{src: src}
}

// Load returns the cached snapshot, fetching it on first use.
func (c *Catalog) Load(ctx context.Context) ([]models.Restaurant, error) {
	c.mu.RLock()
	if c.loaded {
		defer c.mu.RUnlock()
		return c.restaurants, nil
	}
	c.mu.RUnlock()
	return c.Reload(ctx)
}

func (c *Catalog) Reload(ctx context.Context) ([]models.Restaurant, error) {
	restaurants, err := c.src.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	items := make(map[string]models.MenuItem)
	for _, r := range restaurants {
		for _, it := range r.MenuItems {
			if it.RestaurantID == "" {
				it.RestaurantID = r.ID
			}
			items[it.ID] = it
		}
	}

	c.mu.Lock()
	c.restaurants = restaurants
	c.items = items
	c.loaded = true
	c.mu.Unlock()
	return restaurants, nil
}

func (c *Catalog) Item(id string) (models.MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	return it, ok
}

// OnlineItems lists items orderable online, in catalog order.
func (c *Catalog) OnlineItems() []models.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.MenuItem
	for _, r := range c.restaurants {
		for _, it := range r.MenuItems {
			if it.AvailableOnline {
				out = append(out, it)
			}
		}
	}
	return out
}
