package api

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/repositories"
)

type memStore struct {
	mu          sync.Mutex
	restaurants []*models.Restaurant
	items       map[string]*models.MenuItem
	coupons     map[string]*models.Coupon
	orders      []*models.Order
	seq         int64
}

func newMemStore() *memStore {
	return &memStore{items: map[string]*models.MenuItem{}, coupons: map[string]*models.Coupon{}}
}

type memRestaurants struct{ *memStore }
type memMenuItems struct{ *memStore }
type memCoupons struct{ *memStore }
type memOrders struct{ *memStore }

func (m memRestaurants) BulkCreate(ctx context.Context, rs []*models.Restaurant) error {
	for _, r := range rs {
		_ = m.Create(ctx, r)
	}
	return nil
}

func (m memRestaurants) Create(_ context.Context, r *models.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurants = append(m.restaurants, r)
	return nil
}

func (m memRestaurants) GetAll(context.Context) ([]*models.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Restaurant
	for _, r := range m.restaurants {
		cp := *r
		cp.MenuItems = []models.MenuItem{}
		for _, it := range m.sortedItems() {
			if it.RestaurantID == r.ID {
				cp.MenuItems = append(cp.MenuItems, *it)
			}
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (m memRestaurants) Count(context.Context) (int, error) {
	return len(m.restaurants), nil
}

func (m memRestaurants) DeleteAll(context.Context) error {
	m.restaurants = nil
	return nil
}

// hasRestaurant stands in for the menu_items foreign key; callers hold mu.
func (m *memStore) hasRestaurant(id string) bool {
	for _, r := range m.restaurants {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (m *memStore) sortedItems() []*models.MenuItem {
	out := make([]*models.MenuItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m memMenuItems) BulkCreate(ctx context.Context, items []*models.MenuItem) error {
	for _, it := range items {
		if err := m.Create(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (m memMenuItems) Create(_ context.Context, it *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[it.ID]; ok {
		return repositories.ErrConflict
	}
	if !m.hasRestaurant(it.RestaurantID) {
		return repositories.ErrInvalidReference
	}
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m memMenuItems) Update(_ context.Context, it *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[it.ID]; !ok {
		return repositories.ErrNotFound
	}
	if !m.hasRestaurant(it.RestaurantID) {
		return repositories.ErrInvalidReference
	}
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m memMenuItems) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m memMenuItems) GetByIDs(_ context.Context, ids []string) (map[string]*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]*models.MenuItem{}
	for _, id := range ids {
		if it, ok := m.items[id]; ok {
			cp := *it
			out[id] = &cp
		}
	}
	return out, nil
}

func (m memMenuItems) List(_ context.Context, f repositories.MenuItemFilter) ([]*models.MenuItem, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*models.MenuItem
	for _, it := range m.sortedItems() {
		if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.RestaurantID != "" && it.RestaurantID != f.RestaurantID {
			continue
		}
		if f.Available != nil && it.AvailableOnline != *f.Available {
			continue
		}
		matched = append(matched, it)
	}
	total := len(matched)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := min(f.Offset+f.Limit, total)
	return matched[f.Offset:end], total, nil
}

func (m memMenuItems) BulkUpdateAvailability(_ context.Context, patches []models.MenuItemPatch) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range patches {
		it, ok := m.items[p.ID]
		if !ok {
			continue
		}
		if p.AvailableInStore != nil {
			it.AvailableInStore = *p.AvailableInStore
		}
		if p.AvailableOnline != nil {
			it.AvailableOnline = *p.AvailableOnline
		}
		n++
	}
	return n, nil
}

func (m memMenuItems) Count(context.Context) (int, error) {
	return len(m.items), nil
}

func (m memMenuItems) DeleteAll(context.Context) error {
	m.items = map[string]*models.MenuItem{}
	return nil
}

func (m memCoupons) BulkCreate(ctx context.Context, cs []*models.Coupon) error {
	for _, c := range cs {
		if err := m.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (m memCoupons) Create(_ context.Context, c *models.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[c.Code]; ok {
		return repositories.ErrConflict
	}
	cp := *c
	m.coupons[c.Code] = &cp
	return nil
}

func (m memCoupons) Get(_ context.Context, code string) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m memCoupons) List(_ context.Context, offset, limit int) ([]*models.Coupon, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*models.Coupon
	for _, c := range m.coupons {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	if offset >= len(all) {
		return nil, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

func (m memCoupons) Delete(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[code]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.coupons, code)
	return nil
}

func (m memCoupons) DeleteAll(context.Context) error {
	m.coupons = map[string]*models.Coupon{}
	return nil
}

func (m memOrders) NextNumber(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return m.seq, nil
}

func (m memOrders) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return nil
}

func (m memOrders) List(_ context.Context, f repositories.OrderFilter) ([]*models.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*models.Order
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(o.Number, f.Search) && !strings.Contains(o.DeliveryInfo.Name, f.Search) {
			continue
		}
		if !f.Since.IsZero() && o.CreatedAt.Before(f.Since) {
			continue
		}
		matched = append(matched, o)
	}
	total := len(matched)
	if f.Offset >= total {
		return nil, total, nil
	}
	return matched[f.Offset:min(f.Offset+f.Limit, total)], total, nil
}

type recordingEvents struct {
	mu     sync.Mutex
	orders []*models.Order
	err    error
}

func (e *recordingEvents) OrderPlaced(_ context.Context, o *models.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orders = append(e.orders, o)
	return e.err
}
