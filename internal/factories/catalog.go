// Package factories generates fake catalog data for seeding a development database.
package factories

import "github.com/chrisdamba/foodstore/internal/models"

type Catalog struct {
	Restaurants []*models.Restaurant
	MenuItems   []*models.MenuItem
	Coupons     []*models.Coupon
}

// GenerateCatalog builds cfg.Restaurants restaurants with their menus and
// cfg.Coupons coupons with distinct codes. progress, when non-nil, is called
// once per restaurant generated.
func GenerateCatalog(cfg models.SeedConfig, progress func()) *Catalog {
	var (
		rf  RestaurantFactory
		mf  MenuItemFactory
		cf  CouponFactory
		out Catalog
	)

	for i := 0; i < cfg.Restaurants; i++ {
		r := rf.CreateRestaurant()
		for j := 0; j < cfg.ItemsPerRestaurant; j++ {
			item := mf.CreateMenuItem(r)
			r.MenuItems = append(r.MenuItems, item)
			out.MenuItems = append(out.MenuItems, &item)
		}
		out.Restaurants = append(out.Restaurants, r)
		if progress != nil {
			progress()
		}
	}

	seen := make(map[string]bool, cfg.Coupons)
	for len(out.Coupons) < cfg.Coupons {
		c := cf.CreateCoupon()
		if seen[c.Code] {
			continue
		}
		seen[c.Code] = true
		out.Coupons = append(out.Coupons, c)
	}
	return &out
}
