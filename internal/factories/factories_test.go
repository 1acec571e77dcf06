package factories

import (
	"testing"

	"github.com/chrisdamba/foodstore/internal/models"
)

func TestGenerateCatalog(t *testing.T) {
	calls := 0
	cat := GenerateCatalog(models.SeedConfig{Restaurants: 25, ItemsPerRestaurant: 4, Coupons: 6}, func() { calls++ })

	if len(cat.Restaurants) != 25 || calls != 25 {
		t.Fatalf("restaurants=%d progress calls=%d", len(cat.Restaurants), calls)
	}
	if len(cat.MenuItems) != 100 {
		t.Fatalf("menu items = %d", len(cat.MenuItems))
	}
	if len(cat.Coupons) != 6 {
		t.Fatalf("coupons = %d", len(cat.Coupons))
	}

	slugs := map[string]bool{}
	owners := map[string]bool{}
	for _, r := range cat.Restaurants {
		if slugs[r.SlugName] {
			t.Errorf("duplicate slug %q", r.SlugName)
		}
		slugs[r.SlugName] = true
		owners[r.ID] = true
		if len(r.MenuItems) != 4 || len(r.Cuisines) == 0 {
			t.Errorf("restaurant %s has %d items, %d cuisines", r.ID, len(r.MenuItems), len(r.Cuisines))
		}
	}
	for _, it := range cat.MenuItems {
		if !owners[it.RestaurantID] {
			t.Errorf("item %s has unknown restaurant %s", it.ID, it.RestaurantID)
		}
		if !it.Price.IsPositive() || it.DeliveryFee.IsNegative() {
			t.Errorf("item %s price=%s fee=%s", it.ID, it.Price, it.DeliveryFee)
		}
		if !it.AvailableInStore && !it.AvailableOnline {
			t.Errorf("item %s is sold nowhere", it.ID)
		}
	}
}

func TestCreateCouponIsValid(t *testing.T) {
	var cf CouponFactory
	for i := 0; i < 50; i++ {
		c := cf.CreateCoupon()
		if c.Code == "" || c.Code != models.NormalizeCouponCode(c.Code) {
			t.Fatalf("code %q is not normalized", c.Code)
		}
		if !c.Value.IsPositive() {
			t.Fatalf("coupon %s value %s", c.Code, c.Value)
		}
		if c.Kind == models.CouponKindPercent && c.Value.IntPart() > 100 {
			t.Fatalf("coupon %s percent %s", c.Code, c.Value)
		}
	}
}

func TestUniqueSlugs(t *testing.T) {
	var rf RestaurantFactory
	tests := []struct {
		name string
		want string
	}{
		{"Mama Oliech", "mama-oliech"},
		{"Mama Oliech", "mama-oliech-1"},
		{"Mama Oliech!", "mama-oliech-2"},
		{"Café 24", "caf-24"},
	}
	for _, tt := range tests {
		if got := rf.createUniqueSlug(tt.name); got != tt.want {
			t.Errorf("createUniqueSlug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
