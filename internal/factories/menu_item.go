package factories

import (
	"math/rand"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/lucsky/cuid"
	"github.com/shopspring/decimal"
)

type MenuItemFactory struct{}

// CreateMenuItem builds an item for restaurant. Roughly one in five items is
// sold in store only, and one in ten is online only.
func (mf *MenuItemFactory) CreateMenuItem(restaurant *models.Restaurant) models.MenuItem {
	inStore, online := true, true
	switch r := rand.Float64(); {
	case r < 0.2:
		online = false
	case r < 0.3:
		inStore = false
	}

	return models.MenuItem{
		ID:               cuid.New(),
		RestaurantID:     restaurant.ID,
		Name:             generateRandomMenuItem(restaurant.Cuisines),
		Description:      fake.Lorem().Sentence(10),
		Price:            decimal.NewFromInt(int64(fake.IntBetween(5, 120) * 10)),
		Category:         generateRandomCategory(),
		AvailableInStore: inStore,
		AvailableOnline:  online,
		DeliveryFee:      decimal.NewFromInt(int64(fake.IntBetween(0, 6) * 5)),
	}
}

func generateRandomMenuItem(cuisines []string) string {
	items := map[string][]string{
		"Italian":       {"Margherita Pizza", "Spaghetti Carbonara", "Lasagna", "Tiramisu"},
		"Indian":        {"Chicken Tikka Masala", "Vegetable Curry", "Naan Bread", "Biryani"},
		"American":      {"Cheeseburger", "Hot Dog", "BBQ Ribs", "Apple Pie"},
		"Japanese":      {"Sushi Roll", "Ramen", "Tempura", "Miso Soup"},
		"Mexican":       {"Tacos", "Burrito", "Guacamole", "Quesadilla"},
		"Chinese":       {"Kung Pao Chicken", "Fried Rice", "Dumplings", "Mapo Tofu"},
		"Thai":          {"Pad Thai", "Green Curry", "Tom Yum Soup", "Mango Sticky Rice"},
		"Greek":         {"Gyros", "Greek Salad", "Moussaka", "Baklava"},
		"French":        {"Coq au Vin", "Beef Bourguignon", "Ratatouille", "Crème Brûlée"},
		"Mediterranean": {"Falafel", "Hummus", "Tabbouleh", "Grilled Halloumi"},
		"Swahili":       {"Pilau", "Chapati", "Mandazi", "Samaki wa Kupaka"},
		"Ethiopian":     {"Doro Wat", "Injera Platter", "Tibs", "Shiro"},
	}
	if len(cuisines) == 0 {
		return "Special of the Day"
	}
	cuisine := cuisines[rand.Intn(len(cuisines))]
	if items, ok := items[cuisine]; ok {
		return items[rand.Intn(len(items))]
	}
	return "Special of the Day"
}

func generateRandomCategory() string {
	categories := []string{"starters", "mains", "sides", "desserts", "drinks"}
	return categories[rand.Intn(len(categories))]
}
