package factories

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

var fake = faker.New()

type RestaurantFactory struct {
	slugCache sync.Map // to track used slugs
}

func (rf *RestaurantFactory) CreateRestaurant() *models.Restaurant {
	name := fake.Company().Name()

	return &models.Restaurant{
		ID:        cuid.New(),
		Name:      name,
		SlugName:  rf.createUniqueSlug(name),
		Phone:     fake.Phone().Number(),
		Town:      fake.Address().City(),
		Cuisines:  generateRandomCuisines(),
		Offline:   rand.Float64() < 0.1,
		MenuItems: make([]models.MenuItem, 0),
	}
}

func (rf *RestaurantFactory) createUniqueSlug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)

	slug := base
	counter := 1

	for {
		if _, exists := rf.slugCache.LoadOrStore(slug, true); !exists {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}

func generateRandomCuisines() []string {
	allCuisines := []string{"Italian", "Indian", "American", "Japanese", "Mexican", "Chinese", "Thai", "Greek", "French", "Mediterranean", "Swahili", "Ethiopian", "Street Food"}
	cuisineCount := rand.Intn(3) + 1 // 1 to 3 cuisines
	cuisines := make([]string, 0, cuisineCount)
	seen := make(map[string]bool, cuisineCount)
	for len(cuisines) < cuisineCount {
		c := allCuisines[rand.Intn(len(allCuisines))]
		if !seen[c] {
			seen[c] = true
			cuisines = append(cuisines, c)
		}
	}
	return cuisines
}
