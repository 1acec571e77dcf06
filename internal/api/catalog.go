package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/chrisdamba/foodstore/internal/httpx"
	"github.com/chrisdamba/foodstore/internal/listing"
	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/repositories"
	"github.com/go-chi/chi/v5"
	"github.com/lucsky/cuid"
)

func (s *Server) handleListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := s.Restaurants.GetAll(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if restaurants == nil {
		restaurants = []*models.Restaurant{}
	}
	httpx.WriteJSON(w, http.StatusOK, restaurants)
}

func (s *Server) handleListMenuItems(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r.URL.Query(), "category", "restaurant_id", "available")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	available, err := q.BoolFilter("available")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	category, _ := q.Filter("category")
	restaurantID, _ := q.Filter("restaurant_id")

	items, total, err := s.MenuItems.List(r.Context(), repositories.MenuItemFilter{
		Search:       q.Search,
		Category:     category,
		RestaurantID: restaurantID,
		Available:    available,
		Offset:       q.Offset(),
		Limit:        q.Limit(),
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listing.NewPage(q, items, total))
}

func validateMenuItem(it *models.MenuItem) error {
	it.Name = strings.TrimSpace(it.Name)
	switch {
	case it.Name == "":
		return invalid("name", "is required")
	case it.RestaurantID == "":
		return invalid("restaurant_id", "is required")
	case it.Price.IsNegative():
		return invalid("price", "must not be negative")
	case it.DeliveryFee.IsNegative():
		return invalid("delivery_fee", "must not be negative")
	}
	return nil
}

func (s *Server) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := decode(w, r, &item); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := validateMenuItem(&item); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if item.ID == "" {
		item.ID = cuid.New()
	}
	if err := s.MenuItems.Create(r.Context(), &item); err != nil {
		s.writeErr(w, r, menuItemWriteErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := decode(w, r, &item); err != nil {
		s.writeErr(w, r, err)
		return
	}
	item.ID = chi.URLParam(r, "id")
	if err := validateMenuItem(&item); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := s.MenuItems.Update(r.Context(), &item); err != nil {
		s.writeErr(w, r, menuItemWriteErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := s.MenuItems.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkUpdateRequest struct {
	Items []models.MenuItemPatch `json:"items"`
}

func (s *Server) handleBulkUpdateMenuItems(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if len(req.Items) == 0 {
		s.writeErr(w, r, invalid("items", "must not be empty"))
		return
	}
	for _, p := range req.Items {
		if p.ID == "" {
			s.writeErr(w, r, invalid("items", "every entry needs an id"))
			return
		}
		if p.AvailableInStore == nil && p.AvailableOnline == nil {
			s.writeErr(w, r, invalid("items", "entry "+p.ID+" changes nothing"))
			return
		}
	}

	n, err := s.MenuItems.BulkUpdateAvailability(r.Context(), req.Items)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int{"updated": n})
}

// menuItemWriteErr reports a missing parent restaurant against the field that named it.
func menuItemWriteErr(err error) error {
	if errors.Is(err, repositories.ErrInvalidReference) {
		return invalid("restaurant_id", "unknown restaurant")
	}
	return err
}
