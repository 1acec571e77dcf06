// Package api is the JSON backend the storefront and back office talk to.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chrisdamba/foodstore/internal/httpx"
	"github.com/chrisdamba/foodstore/internal/listing"
	"github.com/chrisdamba/foodstore/internal/metrics"
	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/repositories"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type OrderEvents interface {
	OrderPlaced(ctx context.Context, o *models.Order) error
}

type Deps struct {
	Config      models.APIConfig
	FeePolicy   string
	Restaurants repositories.RestaurantRepository
	MenuItems   repositories.MenuItemRepository
	Coupons     repositories.CouponRepository
	Orders      repositories.OrderRepository
	Events      OrderEvents
	Metrics     *metrics.ServerMetrics
	Log         *zap.Logger
}

type Server struct {
	Deps
	now func() time.Time
}

func New(d Deps) *Server {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewServerMetrics("api")
	}
	if d.FeePolicy == "" {
		d.FeePolicy = models.DeliveryFeePerLine
	}
	if len(d.Config.Tokens) == 0 {
		d.Log.Warn("no api tokens configured, bearer authentication is disabled")
	}
	return &Server{Deps: d, now: time.Now}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(s.Log))
	r.Use(s.Metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", s.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/restaurants", s.handleListRestaurants)

		r.Route("/menu-items", func(r chi.Router) {
			r.Get("/", s.handleListMenuItems)
			r.Post("/", s.handleCreateMenuItem)
			r.Patch("/", s.handleBulkUpdateMenuItems)
			r.Put("/{id}", s.handleUpdateMenuItem)
			r.Delete("/{id}", s.handleDeleteMenuItem)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", s.handleListCoupons)
			r.Post("/", s.handleCreateCoupon)
			r.Post("/validate", s.handleValidateCoupon)
			r.Delete("/{code}", s.handleDeleteCoupon)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.handleListOrders)
			r.Post("/", s.handleCreateOrder)
		})
	})
	return r
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.Config.Tokens) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || !s.validToken(token) {
			httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) validToken(token string) bool {
	valid := false
	for _, t := range s.Config.Tokens {
		if t != "" && subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			valid = true
		}
	}
	return valid
}

// ValidationError is a client mistake in a request body, reported as 422.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return invalid("", "malformed JSON body: "+err.Error())
	}
	return nil
}

// writeErr maps err onto a status code and writes the error envelope.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, r, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, listing.ErrInvalidParam):
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		httpx.WriteError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, repositories.ErrConflict):
		httpx.WriteError(w, r, http.StatusConflict, "already exists")
	case errors.Is(err, repositories.ErrInvalidReference):
		httpx.WriteError(w, r, http.StatusUnprocessableEntity, "referenced record does not exist")
	default:
		s.Log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
