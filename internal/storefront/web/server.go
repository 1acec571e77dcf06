// Package web serves the storefront pages.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/chrisdamba/foodstore/internal/httpx"
	"github.com/chrisdamba/foodstore/internal/storefront/checkout"
	"github.com/chrisdamba/foodstore/internal/storefront/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

type Deps struct {
	Log        *zap.Logger
	Sessions   *session.Store
	Orders     checkout.OrderCreator
	WalletPath string
}

type Server struct {
	log        *zap.Logger
	sessions   *session.Store
	orders     checkout.OrderCreator
	submitter  *checkout.Submitter
	walletPath string
	tmpl       *template.Template
}

func New(d Deps) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	if d.WalletPath == "" {
		d.WalletPath = "/payment/wallet"
	}
	return &Server{
		log:        log,
		sessions:   d.Sessions,
		orders:     d.Orders,
		submitter:  checkout.NewSubmitter(d.Orders, d.WalletPath, log),
		walletPath: d.WalletPath,
		tmpl:       tmpl,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleCatalog)
		r.Get("/cart", s.handleCart)
		r.Get("/checkout", s.handleCheckoutPage)

		r.Group(func(r chi.Router) {
			r.Use(s.requireCSRF)

			r.Post("/cart/items", s.handleAddItem)
			r.Post("/cart/items/{id}/quantity", s.handleSetQuantity)
			r.Post("/cart/items/{id}/increment", s.handleIncrement)
			r.Post("/cart/items/{id}/decrement", s.handleDecrement)
			r.Post("/cart/items/{id}/remove", s.handleRemove)
			r.Post("/cart/items/{id}/remove/confirm", s.handleConfirmRemove)
			r.Post("/cart/dialog/close", s.handleCloseDialog)

			r.Post("/coupon", s.handleApplyCoupon)
			r.Post("/coupon/remove", s.handleRemoveCoupon)

			r.Post("/checkout", s.handleCheckout)
			r.Post(s.walletPath, s.handleWalletPayment)
		})
	})
	return r
}

type ctxKey struct{}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Get(w, r)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func (s *Server) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.PostFormValue(checkout.FieldCSRF)
		}
		sess := sessionFrom(r)
		sess.Lock()
		ok := sess.ValidCSRF(token)
		sess.Unlock()
		if !ok {
			s.log.Warn("csrf check failed", zap.String("path", r.URL.Path), zap.String("session", sess.ID))
			http.Error(w, "invalid or missing CSRF token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("template render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
