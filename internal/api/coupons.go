package api

import (
	"errors"
	"net/http"

	"github.com/chrisdamba/foodstore/internal/httpx"
	"github.com/chrisdamba/foodstore/internal/listing"
	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/repositories"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errCouponUnknown = errors.New("unknown coupon code")

// resolveCoupon looks code up and computes its discount on amount.
func (s *Server) resolveCoupon(r *http.Request, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	c, err := s.Coupons.Get(r.Context(), models.NormalizeCouponCode(code))
	if errors.Is(err, repositories.ErrNotFound) {
		return decimal.Zero, errCouponUnknown
	}
	if err != nil {
		return decimal.Zero, err
	}
	return c.DiscountFor(amount, s.now())
}

func isCouponRejection(err error) bool {
	return errors.Is(err, errCouponUnknown) ||
		errors.Is(err, models.ErrCouponInactive) ||
		errors.Is(err, models.ErrCouponExpired) ||
		errors.Is(err, models.ErrCouponBelowMinimum)
}

func (s *Server) handleValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req models.CouponValidationRequest
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if models.NormalizeCouponCode(req.Code) == "" {
		s.writeErr(w, r, invalid("code", "is required"))
		return
	}
	if req.Amount.IsNegative() {
		s.writeErr(w, r, invalid("amount", "must not be negative"))
		return
	}

	discount, err := s.resolveCoupon(r, req.Code, req.Amount)
	if isCouponRejection(err) {
		s.Log.Debug("coupon rejected", zap.String("code", req.Code), zap.Error(err))
		s.writeErr(w, r, invalid("code", err.Error()))
		return
	}
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, models.CouponValidationResponse{Discount: discount})
}

func (s *Server) handleListCoupons(w http.ResponseWriter, r *http.Request) {
	q, err := listing.Parse(r.URL.Query())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	coupons, total, err := s.Coupons.List(r.Context(), q.Offset(), q.Limit())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listing.NewPage(q, coupons, total))
}

func (s *Server) handleCreateCoupon(w http.ResponseWriter, r *http.Request) {
	var c models.Coupon
	if err := decode(w, r, &c); err != nil {
		s.writeErr(w, r, err)
		return
	}
	c.Code = models.NormalizeCouponCode(c.Code)

	hundred := decimal.NewFromInt(100)
	switch {
	case c.Code == "":
		s.writeErr(w, r, invalid("code", "is required"))
		return
	case c.Kind != models.CouponKindFixed && c.Kind != models.CouponKindPercent:
		s.writeErr(w, r, invalid("kind", "must be fixed or percent"))
		return
	case !c.Value.IsPositive():
		s.writeErr(w, r, invalid("value", "must be positive"))
		return
	case c.Kind == models.CouponKindPercent && c.Value.GreaterThan(hundred):
		s.writeErr(w, r, invalid("value", "percent coupons cannot exceed 100"))
		return
	case c.MinOrderAmount.IsNegative() || c.MaxDiscount.IsNegative():
		s.writeErr(w, r, invalid("min_order_amount", "limits must not be negative"))
		return
	}

	if err := s.Coupons.Create(r.Context(), &c); err != nil {
		s.writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (s *Server) handleDeleteCoupon(w http.ResponseWriter, r *http.Request) {
	code := models.NormalizeCouponCode(chi.URLParam(r, "code"))
	if err := s.Coupons.Delete(r.Context(), code); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
