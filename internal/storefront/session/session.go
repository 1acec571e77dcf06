// Package session keeps the per-browser storefront state behind an opaque cookie.
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/chrisdamba/foodstore/internal/storefront/cart"
	"github.com/chrisdamba/foodstore/internal/storefront/catalog"
	"github.com/chrisdamba/foodstore/internal/storefront/coupon"
	"github.com/chrisdamba/foodstore/internal/storefront/ui"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is the state of one shopper. Callers hold Lock while reading or
// writing the plain fields; Cart and Coupon guard themselves.
type Session struct {
	sync.Mutex

	ID                string
	Catalog           *catalog.Catalog
	Cart              *cart.Cart
	Coupon            *coupon.State
	DeliveryInfo      models.DeliveryInfo
	PaymentMethod     models.PaymentMethod
	CSRFToken         string
	HandoffCredential string
	Flash             string
	Dialog            ui.Dialog

	lastSeen time.Time
}

// TakeFlash returns the pending flash message and clears it.
func (s *Session) TakeFlash() string {
	s.Lock()
	defer s.Unlock()
	msg := s.Flash
	s.Flash = ""
	return msg
}

func (s *Session) SetFlash(msg string) {
	s.Lock()
	s.Flash = msg
	s.Unlock()
}

func (s *Session) ValidCSRF(token string) bool {
	return equal(s.CSRFToken, token)
}

// ConsumeHandoff accepts token at most once: a match rotates the credential
// under the same lock before reporting true.
func (s *Session) ConsumeHandoff(token string) bool {
	s.Lock()
	defer s.Unlock()
	if !equal(s.HandoffCredential, token) {
		return false
	}
	s.HandoffCredential = randomToken()
	return true
}

type Options struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
	FeePolicy  cart.FeePolicy
	Catalog    catalog.Source
	Validator  coupon.Validator
}

type Store struct {
	opts Options
	log  *zap.Logger
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(opts Options, log *zap.Logger) *Store {
	if opts.CookieName == "" {
		opts.CookieName = "foodstore_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 2 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		opts:     opts,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session named by the request cookie, creating one when it
// is missing or expired, and refreshes the cookie.
func (st *Store) Get(w http.ResponseWriter, r *http.Request) *Session {
	s := st.lookupCookie(r)
	if s == nil {
		s = st.create()
	}
	// re-issued on every request so the browser expiry slides with the server TTL
	http.SetCookie(w, &http.Cookie{
		Name:     st.opts.CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   st.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(st.opts.TTL.Seconds()),
	})
	return s
}

func (st *Store) lookupCookie(r *http.Request) *Session {
	c, err := r.Cookie(st.opts.CookieName)
	if err != nil {
		return nil
	}
	return st.lookup(c.Value)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) lookup(id string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil
	}

	s.Lock()
	defer s.Unlock()
	if st.now().Sub(s.lastSeen) > st.opts.TTL {
		return nil
	}
	s.lastSeen = st.now()
	return s
}

func (st *Store) create() *Session {
	s := &Session{
		ID:                uuid.NewString(),
		Catalog:           catalog.New(st.opts.Catalog),
		Cart:              cart.New(st.opts.FeePolicy),
		Coupon:            coupon.New(st.opts.Validator, st.log),
		CSRFToken:         randomToken(),
		HandoffCredential: randomToken(),
		lastSeen:          st.now(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Sweep drops sessions idle for longer than the TTL and reports how many went.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.opts.TTL)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		s.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.Unlock()
		if idle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.log.Debug("expired sessions swept", zap.Int("count", n))
			}
		}
	}
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("session: crypto/rand failed: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func equal(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
