package cart

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/Blawness/SimplePOS/config"
	"github.com/Blawness/SimplePOS/pkg/cache"
)

// CookieName identifies the session that owns a cart.
const CookieName = "pos_cart"

// TTL is how long an idle cart survives in Redis.
const TTL = 24 * time.Hour

type ctxKey struct{}

// Store persists carts keyed by session ID. Redis is the primary backend;
// when Redis is unavailable carts fall back to an in-process map so the
// register keeps working on a single node.
type Store struct {
	mu  sync.RWMutex
	mem map[string]*Cart
}

// NewStore returns a cart store.
func NewStore() *Store {
	return &Store{mem: map[string]*Cart{}}
}

func redisKey(id string) string { return "pos:cart:" + id }

// newID generates a cryptographically random 32-byte hex session ID.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Load returns the cart for a session ID, or an empty cart when none is
// stored yet.
func (s *Store) Load(id string) *Cart {
	var c Cart
	if cache.Get(redisKey(id), &c) {
		return &c
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.mem[id]; ok {
		return c
	}
	return New()
}

// Save persists a cart under the session ID.
func (s *Store) Save(id string, c *Cart) error {
	s.mu.Lock()
	s.mem[id] = c
	s.mu.Unlock()

	return cache.Set(redisKey(id), c, TTL)
}

// Drop removes a session's cart entirely.
func (s *Store) Drop(id string) error {
	s.mu.Lock()
	delete(s.mem, id)
	s.mu.Unlock()

	return cache.Forget(redisKey(id))
}

// handle couples a cart to its session ID for the duration of a request.
type handle struct {
	store *Store
	id    string
	cart  *Cart
}

// Middleware assigns each request its session cart. Requests without a
// pos_cart cookie get a fresh session ID and the cookie set. Handlers
// access the cart via FromCtx and persist changes via Persist.
func (s *Store) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				id = c.Value
			} else {
				id, _ = newID()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(TTL.Seconds()),
					HttpOnly: true,
					Secure:   config.IsProduction(),
					SameSite: http.SameSiteLaxMode,
				})
			}

			h := &handle{store: s, id: id, cart: s.Load(id)}
			ctx := context.WithValue(r.Context(), ctxKey{}, h)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx returns the session's cart. The middleware must have run; a
// request outside the chain gets a detached empty cart.
func FromCtx(r *http.Request) *Cart {
	if h, ok := r.Context().Value(ctxKey{}).(*handle); ok {
		return h.cart
	}
	return New()
}

// SessionID returns the cart session ID for the request.
func SessionID(r *http.Request) string {
	if h, ok := r.Context().Value(ctxKey{}).(*handle); ok {
		return h.id
	}
	return ""
}

// Persist writes the request's cart back to the store. Call after every
// mutation; loads without changes need no save.
func Persist(r *http.Request) error {
	if h, ok := r.Context().Value(ctxKey{}).(*handle); ok {
		return h.store.Save(h.id, h.cart)
	}
	return nil
}
