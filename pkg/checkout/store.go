package checkout

import (
	"sync"
	"time"

	"github.com/Blawness/SimplePOS/pkg/cache"
)

// TTL matches the cart lifetime so a checkout never outlives its cart.
const TTL = 24 * time.Hour

// Store persists checkout state per cart session, Redis first with an
// in-process fallback.
type Store struct {
	mu  sync.RWMutex
	mem map[string]*Checkout
}

// NewStore returns a checkout store.
func NewStore() *Store {
	return &Store{mem: map[string]*Checkout{}}
}

func redisKey(id string) string { return "pos:checkout:" + id }

// Load returns the session's checkout, or a fresh idle one.
func (s *Store) Load(id string) *Checkout {
	var c Checkout
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

// Save persists the session's checkout.
func (s *Store) Save(id string, c *Checkout) error {
	s.mu.Lock()
	s.mem[id] = c
	s.mu.Unlock()

	return cache.Set(redisKey(id), c, TTL)
}

// Drop removes the session's checkout.
func (s *Store) Drop(id string) error {
	s.mu.Lock()
	delete(s.mem, id)
	s.mu.Unlock()

	return cache.Forget(redisKey(id))
}
