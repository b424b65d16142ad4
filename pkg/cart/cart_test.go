package cart

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blawness/SimplePOS/app/models"
)

func product(id uint, name string, price int64) *models.Product {
	p := &models.Product{Name: name, Price: price, Stock: 100}
	p.ID = id
	return p
}

func TestAddIncrementsExistingLine(t *testing.T) {
	c := New()
	espresso := product(1, "Espresso", 25000)

	c.Add(espresso)
	c.Add(espresso)
	c.Add(product(2, "Croissant", 22000))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "Espresso", c.Items[0].Name)
	assert.Equal(t, 3, c.Count())
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	c.Add(product(1, "Espresso", 25000))

	c.UpdateQuantity(1, 5)
	assert.Equal(t, 5, c.Items[0].Quantity)

	// Unknown product is a no-op.
	c.UpdateQuantity(42, 3)
	require.Len(t, c.Items, 1)
}

func TestQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	c.Add(product(1, "Espresso", 25000))
	c.Add(product(2, "Croissant", 22000))

	c.UpdateQuantity(1, 0)
	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(2), c.Items[0].ProductID)

	c.UpdateQuantity(2, -3)
	assert.True(t, c.IsEmpty())
}

func TestSubtotal(t *testing.T) {
	c := New()
	assert.Equal(t, int64(0), c.Subtotal())

	c.Add(product(1, "Espresso", 25000))
	c.UpdateQuantity(1, 2)
	c.Add(product(2, "Green Tea", 15000))
	c.Add(product(2, "Green Tea", 15000))
	c.Add(product(2, "Green Tea", 15000))

	// 2*25000 + 3*15000
	assert.Equal(t, int64(95000), c.Subtotal())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(product(1, "Espresso", 25000))
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.Subtotal())
}

func TestPriceSnapshotSurvivesCatalogChange(t *testing.T) {
	c := New()
	p := product(1, "Espresso", 25000)
	c.Add(p)

	p.Price = 99000
	assert.Equal(t, int64(25000), c.Items[0].Price)
}

func TestStoreSessionIsolation(t *testing.T) {
	s := NewStore()

	a := New()
	a.Add(product(1, "Espresso", 25000))
	require.NoError(t, s.Save("session-a", a))

	b := s.Load("session-b")
	assert.True(t, b.IsEmpty())

	got := s.Load("session-a")
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Espresso", got.Items[0].Name)
}

func TestStoreDrop(t *testing.T) {
	s := NewStore()
	c := New()
	c.Add(product(1, "Espresso", 25000))
	require.NoError(t, s.Save("session-a", c))

	require.NoError(t, s.Drop("session-a"))
	assert.True(t, s.Load("session-a").IsEmpty())
}

func TestMiddlewareAssignsCookie(t *testing.T) {
	s := NewStore()
	var captured string

	handler := s.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionID(r)
		c := FromCtx(r)
		c.Add(product(1, "Espresso", 25000))
		require.NoError(t, Persist(r))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart", nil))

	require.NotEmpty(t, captured)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, captured, cookies[0].Value)

	// A follow-up request with the cookie sees the same cart.
	handler2 := s.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, 1, FromCtx(r).Count())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(cookies[0])
	handler2.ServeHTTP(httptest.NewRecorder(), req)
}
