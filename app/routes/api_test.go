package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/routes"
	"github.com/Blawness/SimplePOS/pkg/cart"
	"github.com/Blawness/SimplePOS/pkg/router"
	"github.com/Blawness/SimplePOS/pkg/testkit"
	"github.com/Blawness/SimplePOS/pkg/ws"
)

type apiClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newAPI(t *testing.T) (*apiClient, *models.Product) {
	t.Helper()
	db := testkit.NewDB(t)
	testkit.SetJWTSecret(t)

	cashier := testkit.SeedRole(t, db, "Cashier",
		"transaction.create", "transaction.read", "product.read")
	testkit.SeedUser(t, db, "Budi", "budi@simplepos.local", "budi", "secret123", cashier)

	admin := testkit.SeedRole(t, db, "Administrator",
		"product.read", "product.create", "product.update", "product.delete",
		"category.read", "category.create",
		"transaction.read", "transaction.create",
		"user.read", "user.create", "user.update", "user.delete")
	testkit.SeedUser(t, db, "Ana", "ana@simplepos.local", "ana", "secret123", admin)

	drinks := testkit.SeedCategory(t, db, "Drinks")
	espresso := testkit.SeedProduct(t, db, "Espresso", 25000, 100, drinks)
	testkit.SeedProduct(t, db, "Sold Out Tea", 15000, 0, drinks)

	r := router.New()
	carts := cart.NewStore()
	r.Use(carts.Middleware())
	routes.RegisterAPI(r, ws.NewHub())

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{
		t:    t,
		base: srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, espresso
}

func (c *apiClient) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func (c *apiClient) login() { c.loginAs("budi") }

func (c *apiClient) loginAs(username string) {
	c.t.Helper()
	resp, _ := c.do(http.MethodPost, "/api/auth/login", map[string]interface{}{
		"identifier": username,
		"password":   "secret123",
	})
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
}

func data(body map[string]interface{}) map[string]interface{} {
	d, _ := body["data"].(map[string]interface{})
	return d
}

func TestLoginSetsSessionCookie(t *testing.T) {
	api, _ := newAPI(t)

	resp, body := api.do(http.MethodPost, "/api/auth/login", map[string]interface{}{
		"identifier": "budi@simplepos.local",
		"password":   "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "budi", data(body)["username"])

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == "pos_auth" && c.Value != "" {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "pos_auth cookie should be set")
}

func TestLoginBadCredentials(t *testing.T) {
	api, _ := newAPI(t)

	resp, _ := api.do(http.MethodPost, "/api/auth/login", map[string]interface{}{
		"identifier": "budi",
		"password":   "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeAnonymous(t *testing.T) {
	api, _ := newAPI(t)

	resp, body := api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, data(body)["user"])
}

func TestMeAuthenticated(t *testing.T) {
	api, _ := newAPI(t)
	api.login()

	resp, body := api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	user, _ := data(body)["user"].(map[string]interface{})
	require.NotNil(t, user)
	assert.Equal(t, "Cashier", user["role"])
	assert.Contains(t, user["permissions"], "transaction.create")
}

func TestProtectedEndpointsRequireSession(t *testing.T) {
	api, _ := newAPI(t)

	resp, _ := api.do(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPermissionDenied(t *testing.T) {
	api, _ := newAPI(t)
	api.login()

	// Cashiers cannot manage users.
	resp, _ := api.do(http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = api.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Latte", "price": 30000, "category_id": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	api, espresso := newAPI(t)
	api.login()

	// Two espressos: add twice, quantity accumulates.
	item := map[string]interface{}{"product_id": espresso.ID}
	resp, _ := api.do(http.MethodPost, "/api/cart/items", item)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := api.do(http.MethodPost, "/api/cart/items", item)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.EqualValues(t, 2, data(body)["count"])
	assert.EqualValues(t, 50000, data(body)["subtotal"])
	assert.EqualValues(t, 5500, data(body)["tax"])
	assert.EqualValues(t, 55500, data(body)["total"])

	// Confirm the sale.
	resp, body = api.do(http.MethodPost, "/api/checkout", map[string]interface{}{
		"order_name":     "Table 4",
		"payment_method": "tunai",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SUCCESS", data(body)["state"])
	snapshot, _ := data(body)["snapshot"].(map[string]interface{})
	require.NotNil(t, snapshot)
	assert.EqualValues(t, 55500, snapshot["total"])
	assert.Equal(t, "cash", snapshot["payment"])

	// Printable receipt.
	req, err := http.NewRequest(http.MethodGet, api.base+"/api/checkout/receipt", nil)
	require.NoError(t, err)
	rResp, err := api.client.Do(req)
	require.NoError(t, err)
	receipt, err := io.ReadAll(rResp.Body)
	require.NoError(t, err)
	rResp.Body.Close()
	require.Equal(t, http.StatusOK, rResp.StatusCode)
	assert.Contains(t, string(receipt), "Table 4")
	assert.Contains(t, string(receipt), "Rp 55.500")

	// Dismiss clears the cart after a successful sale.
	resp, body = api.do(http.MethodPost, "/api/checkout/dismiss", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cartBody, _ := data(body)["cart"].(map[string]interface{})
	assert.EqualValues(t, 0, cartBody["count"])

	// The sale is on the ledger.
	resp, body = api.do(http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows, _ := body["data"].([]interface{})
	require.Len(t, rows, 1)
	row, _ := rows[0].(map[string]interface{})
	assert.EqualValues(t, 55500, row["total"])
	assert.Equal(t, "Budi", row["cashier"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	api, _ := newAPI(t)
	api.login()

	resp, _ := api.do(http.MethodPost, "/api/checkout", map[string]interface{}{
		"order_name":     "Table 1",
		"payment_method": "qris",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAddOutOfStockProduct(t *testing.T) {
	api, _ := newAPI(t)
	api.login()

	// Product 2 is seeded with zero stock.
	resp, _ := api.do(http.MethodPost, "/api/cart/items", map[string]interface{}{
		"product_id": 2,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDashboardRedirectsAnonymous(t *testing.T) {
	api, _ := newAPI(t)

	// The landing page and nested pages both redirect with the original
	// path preserved.
	cases := map[string]string{
		"/dashboard":          "/login?redirect=%2Fdashboard",
		"/dashboard/products": "/login?redirect=%2Fdashboard%2Fproducts",
	}
	for path, location := range cases {
		req, err := http.NewRequest(http.MethodGet, api.base+path, nil)
		require.NoError(t, err)
		resp, err := api.client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, location, resp.Header.Get("Location"), path)
	}
}

func TestDashboardServesAuthenticated(t *testing.T) {
	api, _ := newAPI(t)
	api.login()

	for _, path := range []string{"/dashboard", "/dashboard/products"} {
		req, err := http.NewRequest(http.MethodGet, api.base+path, nil)
		require.NoError(t, err)
		resp, err := api.client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestProductManagement(t *testing.T) {
	api, espresso := newAPI(t)
	api.loginAs("ana")

	resp, body := api.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name":        "Latte",
		"price":       32000,
		"stock":       50,
		"category_id": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Unknown category is a validation error, not a crash.
	resp, _ = api.do(http.MethodPost, "/api/products", map[string]interface{}{
		"name":        "Mystery",
		"price":       1000,
		"stock":       1,
		"category_id": 999,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = api.do(http.MethodPut, fmt.Sprintf("/api/products/%d", espresso.ID), map[string]interface{}{
		"name":        "Espresso Doppio",
		"price":       28000,
		"stock":       90,
		"category_id": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = api.do(http.MethodGet, fmt.Sprintf("/api/products/%d", espresso.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Espresso Doppio", data(body)["name"])
	assert.EqualValues(t, 28000, data(body)["price"])
}

func TestUserManagement(t *testing.T) {
	api, _ := newAPI(t)
	api.loginAs("ana")

	resp, body := api.do(http.MethodPost, "/api/users", map[string]interface{}{
		"name":     "Sari Dewi",
		"email":    "sari@simplepos.local",
		"username": "sari",
		"password": "secret123",
		"role":     "Cashier",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ACTIVE", data(body)["status"])
	assert.Equal(t, "Cashier", data(body)["role"])

	// Short password is rejected with a field error.
	resp, body = api.do(http.MethodPost, "/api/users", map[string]interface{}{
		"name":     "Tiny",
		"email":    "tiny@simplepos.local",
		"username": "tiny",
		"password": "short",
		"role":     "Cashier",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs, _ := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "password")

	// Unknown role is a validation error.
	resp, _ = api.do(http.MethodPost, "/api/users", map[string]interface{}{
		"name":     "Ghost",
		"email":    "ghost@simplepos.local",
		"username": "ghost",
		"password": "secret123",
		"role":     "Manager",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUserUpdateErrors(t *testing.T) {
	api, _ := newAPI(t)
	api.loginAs("ana")

	// Editing a user that does not exist is a 404, nothing else.
	resp, _ := api.do(http.MethodPut, "/api/users/9999", map[string]interface{}{
		"name": "Nobody",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// An unknown role on a real user is a field error.
	resp, _ = api.do(http.MethodPut, "/api/users/1", map[string]interface{}{
		"role": "Manager",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestReportsEndpoints(t *testing.T) {
	api, _ := newAPI(t)
	api.login()

	for _, path := range []string{
		"/api/reports/summary",
		"/api/reports/monthly",
		"/api/reports/products",
		"/api/reports/categories",
	} {
		resp, _ := api.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestGraphQLQuery(t *testing.T) {
	api, _ := newAPI(t)
	api.login()

	resp, body := api.do(http.MethodPost, "/api/graphql", map[string]interface{}{
		"query": `{ products { name price } }`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	d := data(body)
	products, _ := d["products"].([]interface{})
	require.NotEmpty(t, products, fmt.Sprintf("unexpected graphql response: %v", body))
	first, _ := products[0].(map[string]interface{})
	assert.Equal(t, "Espresso", first["name"])
}
