package routes

import (
	"net/http"

	"github.com/Blawness/SimplePOS/app/controllers"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/pkg/authz"
	"github.com/Blawness/SimplePOS/pkg/middleware"
	"github.com/Blawness/SimplePOS/pkg/response"
	"github.com/Blawness/SimplePOS/pkg/router"
	"github.com/Blawness/SimplePOS/pkg/ws"
)

// RegisterAPI wires every HTTP route. Permission names follow the
// resource.action convention checked against the user's role.
func RegisterAPI(r *router.Router, hub *ws.Hub) {
	users := repositories.NewUserRepository()
	authenticate := middleware.Authenticate(users)

	authCtl := controllers.NewAuthController()
	productCtl := controllers.NewProductController()
	userCtl := controllers.NewUserController()
	txCtl := controllers.NewTransactionController()
	cartCtl := controllers.NewCartController()
	reportCtl := controllers.NewReportController()
	graphqlCtl := controllers.NewGraphQLController()

	api := r.Group("/api")

	// Session endpoints. Me is public so the frontend can probe the
	// session without triggering a 401.
	api.Post("/auth/login", "auth.login", authCtl.Login)
	api.Post("/auth/logout", "auth.logout", authCtl.Logout)
	api.Get("/auth/me", "auth.me", meHandler(users, authCtl))
	api.Post("/auth/request-reset", "auth.request_reset", authCtl.RequestReset)
	api.Post("/auth/reset-password", "auth.reset_password", authCtl.ResetPassword)

	protected := api.Group("", authenticate)

	// Catalog.
	protected.Get("/categories", "categories.index", productCtl.Categories,
		authz.RequirePermission("category.read"))
	protected.Post("/categories", "categories.store", productCtl.StoreCategory,
		authz.RequirePermission("category.create"))
	protected.Get("/products", "products.index", productCtl.Index,
		authz.RequirePermission("product.read"))
	protected.Post("/products", "products.store", productCtl.Store,
		authz.RequirePermission("product.create"))
	protected.Get("/products/{id}", "products.show", productCtl.Show,
		authz.RequirePermission("product.read"))
	protected.Put("/products/{id}", "products.update", productCtl.Update,
		authz.RequirePermission("product.update"))
	protected.Delete("/products/{id}", "products.destroy", productCtl.Destroy,
		authz.RequirePermission("product.delete"))
	protected.Post("/products/{id}/image", "products.image", productCtl.UploadImage,
		authz.RequirePermission("product.update"))

	// Sales ledger.
	protected.Get("/transactions", "transactions.index", txCtl.Index,
		authz.RequirePermission("transaction.read"))
	protected.Post("/transactions", "transactions.store", txCtl.Store,
		authz.RequirePermission("transaction.create"))

	// User management.
	protected.Get("/users", "users.index", userCtl.Index,
		authz.RequirePermission("user.read"))
	protected.Post("/users", "users.store", userCtl.Store,
		authz.RequirePermission("user.create"))
	protected.Put("/users/{id}", "users.update", userCtl.Update,
		authz.RequirePermission("user.update"))
	protected.Delete("/users/{id}", "users.destroy", userCtl.Destroy,
		authz.RequirePermission("user.delete"))

	// Cart and checkout. The cart itself needs a session, not a
	// permission; recording a sale needs transaction.create.
	protected.Get("/cart", "cart.show", cartCtl.Show)
	protected.Post("/cart/items", "cart.items.store", cartCtl.AddItem,
		authz.RequirePermission("product.read"))
	protected.Put("/cart/items/{id}", "cart.items.update", cartCtl.UpdateItem)
	protected.Delete("/cart/items/{id}", "cart.items.destroy", cartCtl.RemoveItem)
	protected.Delete("/cart", "cart.clear", cartCtl.Clear)
	protected.Post("/checkout", "checkout.confirm", cartCtl.Checkout,
		authz.RequirePermission("transaction.create"))
	protected.Post("/checkout/dismiss", "checkout.dismiss", cartCtl.Dismiss)
	protected.Get("/checkout/receipt", "checkout.receipt", cartCtl.Receipt)

	// Reports.
	protected.Get("/reports/summary", "reports.summary", reportCtl.Summary,
		authz.RequirePermission("transaction.read"))
	protected.Get("/reports/monthly", "reports.monthly", reportCtl.Monthly,
		authz.RequirePermission("transaction.read"))
	protected.Get("/reports/products", "reports.products", reportCtl.Products,
		authz.RequirePermission("transaction.read"))
	protected.Get("/reports/categories", "reports.categories", reportCtl.Categories,
		authz.RequirePermission("transaction.read"))

	// Read-only GraphQL over the catalog and ledger.
	protected.Post("/graphql", "graphql.query", graphqlCtl.Query,
		authz.RequirePermission("product.read"))

	// Live sales feed for dashboards.
	protectedWS := r.Group("/ws", authenticate)
	protectedWS.Get("/sales", "ws.sales", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, hub)
	})

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	// Dashboard pages are session-gated; anonymous visitors are redirected
	// to the login page with the original path preserved.
	dashboard := r.Group("/dashboard", middleware.PageGuard)
	dashboard.Get("/", "dashboard.home", serveDashboard)
	dashboard.Get("/*", "dashboard", serveDashboard)
	r.Get("/login", "login", serveLogin)
}

// serveDashboard is the mount point for the dashboard frontend. The Go
// server only enforces the session; rendering belongs to the SPA bundle.
func serveDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!doctype html><title>SimplePOS</title><div id=\"app\"></div>"))
}

func serveLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!doctype html><title>SimplePOS Login</title><div id=\"login\"></div>"))
}

// meHandler resolves the session leniently: a valid cookie yields the user,
// anything else yields a null user instead of 401.
func meHandler(users middleware.UserLoader, ctl *controllers.AuthController) http.HandlerFunc {
	optional := middleware.OptionalAuthenticate(users)
	return func(w http.ResponseWriter, r *http.Request) {
		optional(http.HandlerFunc(ctl.Me)).ServeHTTP(w, r)
	}
}
