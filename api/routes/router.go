package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brewpoint/kiosk/api/controllers"
	"github.com/brewpoint/kiosk/api/middleware"
	cartsvc "github.com/brewpoint/kiosk/internal/cart"
	checkoutsvc "github.com/brewpoint/kiosk/internal/checkout"
	"github.com/brewpoint/kiosk/internal/identity"
	sessionsvc "github.com/brewpoint/kiosk/internal/session"
	"github.com/brewpoint/kiosk/pkg/config"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/menuapi"
	"github.com/brewpoint/kiosk/pkg/orderapi"
	"github.com/brewpoint/kiosk/pkg/state"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	stateStore state.Store,
	menuClient *menuapi.Client,
	orderClient *orderapi.Client,
	cartStore *cartsvc.Store,
	checkoutService *checkoutsvc.Service,
	identityManager *identity.Manager,
	sessions *sessionsvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	guard := sessionsvc.NewGuard(sessions)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, stateStore))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/categories", controllers.MenuCategories(menuClient, logg))
			r.Get("/categories/{categoryId}/products", controllers.MenuProducts(menuClient, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartStore, logg))
			r.Delete("/", controllers.CartClear(cartStore, logg))
			r.Post("/items", controllers.CartAddItem(cartStore, logg))
			r.Post("/items/{productId}/increase", controllers.CartIncrease(cartStore, logg))
			r.Post("/items/{productId}/decrease", controllers.CartDecrease(cartStore, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartStore, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, cartStore, logg))
		r.Get("/orders", controllers.OrderHistory(orderClient, identityManager, logg))
		r.Get("/customer", controllers.Customer(identityManager, logg))
		r.Delete("/customer", controllers.CustomerReset(identityManager, logg))

		r.Route("/session", func(r chi.Router) {
			r.Post("/", controllers.SessionLogin(sessions, logg))
			r.Delete("/", controllers.SessionLogout(sessions, logg))
			r.Get("/", controllers.SessionStatus(sessions, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(guard, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCategoryCreate(menuClient, sessions, logg))
			r.Put("/{categoryId}", controllers.AdminCategoryUpdate(menuClient, sessions, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(menuClient, sessions, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(menuClient, sessions, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(menuClient, sessions, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(menuClient, sessions, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(orderClient, sessions, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(orderClient, sessions, logg))
			r.Put("/{orderId}/status", controllers.AdminOrderStatus(orderClient, sessions, logg))
			r.Delete("/{orderId}", controllers.AdminOrderDelete(orderClient, sessions, logg))
		})
	})

	return r
}
