package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/restaurant-backend/api/controllers"
	"github.com/angelmondragon/restaurant-backend/api/middleware"
	"github.com/angelmondragon/restaurant-backend/internal/cart"
	checkoutsvc "github.com/angelmondragon/restaurant-backend/internal/checkout"
	"github.com/angelmondragon/restaurant-backend/internal/menu"
	"github.com/angelmondragon/restaurant-backend/internal/reservations"
	"github.com/angelmondragon/restaurant-backend/internal/slots"
	"github.com/angelmondragon/restaurant-backend/pkg/config"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/metrics"
	"github.com/angelmondragon/restaurant-backend/pkg/redis"
	"github.com/angelmondragon/restaurant-backend/pkg/storage"
)

// NewRouter wires every HTTP route. idempotency may be nil, in which case
// Idempotency-Key headers are not enforced.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	storagePinger storage.Pinger,
	idempotency redis.IdempotencyStore,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	catalog *menu.Catalog,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	slotLoader *slots.Loader,
	reservationService reservations.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, storagePinger, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", controllers.MenuList(catalog))
		r.Get("/menu/items/{itemID}", controllers.MenuItem(catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Use(middleware.Idempotency(idempotency, logg))

			r.Get("/cart", controllers.CartFetch(cartService, logg))
			r.Delete("/cart", controllers.CartClear(cartService, logg))
			r.Post("/cart/items", controllers.CartAddItem(cartService, catalog, logg))
			r.Patch("/cart/items/{index}", controllers.CartUpdateQuantity(cartService, logg))
			r.Put("/cart/items/{index}/add-ons", controllers.CartUpdateAddOns(cartService, logg))
			r.Delete("/cart/items/{index}", controllers.CartRemoveLine(cartService, logg))

			r.Post("/checkout", controllers.CheckoutPlaceOrder(checkoutService, logg))
			r.Post("/checkout/validate", controllers.CheckoutValidate(checkoutService, logg))

			r.Get("/timeslots", controllers.Timeslots(slotLoader, logg))

			r.Post("/reservations", controllers.ReservationSubmit(reservationService, logg))
			r.Get("/reservations/confirmation", controllers.ReservationConfirmation(reservationService, logg))
			r.Get("/reservations/verify", controllers.ReservationVerify(reservationService, logg))
		})
	})

	return r
}
