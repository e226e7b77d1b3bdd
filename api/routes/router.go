package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rizkypratama/warungpos/api/controllers"
	"github.com/rizkypratama/warungpos/api/middleware"
	"github.com/rizkypratama/warungpos/internal/pos"
	"github.com/rizkypratama/warungpos/internal/shipping"
	"github.com/rizkypratama/warungpos/internal/warehouse"
	"github.com/rizkypratama/warungpos/pkg/config"
	"github.com/rizkypratama/warungpos/pkg/db"
	"github.com/rizkypratama/warungpos/pkg/logger"
	"github.com/rizkypratama/warungpos/pkg/metrics"
	pkgredis "github.com/rizkypratama/warungpos/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	idemStore pkgredis.IdempotencyStore,
	registry *prometheus.Registry,
	requestMetrics *metrics.RequestMetrics,
	posService pos.Service,
	warehouseService warehouse.Service,
	shippingService shipping.Service,
) http.Handler {
	var redisP pkgredis.Pinger
	var limiter controllers.LoginLimiter
	if redisClient != nil {
		redisP = redisClient
		limiter = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(requestMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbP, redisP, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Post("/api/auth/login", controllers.Login(cfg.JWT, cfg.Auth, limiter, logg))

	// supplier callbacks authenticate out of band, not with operator tokens
	r.Route("/api/webhooks/supplier", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))
		r.Post("/shipments", controllers.SupplierShipmentReceived(shippingService, logg))
		r.Post("/shipments/{trackingCode}/status", controllers.SupplierShipmentStatus(shippingService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/pos/transactions", func(r chi.Router) {
			r.Post("/", controllers.OpenTransaction(posService, logg))
			r.Get("/", controllers.ListTransactions(posService, logg))
			r.Route("/{transactionId}", func(r chi.Router) {
				r.Get("/", controllers.GetTransaction(posService, logg))
				r.Post("/items", controllers.AddTransactionItem(posService, logg))
				r.Patch("/items/{sku}", controllers.SetTransactionItemQuantity(posService, logg))
				r.Post("/pay", controllers.PayTransaction(posService, logg))
				r.Post("/void", controllers.VoidTransaction(posService, logg))
			})
		})

		r.Route("/warehouse", func(r chi.Router) {
			r.Get("/catalog", controllers.Catalog(warehouseService, logg))
			r.Get("/stats", controllers.WarehouseStats(warehouseService, logg))
			r.Post("/restock", controllers.RestockProduct(warehouseService, logg))
			r.Post("/products", controllers.CreateProduct(warehouseService, logg))
			r.Get("/products/{sku}", controllers.GetProduct(warehouseService, logg))
			r.Patch("/products/{sku}", controllers.UpdateProduct(warehouseService, logg))
		})

		r.Route("/tracking", func(r chi.Router) {
			r.Get("/active", controllers.ActiveShipments(shippingService, logg))
			r.Get("/{trackingCode}", controllers.TrackShipment(shippingService, logg))
			r.Post("/{trackingCode}/delivered", controllers.ConfirmDelivery(shippingService, logg))
		})
	})

	return r
}
