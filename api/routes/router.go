package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohamed-hwerthi/easy-pos/api/controllers"
	"github.com/mohamed-hwerthi/easy-pos/api/middleware"
	cartsvc "github.com/mohamed-hwerthi/easy-pos/internal/cart"
	"github.com/mohamed-hwerthi/easy-pos/internal/catalog"
	"github.com/mohamed-hwerthi/easy-pos/internal/history"
	ordersvc "github.com/mohamed-hwerthi/easy-pos/internal/orders"
	"github.com/mohamed-hwerthi/easy-pos/internal/paymentmethods"
	"github.com/mohamed-hwerthi/easy-pos/internal/register"
	tablesvc "github.com/mohamed-hwerthi/easy-pos/internal/tables"
	"github.com/mohamed-hwerthi/easy-pos/pkg/backend"
	"github.com/mohamed-hwerthi/easy-pos/pkg/config"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	pkgredis "github.com/mohamed-hwerthi/easy-pos/pkg/redis"
)

// NewRouter wires the terminal's HTTP surface. Health, metrics and login are
// open; everything else requires a signed-in cashier.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	client *backend.Client,
	redisClient *pkgredis.Client,
	registerService register.Service,
	cartService cartsvc.Service,
	tableService tablesvc.Service,
	orderService ordersvc.Service,
	catalogService catalog.Service,
	paymentMethodService paymentmethods.Service,
	historyService history.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.Login(client, registerService, logg))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.RequireSignIn(client, logg),
				middleware.Idempotency(idempotencyStore, logg),
			)

			r.Post("/auth/logout", controllers.Logout(client, registerService, logg))

			r.Get("/products", controllers.ProductBrowse(catalogService, logg))
			r.Get("/categories", controllers.CategoryList(catalogService, logg))
			r.Get("/payment-methods", controllers.PaymentMethodList(paymentMethodService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Put("/items", controllers.CartSetQuantity(cartService, logg))
				r.Delete("/items", controllers.CartRemoveItem(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(cartService, orderService, logg))
			r.Post("/payments", controllers.PaymentApply(tableService, logg))

			r.Route("/tables", func(r chi.Router) {
				r.Get("/", controllers.TableList(tableService, logg))
				r.Post("/", controllers.TableCreate(tableService, logg))
				r.Get("/statistics", controllers.TableStatistics(tableService, logg))

				r.Route("/{tableID}", func(r chi.Router) {
					r.Get("/", controllers.TableDetail(tableService, logg))
					r.Put("/", controllers.TableUpdate(tableService, logg))
					r.Delete("/", controllers.TableDelete(tableService, logg))
					r.Patch("/occupy", controllers.TableOccupy(tableService, logg))
					r.Put("/clear", controllers.TableClear(tableService, logg))
					r.Post("/orders", controllers.TableCheckout(cartService, orderService, logg))
					r.Post("/clients", controllers.ClientAdd(tableService, logg))
					r.Put("/clients/{clientID}", controllers.ClientRename(tableService, logg))
					r.Delete("/clients/{clientID}", controllers.ClientRemove(tableService, logg))
					r.Get("/clients/{clientID}/payments", controllers.ClientPaymentList(tableService, logg))
				})
			})

			r.Route("/register", func(r chi.Router) {
				r.Get("/", controllers.RegisterStatus(registerService, logg))
				r.Post("/open", controllers.RegisterOpen(registerService, logg))
				r.Post("/close", controllers.RegisterClose(registerService, logg))
				r.Get("/movements", controllers.MovementList(registerService, logg))
				r.Post("/movements", controllers.MovementRecord(registerService, logg))
			})

			r.Route("/history", func(r chi.Router) {
				r.Get("/orders", controllers.HistorySales(historyService, logg))
				r.Get("/orders/{orderID}/receipt", controllers.HistoryReceipt(historyService, logg))
			})
		})
	})

	return r
}
