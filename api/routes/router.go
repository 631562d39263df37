package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/festivawin/festiva-backend/api/controllers"
	"github.com/festivawin/festiva-backend/api/middleware"
	"github.com/festivawin/festiva-backend/internal/catalog"
	ledgersvc "github.com/festivawin/festiva-backend/internal/ledger"
	salessvc "github.com/festivawin/festiva-backend/internal/sales"
	sessionsvc "github.com/festivawin/festiva-backend/internal/session"
	"github.com/festivawin/festiva-backend/internal/settlement"
	"github.com/festivawin/festiva-backend/pkg/config"
	"github.com/festivawin/festiva-backend/pkg/db"
	"github.com/festivawin/festiva-backend/pkg/enums"
	"github.com/festivawin/festiva-backend/pkg/logger"
	pkgredis "github.com/festivawin/festiva-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      *pkgredis.Client
	Registry   *prometheus.Registry
	Sessions   sessionsvc.Service
	Catalog    catalog.Service
	Sales      salessvc.Service
	Ledgers    ledgersvc.Service
	Settlement settlement.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger(deps.Redis)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/active", controllers.SessionActive(deps.Sessions, logg))
			r.Get("/next", controllers.SessionNext(deps.Sessions, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(deps.Catalog, logg))
			r.Get("/{itemId}", controllers.CatalogItem(deps.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(idempotencyStore(deps.Redis), logg))

			r.Route("/vendor", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.UserRoleVendor)))
				r.Post("/deposits", controllers.VendorDeposit(deps.Settlement, logg))
				r.Get("/items", controllers.VendorListItems(deps.Catalog, logg))
				r.Patch("/items/{itemId}", controllers.VendorPatchItem(deps.Catalog, logg))
				r.Delete("/items/{itemId}", controllers.VendorDeleteItem(deps.Catalog, logg))
				r.Post("/items/{itemId}/restore", controllers.VendorRestoreItem(deps.Catalog, logg))
				r.Get("/ledger", controllers.VendorLedger(deps.Ledgers, logg))
				r.Get("/sales", controllers.VendorSales(deps.Sales, logg))
			})

			r.With(middleware.RequireRole(logg, string(enums.UserRoleBuyer))).
				Post("/checkout", controllers.Checkout(deps.Settlement, logg))

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", controllers.BuyerSales(deps.Sales, logg))
				r.Get("/{saleId}/lines", controllers.SaleLines(deps.Sales, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.UserRoleAdmin)))
				r.Get("/ledgers", controllers.AdminListLedgers(deps.Ledgers, logg))
			})
		})
	})

	return r
}

// idempotencyStore keeps a nil *Client from sneaking into the middleware as
// a non-nil interface.
func idempotencyStore(client *pkgredis.Client) pkgredis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}

func redisPinger(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
