package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipline/shipline/internal/customers"
	"github.com/shipline/shipline/internal/orders"
	"github.com/shipline/shipline/internal/packages"
	"github.com/shipline/shipline/internal/pickup"
	"github.com/shipline/shipline/internal/pricing"
	"github.com/shipline/shipline/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	IdentityStore *shared.IdentityStore
	Pool          *pgxpool.Pool

	PricingHandler   *pricing.Handler
	PickupHandler    *pickup.Handler
	OrdersHandler    *orders.Handler
	PackagesHandler  *packages.Handler
	CustomersHandler *customers.Handler
}

// NewRouter constructs the chi.Router with Shipline defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:        params.Logger,
		Config:        params.Config,
		IdentityStore: params.IdentityStore,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/pricing", params.PricingHandler.MountRoutes)
	r.Route("/pickup-requests", params.PickupHandler.MountRoutes)
	r.Route("/orders", params.OrdersHandler.MountRoutes)
	r.Route("/packages", params.PackagesHandler.MountRoutes)
	r.Route("/extra-fees", params.PackagesHandler.MountExtraFeeRoutes)
	r.Route("/customers", params.CustomersHandler.MountRoutes)

	return r
}
