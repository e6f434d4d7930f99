package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/Akashpkm/STOCKMANAGEMENT/docs"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/http/handlers"
	mw "github.com/Akashpkm/STOCKMANAGEMENT/internal/http/middleware"
	rl "github.com/Akashpkm/STOCKMANAGEMENT/internal/http/rate_limiter"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/metrics"
)

type Options struct {
	Server  *handlers.Server
	Limiter *rl.Limiter
	Metrics *metrics.Registry
	Logger  *zap.Logger
}

func NewRouter(o Options) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logger(o.Logger, o.Metrics))
	r.Use(chimw.Recoverer)

	s := o.Server

	r.Get("/healthz", handlers.HealthHandler)
	if o.Metrics != nil {
		r.Handle("/metrics", o.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		if o.Limiter != nil {
			r.Use(o.Limiter.Middleware)
		}
		r.Post("/signup", s.SignupHandler)
		r.Post("/login", s.LoginHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(s.Auth()))

		r.Post("/logout", s.LogoutHandler)
		r.Get("/profile", s.ProfileHandler)
		r.Get("/catalog", s.GetCatalogHandler)
		r.Get("/dashboard", s.GetDashboardHandler)

		r.Get("/products", s.GetProductsHandler)
		r.Get("/products/{id}", s.GetProductByIDHandler)
		r.Get("/products/{id}/sync", s.GetSyncStatusHandler)
		r.Get("/products/{id}/sync/history", s.GetSyncHistoryHandler)
		r.Get("/products/{id}/parts/export", s.ExportPartsHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAdmin)
			r.Put("/products/{id}/parts", s.UpdatePartsHandler)
			r.Post("/products/{id}/parts/import", s.ImportPartsHandler)
			r.Post("/products/refresh", s.RefreshHandler)
		})
	})

	return r
}
