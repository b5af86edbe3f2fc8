package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/claims-audit/app"
	"github.com/upb/claims-audit/handlers"
	"github.com/upb/claims-audit/middleware"
	"github.com/upb/claims-audit/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(chimiddleware.Recoverer)

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  func(*http.Request, string) bool { return true },
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api := apiRouter(deps)
	r.Mount("/", api)

	// serve under the proxy prefix too, whether or not the proxy strips it
	if prefix := deps.Config.Server.RootPath; prefix != "" {
		r.Mount(prefix, api)
	}

	return r
}

func apiRouter(deps *app.Dependencies) chi.Router {
	auditHandler := handlers.NewAuditHandler(deps.AuditService, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.AuditService, deps.Metrics != nil, deps.Logger)
	docsHandler := handlers.NewDocsHandler(deps.Logger)

	r := chi.NewRouter()

	r.Get("/", healthHandler.HandleRoot)
	r.Get("/health", healthHandler.HandleHealth)

	r.Post("/audit", auditHandler.HandleCreate)
	r.Get("/audit/{customer_id}", auditHandler.HandleListByCustomer)

	r.Get("/openapi.json", docsHandler.HandleOpenAPI)
	r.Get("/docs", docsHandler.HandleSwaggerUI)
	r.Get("/redoc", docsHandler.HandleRedoc)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w, "")
	})

	return r
}
