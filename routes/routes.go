package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"disfactory.tw/backoffice/handlers"
	"disfactory.tw/backoffice/middleware"
	"disfactory.tw/backoffice/pkg/logger"
	"disfactory.tw/backoffice/utils"
)

// Deps are what the router needs from main.
type Deps struct {
	Admin    *handlers.AdminHandler
	Auth     *middleware.Authenticator
	DB       handlers.Pinger
	Gatherer prometheus.Gatherer
	Log      *logger.Logger
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(d.Log))

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/healthz", handlers.Health(d.DB)).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods("GET")

	// =====================================================
	// Back-office Routes (require a staff token)
	// =====================================================
	api := r.PathPrefix("/admin").Subrouter()
	api.Use(d.Auth.Middleware)
	registerAdminRoutes(api, d.Admin)

	return r
}

func viewPermission(r *http.Request) string {
	return utils.Permission(mux.Vars(r)["entity"], utils.ActionView)
}

func actionPermission(r *http.Request) string {
	vars := mux.Vars(r)
	return utils.Permission(vars["entity"], vars["action"])
}

func registerAdminRoutes(api *mux.Router, h *handlers.AdminHandler) {
	view := middleware.RequirePermission(viewPermission)
	act := middleware.RequirePermission(actionPermission)

	api.HandleFunc("/", h.ListEntities).Methods("GET")
	api.Handle("/{entity}/", view(http.HandlerFunc(h.List))).Methods("GET")
	api.Handle("/{entity}/lookups", view(http.HandlerFunc(h.Lookups))).Methods("GET")
	api.Handle("/{entity}/actions/{action}", act(http.HandlerFunc(h.RunAction))).Methods("POST")
	api.Handle("/{entity}/{id}", view(http.HandlerFunc(h.Detail))).Methods("GET")
}
