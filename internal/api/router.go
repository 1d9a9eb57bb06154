package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nohumanman/desc-comp-toolkit/internal/api/handler"
	"github.com/nohumanman/desc-comp-toolkit/internal/api/middleware"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage"
)

// RouterConfig holds configuration for the ops API router
type RouterConfig struct {
	Logger     *slog.Logger
	Store      storage.Store
	Sessions   handler.SessionDirectory
	AdminToken string
}

// NewRouter creates the ops API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.Sessions)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.Store)
	adminHandler := handler.NewAdminHandler(cfg.Store, cfg.Sessions)

	adminMiddleware := middleware.AdminAuth(cfg.AdminToken)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Read-only routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/{steam_id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/leaderboards/{trail}", leaderboardHandler.Get).Methods(http.MethodGet)

	// Moderation and configuration routes behind the admin token
	admin := api.NewRoute().Subrouter()
	admin.Use(adminMiddleware)
	admin.HandleFunc("/players/{steam_id}", playerHandler.Kick).Methods(http.MethodDelete)
	admin.HandleFunc("/players/{steam_id}/ban", adminHandler.SetBan).Methods(http.MethodPut)
	admin.HandleFunc("/players/{steam_id}/medals/{trail}", adminHandler.SetMedals).Methods(http.MethodPut)
	admin.HandleFunc("/trails/{trail}/max-start-speed", adminHandler.SetMaxStartSpeed).Methods(http.MethodPut)
	admin.HandleFunc("/worlds/{world}/start-bike", adminHandler.SetStartBike).Methods(http.MethodPut)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
