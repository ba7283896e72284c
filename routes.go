package main

import (
	"net/http"

	"karaoke-lyrics-go/middleware"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes. Parsing sits on the parse tier of
// the rate limiter, per-tick reads on the tick tier; cache and breaker
// administration sit behind the API key.
func setupRoutes(router *mux.Router, limiter *middleware.IPRateLimiter) {
	parseTier := middleware.RateLimit(limiter, middleware.TierParse)
	tickTier := middleware.RateLimit(limiter, middleware.TierTick)

	router.HandleFunc("/", helpHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", getHealthStatus).Methods(http.MethodGet)
	router.HandleFunc("/stats", getStats).Methods(http.MethodGet)
	router.HandleFunc("/presets", listPresetsHandler).Methods(http.MethodGet)
	router.HandleFunc("/presets/{name}", getPresetHandler).Methods(http.MethodGet)

	router.Handle("/parse", parseTier(http.HandlerFunc(parseHandler))).Methods(http.MethodPost)

	// Sessions
	router.Handle("/sessions", parseTier(http.HandlerFunc(createSessionHandler))).Methods(http.MethodPost)
	router.Handle("/sessions/{id}", tickTier(withSession(getSessionHandler))).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}", deleteSessionHandler).Methods(http.MethodDelete)
	router.Handle("/sessions/{id}/state", tickTier(withSession(sessionStateHandler))).Methods(http.MethodGet)
	router.Handle("/sessions/{id}/characters", tickTier(withSession(sessionCharactersHandler))).Methods(http.MethodGet)
	router.Handle("/sessions/{id}/preview", tickTier(withSession(sessionPreviewHandler))).Methods(http.MethodGet)
	router.Handle("/sessions/{id}/config", parseTier(withSession(updateSessionConfigHandler))).Methods(http.MethodPut)
	router.Handle("/sessions/{id}/stream", tickTier(withSession(streamHandler))).Methods(http.MethodGet)

	admin := middleware.APIKeyMiddleware(conf.Configuration.APIKey, conf.Configuration.APIKeyRequired, nil)

	cacheRouter := router.PathPrefix("/cache").Subrouter()
	cacheRouter.Use(cacheAccess())
	cacheRouter.HandleFunc("", getCacheDump).Methods(http.MethodGet)
	cacheRouter.HandleFunc("/backup", backupCache).Methods(http.MethodPost)
	cacheRouter.HandleFunc("/clear", clearCache).Methods(http.MethodPost)
	cacheRouter.HandleFunc("/backups", listBackups).Methods(http.MethodGet)
	cacheRouter.HandleFunc("/backups/{file}", deleteBackup).Methods(http.MethodDelete)
	cacheRouter.HandleFunc("/restore", restoreCache).Methods(http.MethodPost)

	breakerRouter := router.PathPrefix("/circuit-breaker").Subrouter()
	breakerRouter.Use(admin)
	breakerRouter.HandleFunc("", getCircuitBreakerStatus).Methods(http.MethodGet)
	breakerRouter.HandleFunc("/reset", resetCircuitBreaker).Methods(http.MethodPost)
}

// cacheAccess guards cache administration. CACHE_ACCESS_KEY, when set,
// replaces API_KEY for these routes and is always required.
func cacheAccess() func(http.Handler) http.Handler {
	c := conf.Configuration
	if c.CacheAccessKey != "" {
		return middleware.APIKeyMiddleware(c.CacheAccessKey, true, nil)
	}
	return middleware.APIKeyMiddleware(c.APIKey, c.APIKeyRequired, nil)
}
