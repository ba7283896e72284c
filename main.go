package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"karaoke-lyrics-go/cache"
	"karaoke-lyrics-go/circuitbreaker"
	"karaoke-lyrics-go/config"
	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/middleware"
	"karaoke-lyrics-go/session"
	"karaoke-lyrics-go/style"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

var conf = config.Get()

var (
	baseStyle = style.Default()
	sessions  = session.NewManager(session.DefaultTTL)

	localCache    *cache.BoltCache
	sharedCache   *cache.RedisCache
	redisBreaker  *circuitbreaker.CircuitBreaker
	documentCache *cache.Layered
	rateLimiter   *middleware.IPRateLimiter
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "preview" {
		if err := runPreview(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "preview:", err)
			os.Exit(1)
		}
		return
	}

	setupLogging(conf.Configuration.LogLevel)

	if err := setupCaches(); err != nil {
		log.Fatalf("%s %v", logcolors.LogCacheInit, err)
	}
	defer closeCaches()

	baseStyle = loadBaseStyle()
	sessions = session.NewManager(conf.SessionTTL())
	rateLimiter = newRateLimiter()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.Run(ctx, conf.SessionSweepInterval())
	go forgetIdleClients(ctx, rateLimiter)

	router := mux.NewRouter()
	setupRoutes(router, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + conf.Configuration.Port,
		Handler:           buildHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Infof("%s Shutting down", logcolors.LogServer)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("%s Shutdown: %v", logcolors.LogServer, err)
		}
	}()

	log.Infof("%s Listening on port %s", logcolors.LogServer, conf.Configuration.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("%s %v", logcolors.LogServer, err)
	}
}
