package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/config"
	"github.com/medhire/portal/internal/cv"
	"github.com/medhire/portal/internal/handler"
	"github.com/medhire/portal/internal/ratelimit"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/template"
)

func newLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Str("service", "medhire-portal").Logger()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		devLogger := newLogger("dev")
		devLogger.Fatal().Err(err).Msg("unable to load config")
	}
	logger := newLogger(cfg.Env)

	cache, err := backend.NewCache(cfg.CacheTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to create backend cache")
	}
	defer cache.Close()
	client := backend.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.BackendTimeout}, cache)

	drafts, err := cv.NewStore(cfg.DraftTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to create cv draft store")
	}
	defer drafts.Close()

	limiter, closeLimiter, err := ratelimit.New(cfg.RedisURL, cfg.LoginAttempts, cfg.LoginWindow)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to redis")
	}
	defer closeLimiter()

	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.Env != "dev"
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	svr := server.NewServer(
		cfg,
		mux.NewRouter(),
		template.NewTemplate(),
		sessionStore,
		client,
		limiter,
		logger,
	)

	handler.RegisterRoutes(svr, handler.NewRepositories(client, drafts))

	if err := svr.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
