package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	stdtemplate "html/template"

	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/config"
	"github.com/medhire/portal/internal/middleware"
	"github.com/medhire/portal/internal/ratelimit"
	"github.com/medhire/portal/internal/template"
)

const (
	FlashError   = "error"
	FlashSuccess = "success"
)

type Server struct {
	cfg          config.Config
	router       *mux.Router
	tmpl         *template.Template
	SessionStore *sessions.CookieStore
	Backend      *backend.Client
	Limiter      ratelimit.Limiter
	logger       zerolog.Logger
}

func NewServer(
	cfg config.Config,
	r *mux.Router,
	t *template.Template,
	sessionStore *sessions.CookieStore,
	client *backend.Client,
	limiter ratelimit.Limiter,
	logger zerolog.Logger,
) Server {
	if cfg.SentryDSN != "" {
		if err := raven.SetDSN(cfg.SentryDSN); err != nil {
			logger.Error().Err(err).Msg("unable to configure sentry")
		}
	}
	return Server{
		cfg:          cfg,
		router:       r,
		tmpl:         t,
		SessionStore: sessionStore,
		Backend:      client,
		Limiter:      limiter,
		logger:       logger,
	}
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) RegisterNotFound(handler http.HandlerFunc) {
	s.router.NotFoundHandler = handler
}

func (s Server) MarkdownToHTML(str string) stdtemplate.HTML {
	return s.tmpl.MarkdownToHTML(str)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) GetJWTSigningKey() []byte {
	return s.cfg.JwtSigningKey
}

// CurrentUser returns the signed in user, nil for anonymous visitors.
func (s Server) CurrentUser(r *http.Request) *middleware.UserJWT {
	u, err := middleware.GetUserFromJWT(r, s.SessionStore, s.cfg.JwtSigningKey)
	if err != nil {
		return nil
	}
	return u
}

// Render executes htmlView with data plus the values every page needs: site
// details, the signed in user and pending flash messages.
func (s Server) Render(w http.ResponseWriter, r *http.Request, status int, htmlView string, data map[string]interface{}) error {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["SiteName"] = s.cfg.SiteName
	data["SupportEmail"] = s.cfg.SupportEmail
	data["SiteHost"] = s.cfg.SiteHost
	if r != nil {
		data["User"] = s.CurrentUser(r)
		data["FlashErrors"] = s.Flashes(w, r, FlashError)
		data["FlashSuccesses"] = s.Flashes(w, r, FlashSuccess)
	}
	return s.tmpl.Render(w, status, htmlView, data)
}

// RenderPage renders htmlView and answers with a plain 500 when the template
// fails.
func (s Server) RenderPage(w http.ResponseWriter, r *http.Request, status int, htmlView string, data map[string]interface{}) {
	if err := s.Render(w, r, status, htmlView, data); err != nil {
		s.Log(err, fmt.Sprintf("unable to render %s", htmlView))
		s.TEXT(w, http.StatusInternalServerError, "Something went wrong while rendering this page.")
	}
}

// RenderMessage shows a standalone page carrying a single banner, used for
// 403, 404 and backend failures.
func (s Server) RenderMessage(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	s.RenderPage(w, r, status, "message.html", map[string]interface{}{
		"Title":   title,
		"Message": message,
		"Status":  status,
	})
}

func (s Server) Forbidden(w http.ResponseWriter, r *http.Request) {
	s.RenderMessage(w, r, http.StatusForbidden, "Access denied", "Your account does not have access to this page.")
}

func (s Server) NotFound(w http.ResponseWriter, r *http.Request) {
	s.RenderMessage(w, r, http.StatusNotFound, "Not found", "The page you are looking for does not exist.")
}

// SignOutOnUnauthorized ends the session and sends the user to the sign in
// page when err is a backend 401. The session is gone, so the reason travels
// in the query string rather than as a flash. It reports whether it did so.
func (s Server) SignOutOnUnauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !backend.IsUnauthorized(err) {
		return false
	}
	if serr := middleware.SignOut(w, r, s.SessionStore); serr != nil {
		s.Log(serr, "unable to clear session after backend 401")
	}
	s.Redirect(w, r, http.StatusFound, middleware.ExpiredLoginURL(r))
	return true
}

// BackendPageError answers a page request whose backend read failed.
func (s Server) BackendPageError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if s.SignOutOnUnauthorized(w, r, err) {
		return
	}
	if backend.IsNotFound(err) {
		s.NotFound(w, r)
		return
	}
	s.Log(err, msg)
	s.RenderMessage(w, r, http.StatusBadGateway, "Something went wrong", backend.UserMessage(err))
}

// BackendActionError answers a form submission whose backend call failed by
// flashing the reason and redirecting to dst.
func (s Server) BackendActionError(w http.ResponseWriter, r *http.Request, err error, msg, dst string) {
	if s.SignOutOnUnauthorized(w, r, err) {
		return
	}
	s.Log(err, msg)
	s.AddFlash(w, r, FlashError, backend.UserMessage(err))
	s.Redirect(w, r, http.StatusSeeOther, dst)
}

func (s Server) XML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	w.Write(data)
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

// Log reports err to Sentry when configured and logs it. 4xx answers of the
// backend are expected outcomes and only logged.
func (s Server) Log(err error, msg string) {
	if s.cfg.SentryDSN != "" && !backend.IsClientError(err) {
		raven.CaptureError(err, map[string]string{"ctx": msg})
	}
	s.logger.Error().Err(err).Msg(msg)
}

func (s Server) Logger() zerolog.Logger {
	return s.logger
}

func (s Server) Redirect(w http.ResponseWriter, r *http.Request, status int, dst string) {
	http.Redirect(w, r, dst, status)
}

// Handler is the router wrapped in the middleware chain.
func (s Server) Handler() http.Handler {
	return middleware.HTTPSMiddleware(
		middleware.GzipMiddleware(
			middleware.LoggingMiddleware(middleware.HeadersMiddleware(s.router, s.cfg.Env), s.logger),
		),
		s.cfg.Env,
	)
}

func (s Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		s.logger.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.BackendTimeout + 20*time.Second,
	}
	return srv.ListenAndServe()
}
