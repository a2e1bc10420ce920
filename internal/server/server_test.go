package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/config"
	"github.com/medhire/portal/internal/middleware"
	"github.com/medhire/portal/internal/template"
)

func newTestServer() Server {
	cfg := config.Config{
		Env:           "dev",
		SiteName:      "MedHire",
		SupportEmail:  "help@medhire.test",
		JwtSigningKey: []byte("server-test-key"),
	}
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	return NewServer(cfg, mux.NewRouter(), template.NewTemplate(), store, nil, nil, zerolog.Nop())
}

func withCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestFlashesArePoppedOnce(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.AddFlash(rec, httptest.NewRequest(http.MethodPost, "/", nil), FlashSuccess, "Saved.")

	req := withCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	next := httptest.NewRecorder()
	assert.Empty(t, s.Flashes(next, req, FlashError))
	assert.Equal(t, []string{"Saved."}, s.Flashes(next, req, FlashSuccess))

	again := withCookies(httptest.NewRequest(http.MethodGet, "/", nil), next)
	assert.Empty(t, s.Flashes(httptest.NewRecorder(), again, FlashSuccess))
}

func TestSessionValues(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	require.NoError(t, s.SessionSet(rec, httptest.NewRequest(http.MethodGet, "/", nil), "cv_draft", `{"id":"x"}`))

	req := withCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	v, ok := s.SessionGet(req, "cv_draft")
	require.True(t, ok)
	assert.Equal(t, `{"id":"x"}`, v)

	del := httptest.NewRecorder()
	require.NoError(t, s.SessionDelete(del, req, "cv_draft"))
	_, ok = s.SessionGet(withCookies(httptest.NewRequest(http.MethodGet, "/", nil), del), "cv_draft")
	assert.False(t, ok)
}

func TestBackendPageError(t *testing.T) {
	s := newTestServer()
	tests := []struct {
		name     string
		err      error
		status   int
		location string
		body     string
	}{
		{"not found", &backend.APIError{Status: http.StatusNotFound}, http.StatusNotFound, "", "does not exist"},
		{"server error", &backend.APIError{Status: http.StatusInternalServerError}, http.StatusBadGateway, "", "please try again later"},
		{"unreachable", &backend.TransportError{Method: "GET", Path: "/x", Err: http.ErrHandlerTimeout}, http.StatusBadGateway, "", "unavailable"},
		{"unauthorized", &backend.APIError{Status: http.StatusUnauthorized}, http.StatusFound, "/auth?expired=1&next=%2Fadmin%2Fjobs", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.BackendPageError(rec, httptest.NewRequest(http.MethodGet, "/admin/jobs", nil), tt.err, "test")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestBackendActionErrorFlashesAndRedirects(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.BackendActionError(rec, httptest.NewRequest(http.MethodPost, "/jobs/j1/apply", nil),
		&backend.APIError{Status: http.StatusConflict, Message: "Already applied"}, "test", "/jobs/j1")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/jobs/j1", rec.Header().Get("Location"))

	req := withCookies(httptest.NewRequest(http.MethodGet, "/jobs/j1", nil), rec)
	assert.Equal(t, []string{"Already applied"}, s.Flashes(httptest.NewRecorder(), req, FlashError))
}

func TestRenderIncludesSignedInUser(t *testing.T) {
	s := newTestServer()
	signIn := httptest.NewRecorder()
	claims := middleware.NewUserJWT("a1", "Asha Menon", "asha@example.org", "admin", "tk", time.Now())
	require.NoError(t, middleware.SignIn(signIn, httptest.NewRequest(http.MethodGet, "/", nil), s.SessionStore, s.GetJWTSigningKey(), claims))

	rec := httptest.NewRecorder()
	s.Forbidden(rec, withCookies(httptest.NewRequest(http.MethodGet, "/admin", nil), signIn))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Access denied")
	assert.Contains(t, body, "Asha Menon")
	assert.Contains(t, body, "help@medhire.test")
}
