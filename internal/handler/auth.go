package handler

import (
	"net/http"
	"time"

	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/middleware"
	"github.com/medhire/portal/internal/ratelimit"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/user"
	"github.com/medhire/portal/internal/validation"
)

const (
	msgInvalidLogin = "Invalid email, password or role."
	msgTooManyLogin = "Too many sign in attempts, please try again later."

	msgSessionExpired = "Your session has expired, please sign in again."
)

func loginView(rq user.LoginRq, errs validation.FieldErrors) form.View {
	return form.View{
		Title:  "Sign in",
		Action: "/auth",
		Submit: "Sign in",
		Fields: []form.Field{
			form.Email("email", "Email", rq.Email),
			form.Password("password", "Password"),
			form.Select("role", "Sign in as", string(rq.Role), user.Roles),
		},
		Errors: errs,
	}
}

func IndexPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := svr.CurrentUser(r)
		if u == nil {
			svr.Redirect(w, r, http.StatusFound, "/auth")
			return
		}
		svr.Redirect(w, r, http.StatusFound, dashboardPath(u.Role))
	}
}

func GetAuthPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := r.URL.Query().Get("next")
		if u := svr.CurrentUser(r); u != nil {
			svr.Redirect(w, r, http.StatusFound, localPath(next, dashboardPath(u.Role)))
			return
		}
		data := map[string]interface{}{
			"Title": "Sign in",
			"Next":  localPath(next, ""),
			"Form":  loginView(user.LoginRq{}, nil),
		}
		if r.URL.Query().Get("expired") == "1" {
			data["Error"] = msgSessionExpired
		}
		svr.RenderPage(w, r, http.StatusOK, "auth.html", data)
	}
}

func PostAuthPageHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rq := user.LoginRq{}
		errs, err := form.Parse(r, &rq)
		if err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		next := localPath(r.PostFormValue("next"), "")
		render := func(status int, errs validation.FieldErrors, msg string) {
			svr.RenderPage(w, r, status, "auth.html", map[string]interface{}{
				"Title": "Sign in",
				"Next":  next,
				"Form":  loginView(rq, errs),
				"Error": msg,
			})
		}
		if svr.Limiter != nil && !svr.Limiter.Allow(r.Context(), "login:"+ratelimit.ClientIP(r, svr.GetConfig().TrustedProxies)) {
			render(http.StatusTooManyRequests, nil, msgTooManyLogin)
			return
		}
		if !errs.Empty() {
			render(http.StatusUnprocessableEntity, errs, "")
			return
		}
		sess, err := userRepo.Login(r.Context(), rq)
		switch {
		case err == user.ErrInvalidLogin || backend.IsClientError(err):
			render(http.StatusUnauthorized, nil, msgInvalidLogin)
			return
		case err != nil:
			svr.Log(err, "unable to log in")
			render(http.StatusBadGateway, nil, backend.UserMessage(err))
			return
		}
		if sess.User.Role != rq.Role {
			render(http.StatusUnauthorized, nil, msgInvalidLogin)
			return
		}
		claims := middleware.NewUserJWT(sess.User.ID, sess.User.Name, sess.User.Email, string(sess.User.Role), sess.Token, time.Now().UTC())
		if err := middleware.SignIn(w, r, svr.SessionStore, svr.GetJWTSigningKey(), claims); err != nil {
			svr.Log(err, "unable to save jwt into session cookie")
			render(http.StatusInternalServerError, nil, "Unable to sign you in, please try again.")
			return
		}
		svr.Redirect(w, r, http.StatusSeeOther, localPath(next, dashboardPath(string(sess.User.Role))))
	}
}

func LogoutHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := middleware.SignOut(w, r, svr.SessionStore); err != nil {
			svr.Log(err, "unable to clear session")
		}
		svr.Redirect(w, r, http.StatusSeeOther, "/auth")
	}
}

func registerView(rq user.RegisterRq, errs validation.FieldErrors) form.View {
	return form.View{
		Title:  "Create your account",
		Action: "/register",
		Submit: "Register",
		Cancel: "/auth",
		Fields: rq.Fields(),
		Errors: errs,
	}
}

func GetRegisterPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rq := user.RegisterRq{Role: user.Role(r.URL.Query().Get("role"))}
		svr.RenderPage(w, r, http.StatusOK, "form.html", map[string]interface{}{
			"Title": "Register",
			"Form":  registerView(rq, nil),
		})
	}
}

func PostRegisterPageHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rq := user.RegisterRq{}
		errs, err := form.Parse(r, &rq)
		if err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		render := func(status int, errs validation.FieldErrors) {
			svr.RenderPage(w, r, status, "form.html", map[string]interface{}{
				"Title": "Register",
				"Form":  registerView(rq, errs),
			})
		}
		if !errs.Empty() {
			render(http.StatusUnprocessableEntity, errs)
			return
		}
		rq.Phone = validation.NormalizePhone(rq.Phone)
		if err := userRepo.Register(r.Context(), rq); err != nil {
			status := http.StatusUnprocessableEntity
			if !backend.IsClientError(err) {
				svr.Log(err, "unable to register user")
				status = http.StatusBadGateway
			}
			render(status, validation.FieldErrors{"form": backend.UserMessage(err)})
			return
		}
		svr.AddFlash(w, r, server.FlashSuccess, "Your account has been created, please sign in.")
		svr.Redirect(w, r, http.StatusSeeOther, "/auth")
	}
}
