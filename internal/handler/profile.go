package handler

import (
	"net/http"
	"time"

	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/middleware"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/user"
	"github.com/medhire/portal/internal/validation"
)

func ProfilePageHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		p, err := repos.User.ProfileByID(r.Context(), u.Credentials(), u.UserID)
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to get profile "+u.UserID)
			return
		}
		svr.RenderPage(w, r, http.StatusOK, "record.html", map[string]interface{}{
			"Title":   "My profile",
			"Details": p.Details(),
			"EditURL": "/profile/edit",
			"BackURL": dashboardPath(u.Role),
		})
	})
}

func profileView(rq user.ProfileRq, errs validation.FieldErrors) form.View {
	return form.View{
		Title:  "Edit profile",
		Action: "/profile/edit",
		Submit: "Save",
		Cancel: "/profile",
		Fields: rq.Fields(),
		Errors: errs,
	}
}

func EditProfilePageHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		p, err := repos.User.ProfileByID(r.Context(), u.Credentials(), u.UserID)
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to get profile "+u.UserID)
			return
		}
		svr.RenderPage(w, r, http.StatusOK, "form.html", map[string]interface{}{
			"Title": "Edit profile",
			"Form":  profileView(user.NewProfileRq(p), nil),
		})
	})
}

// UpdateProfileHandler saves the profile and refreshes the name and email
// kept in the session claims.
func UpdateProfileHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		var rq user.ProfileRq
		errs, err := form.Parse(r, &rq)
		if err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		render := func(status int, errs validation.FieldErrors) {
			svr.RenderPage(w, r, status, "form.html", map[string]interface{}{
				"Title": "Edit profile",
				"Form":  profileView(rq, errs),
			})
		}
		if !errs.Empty() {
			render(http.StatusUnprocessableEntity, errs)
			return
		}
		rq.Phone = validation.NormalizePhone(rq.Phone)
		if err := repos.User.UpdateProfile(r.Context(), u.Credentials(), u.UserID, rq); err != nil {
			if svr.SignOutOnUnauthorized(w, r, err) {
				return
			}
			status := http.StatusUnprocessableEntity
			if !backend.IsClientError(err) {
				svr.Log(err, "unable to update profile "+u.UserID)
				status = http.StatusBadGateway
			}
			render(status, validation.FieldErrors{"form": backend.UserMessage(err)})
			return
		}
		if rq.Name != u.Name || rq.Email != u.Email {
			claims := middleware.NewUserJWT(u.UserID, rq.Name, rq.Email, u.Role, u.Token, time.Now().UTC())
			if err := middleware.SignIn(w, r, svr.SessionStore, svr.GetJWTSigningKey(), claims); err != nil {
				svr.Log(err, "unable to refresh session after profile update")
			}
		}
		svr.AddFlash(w, r, server.FlashSuccess, "Your profile has been updated.")
		svr.Redirect(w, r, http.StatusSeeOther, "/profile")
	})
}
