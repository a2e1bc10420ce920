package handler

import (
	"fmt"
	"net/http"
	"strconv"

	humanize "github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/medhire/portal/internal/application"
	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/cv"
	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/job"
	"github.com/medhire/portal/internal/middleware"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/user"
	"github.com/medhire/portal/internal/validation"
)

const (
	cvDraftKey       = "cv_draft"
	msgDraftNotSaved = "Your progress could not be saved, please try again."
)

func countStatus(apps []application.Application, status application.Status) int64 {
	var n int64
	for _, a := range apps {
		if a.Status == status {
			n++
		}
	}
	return n
}

func DoctorDashboardHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		creds := u.Credentials()
		var (
			jobs  []job.Job
			apps  []application.Application
			hasCV bool
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) { jobs, err = repos.Job.OpenJobs(ctx, creds); return })
		g.Go(func() (err error) { apps, err = repos.Application.Mine(ctx, creds); return })
		g.Go(func() error {
			_, err := repos.CV.ForDoctor(ctx, creds, u.UserID)
			if backend.IsNotFound(err) {
				return nil
			}
			hasCV = err == nil
			return err
		})
		if err := g.Wait(); err != nil {
			svr.BackendPageError(w, r, err, "unable to load doctor dashboard")
			return
		}
		cvStatus := "Not submitted"
		if hasCV {
			cvStatus = "Submitted"
		} else if id, ok := svr.SessionGet(r, cvDraftKey); ok {
			if _, err := repos.Drafts.Get(u.UserID, id); err == nil {
				cvStatus = "In progress"
			}
		}
		svr.RenderPage(w, r, http.StatusOK, "dashboard.html", map[string]interface{}{
			"Title": "Doctor dashboard",
			"Cards": []Card{
				{Label: "Open jobs", Value: humanize.Comma(int64(len(jobs))), Link: "/jobs"},
				{Label: "My applications", Value: humanize.Comma(int64(len(apps))), Link: "/applications"},
				{Label: "Shortlisted", Value: humanize.Comma(countStatus(apps, application.StatusShortlisted)), Link: "/applications?f.status=shortlisted"},
				{Label: "CV", Value: cvStatus, Link: "/doctor/cv"},
			},
			"Links": []Link{
				{Label: "Update my CV", URL: "/doctor/cv/edit"},
				{Label: "Edit profile", URL: "/profile/edit"},
			},
		})
	}, user.RoleDoctor)
}

func MyCVHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		c, err := repos.CV.ForDoctor(r.Context(), u.Credentials(), u.UserID)
		if backend.IsNotFound(err) {
			svr.RenderPage(w, r, http.StatusOK, "record.html", map[string]interface{}{
				"Title":     "My CV",
				"Empty":     "You have not submitted a CV yet.",
				"EditURL":   "/doctor/cv/edit",
				"EditLabel": "Create my CV",
			})
			return
		}
		if err != nil {
			svr.BackendPageError(w, r, err, fmt.Sprintf("unable to get cv of doctor %s", u.UserID))
			return
		}
		svr.RenderPage(w, r, http.StatusOK, "record.html", map[string]interface{}{
			"Title":     "My CV",
			"Details":   c.Details(),
			"EditURL":   "/doctor/cv/edit",
			"EditLabel": "Update my CV",
			"BackURL":   "/doctor",
		})
	}, user.RoleDoctor)
}

// startDraft prefills a new draft from the doctor's submitted CV or, when
// there is none yet, from their profile.
func startDraft(r *http.Request, repos Repositories, u *middleware.UserJWT) (*cv.Draft, error) {
	creds := u.Credentials()
	c, err := repos.CV.ForDoctor(r.Context(), creds, u.UserID)
	if err == nil {
		return cv.DraftFromCV(c), nil
	}
	if !backend.IsNotFound(err) {
		return nil, err
	}
	d := cv.NewDraft()
	d.Personal.Name, d.Personal.Email = u.Name, u.Email
	p, err := repos.User.ProfileByID(r.Context(), creds, u.UserID)
	if err != nil {
		if backend.IsUnauthorized(err) {
			return nil, err
		}
		return d, nil
	}
	d.Personal = cv.Personal{Name: p.Name, Email: p.Email, Phone: p.Phone, City: p.City}
	d.Professional.Specialty = p.Specialty
	return d, nil
}

// loadDraft returns the draft whose id is kept in the session, starting one
// when there is none or it expired from the store.
func loadDraft(svr server.Server, r *http.Request, repos Repositories) (*cv.Draft, error) {
	u := currentUser(r)
	if id, ok := svr.SessionGet(r, cvDraftKey); ok {
		d, err := repos.Drafts.Get(u.UserID, id)
		if err == nil {
			return d, nil
		}
		if err != cv.ErrDraftNotFound {
			svr.Log(err, "discarding unreadable cv draft")
		}
	}
	return startDraft(r, repos, u)
}

// saveDraft stores d server side and only its id in the session cookie.
func saveDraft(svr server.Server, repos Repositories, w http.ResponseWriter, r *http.Request, d *cv.Draft) error {
	if err := repos.Drafts.Put(currentUser(r).UserID, d); err != nil {
		return err
	}
	return errors.Wrap(svr.SessionSet(w, r, cvDraftKey, d.ID), "unable to store cv draft id")
}

// draftNotSaved adds the form level error shown when saveDraft fails.
func draftNotSaved(err error, errs validation.FieldErrors) (int, validation.FieldErrors) {
	out := validation.FieldErrors{"form": msgDraftNotSaved}
	for k, v := range errs {
		out[k] = v
	}
	if errors.Cause(err) == cv.ErrDraftTooLarge {
		return http.StatusUnprocessableEntity, out
	}
	return http.StatusInternalServerError, out
}

func stepURL(s cv.Step) string {
	return fmt.Sprintf("/doctor/cv/step/%d", s)
}

func parseStep(r *http.Request) (cv.Step, bool) {
	n, err := strconv.Atoi(mux.Vars(r)["step"])
	if err != nil {
		return 0, false
	}
	s := cv.Step(n)
	return s, s.Valid()
}

func renderWizard(svr server.Server, w http.ResponseWriter, r *http.Request, status int, d *cv.Draft, s cv.Step, errs validation.FieldErrors) {
	data := map[string]interface{}{
		"Title":     "My CV",
		"Step":      s,
		"Draft":     d,
		"Steps":     cv.Steps,
		"StepTitle": s.Title(),
		"Review":    s == cv.StepReview,
		"Form":      form.View{Fields: d.Fields(s), Errors: errs},
	}
	if s == cv.StepReview {
		data["ReviewDetails"] = d.Preview().Details()
	}
	if msg := errs.Get("form"); msg != "" {
		data["Error"] = msg
	}
	svr.RenderPage(w, r, status, "cv-wizard.html", data)
}

// EditCVHandler opens the wizard at the first incomplete step.
func EditCVHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		d, err := loadDraft(svr, r, repos)
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to start cv draft")
			return
		}
		if err := saveDraft(svr, repos, w, r, d); err != nil {
			svr.Log(err, "unable to save cv draft")
			status, errs := draftNotSaved(err, nil)
			renderWizard(svr, w, r, status, d, d.Current(), errs)
			return
		}
		svr.Redirect(w, r, http.StatusFound, stepURL(d.Current()))
	}, user.RoleDoctor)
}

func CVStepHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		s, ok := parseStep(r)
		if !ok {
			svr.NotFound(w, r)
			return
		}
		d, err := loadDraft(svr, r, repos)
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to load cv draft")
			return
		}
		if !d.CanVisit(s) {
			svr.Redirect(w, r, http.StatusFound, stepURL(d.Current()))
			return
		}
		if err := saveDraft(svr, repos, w, r, d); err != nil {
			svr.Log(err, "unable to save cv draft")
			status, errs := draftNotSaved(err, nil)
			renderWizard(svr, w, r, status, d, s, errs)
			return
		}
		renderWizard(svr, w, r, http.StatusOK, d, s, nil)
	}, user.RoleDoctor)
}

// SaveCVStepHandler stores the posted step. The back action never
// validates, next keeps the doctor on the step until its input is valid.
func SaveCVStepHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		s, ok := parseStep(r)
		if !ok {
			svr.NotFound(w, r)
			return
		}
		d, err := loadDraft(svr, r, repos)
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to load cv draft")
			return
		}
		input := cv.Input(s)
		if input == nil {
			svr.Redirect(w, r, http.StatusSeeOther, stepURL(d.Current()))
			return
		}
		err = form.Decode(r, input)
		badInput, isInputErr := form.InputErrors(err)
		if err != nil && !isInputErr {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		var (
			next cv.Step
			errs validation.FieldErrors
		)
		switch {
		case r.PostForm.Get("action") == "back":
			next, err = d.Back(s, input)
			if err == nil && isInputErr {
				err = d.Hold(s, input)
			}
		case isInputErr:
			if !d.CanVisit(s) {
				svr.Redirect(w, r, http.StatusSeeOther, stepURL(d.Current()))
				return
			}
			next, errs, err = s, validation.Validate(input), d.Hold(s, input)
			for k, v := range badInput {
				errs[k] = v
			}
		default:
			next, errs, err = d.Advance(s, input)
		}
		if err != nil {
			svr.Log(err, "unable to store cv step")
			svr.TEXT(w, http.StatusBadRequest, "invalid cv step")
			return
		}
		if err := saveDraft(svr, repos, w, r, d); err != nil {
			svr.Log(err, "unable to save cv draft")
			status, errs := draftNotSaved(err, errs)
			renderWizard(svr, w, r, status, d, s, errs)
			return
		}
		if !errs.Empty() {
			renderWizard(svr, w, r, http.StatusUnprocessableEntity, d, s, errs)
			return
		}
		svr.Redirect(w, r, http.StatusSeeOther, stepURL(next))
	}, user.RoleDoctor)
}

// SubmitCVHandler sends the completed draft. The draft is only dropped once
// the backend accepted it.
func SubmitCVHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		id, ok := svr.SessionGet(r, cvDraftKey)
		if !ok {
			svr.Redirect(w, r, http.StatusSeeOther, "/doctor/cv/edit")
			return
		}
		d, err := repos.Drafts.Get(u.UserID, id)
		if err != nil {
			if err != cv.ErrDraftNotFound {
				svr.Log(err, "unable to read cv draft on submit")
			}
			svr.Redirect(w, r, http.StatusSeeOther, "/doctor/cv/edit")
			return
		}
		rq, err := d.SubmitRq(u.UserID)
		if err != nil {
			svr.AddFlash(w, r, server.FlashError, "Please complete every step before submitting your CV.")
			svr.Redirect(w, r, http.StatusSeeOther, stepURL(d.Current()))
			return
		}
		if err := repos.CV.Submit(r.Context(), u.Credentials(), rq); err != nil {
			svr.BackendActionError(w, r, err, fmt.Sprintf("unable to submit cv of doctor %s", u.UserID), stepURL(cv.StepReview))
			return
		}
		if err := repos.Drafts.Delete(u.UserID, d.ID); err != nil {
			svr.Log(err, "unable to drop submitted cv draft")
		}
		if err := svr.SessionDelete(w, r, cvDraftKey); err != nil {
			svr.Log(err, "unable to clear cv draft")
		}
		svr.AddFlash(w, r, server.FlashSuccess, "Your CV has been submitted.")
		svr.Redirect(w, r, http.StatusSeeOther, "/doctor/cv")
	}, user.RoleDoctor)
}
