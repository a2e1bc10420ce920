package handler

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/feeds"
	"github.com/gorilla/mux"

	"github.com/medhire/portal/internal/application"
	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/job"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/user"
	"github.com/medhire/portal/internal/validation"
)

const rssFeedSize = 20

var applicantRoles = []user.Role{user.RoleDoctor, user.RoleStudent}

func OpenJobsHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		jobs, err := repos.Job.OpenJobs(r.Context(), credentials(r))
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to list open jobs")
			return
		}
		renderTable(svr, w, r, map[string]interface{}{
			"Title":    "Open jobs",
			"BasePath": "/jobs",
			"Actions":  &Actions{View: true},
		}, jobs, job.Columns)
	}, applicantRoles...)
}

func applyView(rq job.ApplyRq, errs validation.FieldErrors) form.View {
	return form.View{
		Fields: []form.Field{
			form.Textarea("coverLetter", "Cover letter", rq.CoverLetter, false),
		},
		Errors: errs,
	}
}

func renderJobPage(svr server.Server, w http.ResponseWriter, r *http.Request, status int, j job.Job, view form.View) {
	u := svr.CurrentUser(r)
	svr.RenderPage(w, r, status, "job.html", map[string]interface{}{
		"Title":    j.Title,
		"Job":      j,
		"CanApply": j.IsOpen() && u.HasRole(string(user.RoleDoctor), string(user.RoleStudent)),
		"Form":     view,
	})
}

// JobPageHandler shows a job to anyone. Signed in users fetch it with their
// own credentials.
func JobPageHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		var creds backend.Credentials
		if u := svr.CurrentUser(r); u != nil {
			creds = u.Credentials()
		}
		j, err := repos.Job.PublicJobByID(r.Context(), creds, id)
		if err != nil {
			svr.BackendPageError(w, r, err, fmt.Sprintf("unable to get job %s", id))
			return
		}
		renderJobPage(svr, w, r, http.StatusOK, j, applyView(job.ApplyRq{}, nil))
	}
}

func ApplyToJobHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		var rq job.ApplyRq
		errs, err := form.Parse(r, &rq)
		if err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		if !errs.Empty() {
			j, err := repos.Job.PublicJobByID(r.Context(), credentials(r), id)
			if err != nil {
				svr.BackendPageError(w, r, err, fmt.Sprintf("unable to get job %s", id))
				return
			}
			renderJobPage(svr, w, r, http.StatusUnprocessableEntity, j, applyView(rq, errs))
			return
		}
		if err := repos.Job.Apply(r.Context(), credentials(r), id, rq); err != nil {
			svr.BackendActionError(w, r, err, fmt.Sprintf("unable to apply to job %s", id), fmt.Sprintf("/jobs/%s", id))
			return
		}
		svr.AddFlash(w, r, server.FlashSuccess, "Your application has been sent.")
		svr.Redirect(w, r, http.StatusSeeOther, "/applications")
	}, applicantRoles...)
}

func MyApplicationsHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		apps, err := repos.Application.Mine(r.Context(), credentials(r))
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to list applications")
			return
		}
		renderTable(svr, w, r, map[string]interface{}{
			"Title":    "My applications",
			"BasePath": "/applications",
		}, apps, application.Columns)
	}, applicantRoles...)
}

// latestJobs returns at most n jobs, newest first.
func latestJobs(jobs []job.Job, n int) []job.Job {
	out := make([]job.Job, len(jobs))
	copy(out, jobs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func ServeRSSFeed(svr server.Server, repos Repositories) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := repos.Job.OpenJobs(r.Context(), backend.Credentials{})
		if err != nil {
			svr.Log(err, "unable to retrieve jobs for RSS feed")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		cfg := svr.GetConfig()
		site := fmt.Sprintf("%s%s", cfg.URLProtocol, cfg.SiteHost)
		author := &feeds.Author{Name: cfg.SiteName, Email: cfg.SupportEmail}
		feed := &feeds.Feed{
			Title:       fmt.Sprintf("%s jobs", cfg.SiteName),
			Link:        &feeds.Link{Href: site},
			Description: fmt.Sprintf("Latest healthcare jobs on %s", cfg.SiteName),
			Author:      author,
			Created:     time.Now(),
		}
		for _, j := range latestJobs(jobs, rssFeedSize) {
			description := j.Description
			if salary := j.SalaryRange(); salary != "" {
				description += "\n\n**Salary:** " + salary
			}
			feed.Items = append(feed.Items, &feeds.Item{
				Id:          j.ID,
				Title:       fmt.Sprintf("%s - %s", j.Title, j.Location),
				Link:        &feeds.Link{Href: fmt.Sprintf("%s/jobs/%s/%s", site, j.ID, j.Slug())},
				Description: string(svr.MarkdownToHTML(description)),
				Author:      author,
				Created:     j.CreatedAt,
			})
		}
		rssFeed, err := feed.ToRss()
		if err != nil {
			svr.Log(err, "unable to convert rss feed to xml")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		svr.XML(w, http.StatusOK, []byte(rssFeed))
	}
}
