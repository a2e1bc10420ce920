package handler

import (
	"context"
	"fmt"
	"net/http"

	humanize "github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"github.com/medhire/portal/internal/application"
	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/job"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/user"
	"github.com/medhire/portal/internal/validation"
)

func RecruiterDashboardHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		jobs, err := repos.Job.RecruiterJobs(r.Context(), credentials(r))
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to load recruiter dashboard")
			return
		}
		counts := map[job.Status]int64{}
		for _, j := range jobs {
			counts[j.Status]++
		}
		svr.RenderPage(w, r, http.StatusOK, "dashboard.html", map[string]interface{}{
			"Title": "Recruiter dashboard",
			"Cards": []Card{
				{Label: "Jobs posted", Value: humanize.Comma(int64(len(jobs))), Link: "/recruiter/jobs"},
				{Label: "Open", Value: humanize.Comma(counts[job.StatusOpen]), Link: "/recruiter/jobs?f.status=open"},
				{Label: "Pending", Value: humanize.Comma(counts[job.StatusPending]), Link: "/recruiter/jobs?f.status=pending"},
				{Label: "Closed", Value: humanize.Comma(counts[job.StatusClosed]), Link: "/recruiter/jobs?f.status=closed"},
			},
			"Links": []Link{
				{Label: "Post a job", URL: "/recruiter/jobs/new"},
				{Label: "Export my jobs", URL: "/recruiter/jobs/export?format=xlsx"},
				{Label: "Edit profile", URL: "/profile/edit"},
			},
		})
	}, user.RoleRecruiter)
}

// RegisterRecruiterJobs mounts the recruiter's own job table.
func RegisterRecruiterJobs(svr server.Server, repos Repositories) {
	managed[job.Job, job.JobRq]{
		Title:    "My jobs",
		Singular: "job",
		Path:     "/recruiter/jobs",
		Columns:  job.Columns,
		List:     repos.Job.RecruiterJobs,
		Get:      repos.Job.RecruiterJobByID,
		Load:     job.NewJobRq,
		Create: func(ctx context.Context, creds backend.Credentials, rq job.JobRq) error {
			_, err := repos.Job.CreateJob(ctx, creds, rq)
			return err
		},
		Update:   repos.Job.UpdateRecruiterJob,
		Delete:   repos.Job.DeleteRecruiterJob,
		Markdown: func(j job.Job) string { return j.Description },
		Extra:    &RowLink{Label: "Applications", Path: "applications"},
	}.register(svr, string(user.RoleRecruiter))

	svr.RegisterRoute("/recruiter/jobs/{id}/applications", JobApplicationsHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/recruiter/jobs/{id}/applications/export", ExportJobApplicationsHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/recruiter/applications/{id}/status", ApplicationStatusHandler(svr, repos), []string{"POST"})
}

func JobApplicationsHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		creds := credentials(r)
		j, err := repos.Job.RecruiterJobByID(r.Context(), creds, id)
		if err != nil {
			svr.BackendPageError(w, r, err, fmt.Sprintf("unable to get job %s", id))
			return
		}
		apps, err := repos.Application.ForJob(r.Context(), creds, id)
		if err != nil {
			svr.BackendPageError(w, r, err, fmt.Sprintf("unable to list applications for job %s", id))
			return
		}
		base := fmt.Sprintf("/recruiter/jobs/%s/applications", id)
		renderTable(svr, w, r, map[string]interface{}{
			"Title":      fmt.Sprintf("Applications for %s", j.Title),
			"BasePath":   base,
			"ExportPath": base + "/export",
			"Actions": &Actions{
				Statuses:   application.Statuses,
				StatusPath: "/recruiter/applications",
				Back:       r.URL.RequestURI(),
			},
		}, apps, application.Columns)
	}, user.RoleRecruiter)
}

func ExportJobApplicationsHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		apps, err := repos.Application.ForJob(r.Context(), credentials(r), id)
		if err != nil {
			svr.BackendPageError(w, r, err, fmt.Sprintf("unable to export applications for job %s", id))
			return
		}
		writeExport(svr, w, r, "Applications", apps, application.Columns)
	}, user.RoleRecruiter)
}

func ApplicationStatusHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		var rq application.StatusRq
		if err := form.Decode(r, &rq); err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		back := localPath(r.PostForm.Get("back"), "/recruiter/jobs")
		if errs := validation.Validate(rq); !errs.Empty() {
			svr.AddFlash(w, r, server.FlashError, "Please choose one of the available statuses.")
			svr.Redirect(w, r, http.StatusSeeOther, back)
			return
		}
		if err := repos.Application.UpdateStatus(r.Context(), credentials(r), id, rq.Status); err != nil {
			svr.BackendActionError(w, r, err, fmt.Sprintf("unable to update application %s", id), back)
			return
		}
		svr.AddFlash(w, r, server.FlashSuccess, fmt.Sprintf("Application marked as %s.", rq.Status))
		svr.Redirect(w, r, http.StatusSeeOther, back)
	}, user.RoleRecruiter)
}
