package handler

import (
	"net/http"

	humanize "github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/medhire/portal/internal/application"
	"github.com/medhire/portal/internal/job"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/user"
)

func StudentDashboardHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		creds := credentials(r)
		var (
			jobs []job.Job
			apps []application.Application
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) { jobs, err = repos.Job.OpenJobs(ctx, creds); return })
		g.Go(func() (err error) { apps, err = repos.Application.Mine(ctx, creds); return })
		if err := g.Wait(); err != nil {
			svr.BackendPageError(w, r, err, "unable to load student dashboard")
			return
		}
		svr.RenderPage(w, r, http.StatusOK, "dashboard.html", map[string]interface{}{
			"Title": "Student dashboard",
			"Cards": []Card{
				{Label: "Open jobs", Value: humanize.Comma(int64(len(jobs))), Link: "/jobs"},
				{Label: "Internships", Value: humanize.Comma(int64(countJobType(jobs, "internship"))), Link: "/jobs?f.type=internship"},
				{Label: "My applications", Value: humanize.Comma(int64(len(apps))), Link: "/applications"},
				{Label: "Shortlisted", Value: humanize.Comma(countStatus(apps, application.StatusShortlisted)), Link: "/applications?f.status=shortlisted"},
			},
			"Links": []Link{
				{Label: "Edit profile", URL: "/profile/edit"},
			},
		})
	}, user.RoleStudent)
}

func countJobType(jobs []job.Job, jobType string) int {
	n := 0
	for _, j := range jobs {
		if j.JobType == jobType {
			n++
		}
	}
	return n
}
