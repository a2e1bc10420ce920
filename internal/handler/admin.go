package handler

import (
	"net/http"

	"github.com/aclements/go-moremath/stats"
	humanize "github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/medhire/portal/internal/admin"
	"github.com/medhire/portal/internal/cv"
	"github.com/medhire/portal/internal/doctor"
	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/institute"
	"github.com/medhire/portal/internal/job"
	"github.com/medhire/portal/internal/recruiter"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/student"
	"github.com/medhire/portal/internal/user"
)

// readOnly is the form type of management tables without an edit form.
type readOnly struct{}

func (readOnly) Fields() []form.Field { return nil }

// AdminStats are the figures shown on the admin dashboard.
type AdminStats struct {
	Jobs                int
	OpenJobs            int
	Doctors             int
	Recruiters          int
	Students            int
	Institutes          int
	CVs                 int
	AvgJobsPerRecruiter float64
}

// avgJobsPerRecruiter averages the number of jobs posted by each recruiter,
// recruiters without jobs included.
func avgJobsPerRecruiter(jobs []job.Job, recruiters []recruiter.Recruiter) float64 {
	if len(recruiters) == 0 {
		return 0
	}
	perRecruiter := make(map[string]int, len(recruiters))
	for _, j := range jobs {
		perRecruiter[j.RecruiterID]++
	}
	var sample stats.Sample
	for _, rec := range recruiters {
		sample.Xs = append(sample.Xs, float64(perRecruiter[rec.ID]))
	}
	return sample.Mean()
}

func AdminDashboardHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		creds := credentials(r)
		var (
			jobs       []job.Job
			doctors    []doctor.Doctor
			recruiters []recruiter.Recruiter
			students   []student.Student
			institutes []institute.Institute
			cvs        []cv.CV
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) { jobs, err = repos.Job.AdminJobs(ctx, creds); return })
		g.Go(func() (err error) { doctors, err = repos.Doctor.List(ctx, creds); return })
		g.Go(func() (err error) { recruiters, err = repos.Recruiter.List(ctx, creds); return })
		g.Go(func() (err error) { students, err = repos.Student.List(ctx, creds); return })
		g.Go(func() (err error) { institutes, err = repos.Institute.List(ctx, creds); return })
		g.Go(func() (err error) { cvs, err = repos.CV.List(ctx, creds); return })
		if err := g.Wait(); err != nil {
			svr.BackendPageError(w, r, err, "unable to load admin dashboard")
			return
		}
		st := AdminStats{
			Jobs:                len(jobs),
			Doctors:             len(doctors),
			Recruiters:          len(recruiters),
			Students:            len(students),
			Institutes:          len(institutes),
			CVs:                 len(cvs),
			AvgJobsPerRecruiter: avgJobsPerRecruiter(jobs, recruiters),
		}
		for _, j := range jobs {
			if j.IsOpen() {
				st.OpenJobs++
			}
		}
		svr.RenderPage(w, r, http.StatusOK, "dashboard.html", map[string]interface{}{
			"Title": "Admin dashboard",
			"Stats": st,
			"Cards": []Card{
				{Label: "Jobs", Value: humanize.Comma(int64(st.Jobs)), Link: "/admin/jobs"},
				{Label: "Open jobs", Value: humanize.Comma(int64(st.OpenJobs)), Link: "/admin/jobs?f.status=open"},
				{Label: "Doctors", Value: humanize.Comma(int64(st.Doctors)), Link: "/admin/doctors"},
				{Label: "Recruiters", Value: humanize.Comma(int64(st.Recruiters)), Link: "/admin/recruiters"},
				{Label: "Students", Value: humanize.Comma(int64(st.Students)), Link: "/admin/students"},
				{Label: "Institutes", Value: humanize.Comma(int64(st.Institutes)), Link: "/admin/institutes"},
				{Label: "CVs", Value: humanize.Comma(int64(st.CVs)), Link: "/admin/cvs"},
				{Label: "Jobs per recruiter", Value: humanize.FormatFloat("#,###.#", st.AvgJobsPerRecruiter), Link: "/admin/recruiters?sort=jobs&order=desc"},
			},
			"Links": []Link{
				{Label: "Manage admins", URL: "/admin/admins"},
				{Label: "Export doctors", URL: "/admin/doctors/export?format=csv"},
				{Label: "Export recruiters", URL: "/admin/recruiters/export?format=xlsx"},
			},
		})
	}, user.RoleAdmin)
}

// RegisterAdminTables mounts the admin management tables.
func RegisterAdminTables(svr server.Server, repos Repositories) {
	adminOnly := string(user.RoleAdmin)

	managed[job.Job, job.JobRq]{
		Title:    "Jobs",
		Singular: "job",
		Path:     "/admin/jobs",
		Columns:  job.Columns,
		List:     repos.Job.AdminJobs,
		Get:      repos.Job.JobByID,
		Load:     job.NewJobRq,
		Update:   repos.Job.UpdateJob,
		Delete:   repos.Job.DeleteJob,
		Markdown: func(j job.Job) string { return j.Description },
	}.register(svr, adminOnly)

	managed[doctor.Doctor, doctor.UpdateRq]{
		Title:    "Doctors",
		Singular: "doctor",
		Path:     "/admin/doctors",
		Columns:  doctor.Columns,
		List:     repos.Doctor.List,
		Get:      repos.Doctor.ByID,
		Load:     doctor.NewUpdateRq,
		Update:   repos.Doctor.Update,
		Delete:   repos.Doctor.Delete,
	}.register(svr, adminOnly)

	managed[recruiter.Recruiter, recruiter.UpdateRq]{
		Title:    "Recruiters",
		Singular: "recruiter",
		Path:     "/admin/recruiters",
		Columns:  recruiter.Columns,
		List:     repos.Recruiter.ListWithJobCounts,
		Get:      repos.Recruiter.ByID,
		Load:     recruiter.NewUpdateRq,
		Update:   repos.Recruiter.Update,
		Delete:   repos.Recruiter.Delete,
	}.register(svr, adminOnly)

	managed[student.Student, student.UpdateRq]{
		Title:    "Students",
		Singular: "student",
		Path:     "/admin/students",
		Columns:  student.Columns,
		List:     repos.Student.List,
		Get:      repos.Student.ByID,
		Load:     student.NewUpdateRq,
		Update:   repos.Student.Update,
		Delete:   repos.Student.Delete,
	}.register(svr, adminOnly)

	managed[institute.Institute, institute.UpdateRq]{
		Title:    "Institutes",
		Singular: "institute",
		Path:     "/admin/institutes",
		Columns:  institute.Columns,
		List:     repos.Institute.List,
		Get:      repos.Institute.ByID,
		Load:     institute.NewUpdateRq,
		Update:   repos.Institute.Update,
		Delete:   repos.Institute.Delete,
	}.register(svr, adminOnly)

	managed[admin.Admin, admin.UpdateRq]{
		Title:    "Admins",
		Singular: "admin",
		Path:     "/admin/admins",
		Columns:  admin.Columns,
		List:     repos.Admin.List,
		Get:      repos.Admin.ByID,
		Load:     admin.NewUpdateRq,
		Update:   repos.Admin.Update,
		Delete:   repos.Admin.Delete,
	}.register(svr, adminOnly)

	managed[cv.CV, readOnly]{
		Title:    "CVs",
		Singular: "cv",
		Path:     "/admin/cvs",
		Columns:  cv.Columns,
		List:     repos.CV.List,
		Get:      repos.CV.ByID,
	}.register(svr, adminOnly)
}
