package handler

import (
	"github.com/medhire/portal/internal/server"
)

// RegisterRoutes mounts every page of the portal on svr.
func RegisterRoutes(svr server.Server, repos Repositories) {
	svr.RegisterRoute("/", IndexPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/jobs.rss", ServeRSSFeed(svr, repos), []string{"GET"})

	// sign in, registration and sign out
	svr.RegisterRoute("/auth", GetAuthPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/auth", PostAuthPageHandler(svr, repos.User), []string{"POST"})
	svr.RegisterRoute("/register", GetRegisterPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/register", PostRegisterPageHandler(svr, repos.User), []string{"POST"})
	svr.RegisterRoute("/logout", LogoutHandler(svr), []string{"POST"})

	// profile, every role
	svr.RegisterRoute("/profile", ProfilePageHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/profile/edit", EditProfilePageHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/profile/edit", UpdateProfileHandler(svr, repos), []string{"POST"})

	// admin
	svr.RegisterRoute("/admin", AdminDashboardHandler(svr, repos), []string{"GET"})
	RegisterAdminTables(svr, repos)

	// recruiter
	svr.RegisterRoute("/recruiter", RecruiterDashboardHandler(svr, repos), []string{"GET"})
	RegisterRecruiterJobs(svr, repos)

	// doctor
	svr.RegisterRoute("/doctor", DoctorDashboardHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/doctor/cv", MyCVHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/doctor/cv/edit", EditCVHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/doctor/cv/step/{step}", CVStepHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/doctor/cv/step/{step}", SaveCVStepHandler(svr, repos), []string{"POST"})
	svr.RegisterRoute("/doctor/cv/submit", SubmitCVHandler(svr, repos), []string{"POST"})

	// student
	svr.RegisterRoute("/student", StudentDashboardHandler(svr, repos), []string{"GET"})

	// institute
	svr.RegisterRoute("/institute", InstituteDashboardHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/institute/students", InstituteStudentsHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/institute/students/export", ExportInstituteStudentsHandler(svr, repos), []string{"GET"})

	// jobs and applications, doctors and students
	svr.RegisterRoute("/jobs", OpenJobsHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/jobs/{id}", JobPageHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/jobs/{id}/{slug}", JobPageHandler(svr, repos), []string{"GET"})
	svr.RegisterRoute("/jobs/{id}/apply", ApplyToJobHandler(svr, repos), []string{"POST"})
	svr.RegisterRoute("/applications", MyApplicationsHandler(svr, repos), []string{"GET"})

	svr.RegisterNotFound(svr.NotFound)
}
