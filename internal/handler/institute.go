package handler

import (
	"net/http"

	humanize "github.com/dustin/go-humanize"

	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/student"
	"github.com/medhire/portal/internal/user"
)

func InstituteDashboardHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		students, err := repos.Student.ForInstitute(r.Context(), credentials(r))
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to load institute dashboard")
			return
		}
		courses := map[string]struct{}{}
		for _, s := range students {
			if c := s.Value("course"); c != "" {
				courses[c] = struct{}{}
			}
		}
		svr.RenderPage(w, r, http.StatusOK, "dashboard.html", map[string]interface{}{
			"Title": "Institute dashboard",
			"Cards": []Card{
				{Label: "Students", Value: humanize.Comma(int64(len(students))), Link: "/institute/students"},
				{Label: "Courses", Value: humanize.Comma(int64(len(courses))), Link: "/institute/students?sort=course"},
			},
			"Links": []Link{
				{Label: "Export students (CSV)", URL: "/institute/students/export?format=csv"},
				{Label: "Export students (XLSX)", URL: "/institute/students/export?format=xlsx"},
				{Label: "Edit profile", URL: "/profile/edit"},
			},
		})
	}, user.RoleInstitute)
}

func InstituteStudentsHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		students, err := repos.Student.ForInstitute(r.Context(), credentials(r))
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to list institute students")
			return
		}
		renderTable(svr, w, r, map[string]interface{}{
			"Title":      "Students",
			"BasePath":   "/institute/students",
			"ExportPath": "/institute/students/export",
		}, students, student.Columns)
	}, user.RoleInstitute)
}

func ExportInstituteStudentsHandler(svr server.Server, repos Repositories) http.HandlerFunc {
	return requireRole(svr, func(w http.ResponseWriter, r *http.Request) {
		students, err := repos.Student.ForInstitute(r.Context(), credentials(r))
		if err != nil {
			svr.BackendPageError(w, r, err, "unable to export institute students")
			return
		}
		writeExport(svr, w, r, "Students", students, student.Columns)
	}, user.RoleInstitute)
}
