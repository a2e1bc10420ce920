package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medhire/portal/internal/admin"
	"github.com/medhire/portal/internal/application"
	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/cv"
	"github.com/medhire/portal/internal/doctor"
	"github.com/medhire/portal/internal/export"
	"github.com/medhire/portal/internal/institute"
	"github.com/medhire/portal/internal/job"
	"github.com/medhire/portal/internal/middleware"
	"github.com/medhire/portal/internal/recruiter"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/student"
	"github.com/medhire/portal/internal/table"
	"github.com/medhire/portal/internal/user"
)

// Repositories groups the backend repositories the handlers work with.
type Repositories struct {
	User        *user.Repository
	Job         *job.Repository
	Doctor      *doctor.Repository
	Recruiter   *recruiter.Repository
	Student     *student.Repository
	Institute   *institute.Repository
	Admin       *admin.Repository
	CV          *cv.Repository
	Application *application.Repository
	Drafts      *cv.Store
}

func NewRepositories(client *backend.Client, drafts *cv.Store) Repositories {
	return Repositories{
		User:        user.NewRepository(client),
		Job:         job.NewRepository(client),
		Doctor:      doctor.NewRepository(client),
		Recruiter:   recruiter.NewRepository(client),
		Student:     student.NewRepository(client),
		Institute:   institute.NewRepository(client),
		Admin:       admin.NewRepository(client),
		CV:          cv.NewRepository(client),
		Application: application.NewRepository(client),
		Drafts:      drafts,
	}
}

// Card is a dashboard stat card.
type Card struct {
	Label string
	Value string
	Link  string
}

type Link struct {
	Label string
	URL   string
}

// RowLink is an extra per row link to {base}/{id}/{Path}.
type RowLink struct {
	Label string
	Path  string
}

// Actions selects the per row controls of table.html.
type Actions struct {
	View       bool
	Edit       bool
	Delete     bool
	Extra      *RowLink
	Statuses   []string
	StatusPath string
	Back       string
}

// currentUser is the user set on the request by the auth middleware.
func currentUser(r *http.Request) *middleware.UserJWT {
	u, _ := middleware.UserFromContext(r.Context())
	return u
}

// requireRole lets through users signed in with one of roles.
func requireRole(svr server.Server, next http.HandlerFunc, roles ...user.Role) http.HandlerFunc {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return middleware.RoleAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), svr.Forbidden, next, names...)
}

func credentials(r *http.Request) backend.Credentials {
	return currentUser(r).Credentials()
}

// localPath keeps p only when it points inside the portal, so redirects
// taken from user input never leave the site.
func localPath(p, fallback string) string {
	p = strings.TrimSpace(p)
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return p
}

func dashboardPath(role string) string {
	switch user.Role(role) {
	case user.RoleAdmin:
		return "/admin"
	case user.RoleDoctor:
		return "/doctor"
	case user.RoleStudent:
		return "/student"
	case user.RoleRecruiter:
		return "/recruiter"
	case user.RoleInstitute:
		return "/institute"
	}
	return "/auth"
}

func renderTable[T table.Record](svr server.Server, w http.ResponseWriter, r *http.Request, data map[string]interface{}, items []T, cols []table.Column) {
	q := table.ParseQuery(r.URL.Query(), svr.GetConfig().RowsPerPage)
	data["Table"] = table.Apply(items, cols, q)
	svr.RenderPage(w, r, http.StatusOK, "table.html", data)
}

// writeExport answers with the filtered and sorted rows of a table, every
// page included, in the format named by the format query parameter.
func writeExport[T table.Record](svr server.Server, w http.ResponseWriter, r *http.Request, title string, items []T, cols []table.Column) {
	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		svr.TEXT(w, http.StatusBadRequest, "unknown export format")
		return
	}
	q := table.ParseQuery(r.URL.Query(), svr.GetConfig().RowsPerPage)
	rows := export.Rows(table.Select(items, cols, q), cols)
	var buf bytes.Buffer
	if err := export.Write(&buf, format, title, rows); err != nil {
		svr.Log(err, fmt.Sprintf("unable to export %s", title))
		svr.TEXT(w, http.StatusInternalServerError, "unable to export table")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(title, format, time.Now())))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
