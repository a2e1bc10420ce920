package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/middleware"
	"github.com/medhire/portal/internal/server"
	"github.com/medhire/portal/internal/table"
	"github.com/medhire/portal/internal/validation"
)

type detailed interface {
	table.Record
	Details() []table.Detail
}

type editable interface {
	Fields() []form.Field
}

// managed is a management table: list with search, sort, pagination and
// export, a detail view, optional create and edit forms and delete.
type managed[T detailed, F editable] struct {
	Title    string
	Singular string
	Path     string
	Columns  []table.Column
	List     func(ctx context.Context, creds backend.Credentials) ([]T, error)
	Get      func(ctx context.Context, creds backend.Credentials, id string) (T, error)
	Load     func(T) F
	Create   func(ctx context.Context, creds backend.Credentials, rq F) error
	Update   func(ctx context.Context, creds backend.Credentials, id string, rq F) error
	Delete   func(ctx context.Context, creds backend.Credentials, id string) error
	Markdown func(T) string
	Extra    *RowLink
}

func (m managed[T, F]) register(svr server.Server, roles ...string) {
	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RoleAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), svr.Forbidden, h, roles...)
	}
	svr.RegisterRoute(m.Path, auth(m.listHandler(svr)), []string{"GET"})
	svr.RegisterRoute(m.Path+"/export", auth(m.exportHandler(svr)), []string{"GET"})
	if m.Create != nil {
		svr.RegisterRoute(m.Path+"/new", auth(m.newHandler(svr)), []string{"GET"})
		svr.RegisterRoute(m.Path+"/new", auth(m.createHandler(svr)), []string{"POST"})
	}
	svr.RegisterRoute(m.Path+"/{id}", auth(m.viewHandler(svr)), []string{"GET"})
	if m.Update != nil {
		svr.RegisterRoute(m.Path+"/{id}/edit", auth(m.editHandler(svr)), []string{"GET"})
		svr.RegisterRoute(m.Path+"/{id}/edit", auth(m.updateHandler(svr)), []string{"POST"})
	}
	if m.Delete != nil {
		svr.RegisterRoute(m.Path+"/{id}/delete", auth(m.deleteHandler(svr)), []string{"POST"})
	}
}

func (m managed[T, F]) actions() *Actions {
	return &Actions{View: true, Edit: m.Update != nil, Delete: m.Delete != nil, Extra: m.Extra}
}

func (m managed[T, F]) listHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := m.List(r.Context(), credentials(r))
		if err != nil {
			svr.BackendPageError(w, r, err, fmt.Sprintf("unable to list %s", m.Path))
			return
		}
		data := map[string]interface{}{
			"Title":      m.Title,
			"BasePath":   m.Path,
			"ExportPath": m.Path + "/export",
			"Actions":    m.actions(),
		}
		if m.Create != nil {
			data["NewURL"] = m.Path + "/new"
		}
		renderTable(svr, w, r, data, items, m.Columns)
	}
}

func (m managed[T, F]) exportHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := m.List(r.Context(), credentials(r))
		if err != nil {
			svr.BackendPageError(w, r, err, fmt.Sprintf("unable to export %s", m.Path))
			return
		}
		writeExport(svr, w, r, m.Title, items, m.Columns)
	}
}

func (m managed[T, F]) viewHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		item, err := m.Get(r.Context(), credentials(r), id)
		if err != nil {
			svr.BackendPageError(w, r, err, fmt.Sprintf("unable to get %s %s", m.Singular, id))
			return
		}
		data := map[string]interface{}{
			"Title":   fmt.Sprintf("%s details", stringTitle(m.Singular)),
			"Details": item.Details(),
			"BackURL": m.Path,
		}
		if m.Markdown != nil {
			data["Markdown"] = m.Markdown(item)
		}
		if m.Update != nil {
			data["EditURL"] = fmt.Sprintf("%s/%s/edit", m.Path, id)
		}
		if m.Delete != nil {
			data["DeleteURL"] = fmt.Sprintf("%s/%s/delete", m.Path, id)
		}
		svr.RenderPage(w, r, http.StatusOK, "record.html", data)
	}
}

func (m managed[T, F]) formView(title, action string, rq F, errs validation.FieldErrors) form.View {
	return form.View{
		Title:  title,
		Action: action,
		Submit: "Save",
		Cancel: m.Path,
		Fields: rq.Fields(),
		Errors: errs,
	}
}

// saveError renders the form again with the backend failure as a form level
// error, unless the failure signed the user out.
func (m managed[T, F]) saveError(svr server.Server, w http.ResponseWriter, r *http.Request, err error, msg string, view form.View) {
	if svr.SignOutOnUnauthorized(w, r, err) {
		return
	}
	status := http.StatusUnprocessableEntity
	if !backend.IsClientError(err) {
		svr.Log(err, msg)
		status = http.StatusBadGateway
	}
	view.Errors = validation.FieldErrors{"form": backend.UserMessage(err)}
	svr.RenderPage(w, r, status, "form.html", map[string]interface{}{
		"Title": view.Title,
		"Form":  view,
	})
}

func (m managed[T, F]) newHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rq F
		title := fmt.Sprintf("New %s", m.Singular)
		svr.RenderPage(w, r, http.StatusOK, "form.html", map[string]interface{}{
			"Title": title,
			"Form":  m.formView(title, m.Path+"/new", rq, nil),
		})
	}
}

func (m managed[T, F]) createHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rq F
		errs, err := form.Parse(r, &rq)
		if err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		title := fmt.Sprintf("New %s", m.Singular)
		view := m.formView(title, m.Path+"/new", rq, nil)
		if !errs.Empty() {
			view.Errors = errs
			svr.RenderPage(w, r, http.StatusUnprocessableEntity, "form.html", map[string]interface{}{
				"Title": title,
				"Form":  view,
			})
			return
		}
		if err := m.Create(r.Context(), credentials(r), rq); err != nil {
			m.saveError(svr, w, r, err, fmt.Sprintf("unable to create %s", m.Singular), view)
			return
		}
		svr.AddFlash(w, r, server.FlashSuccess, fmt.Sprintf("The %s has been created.", m.Singular))
		svr.Redirect(w, r, http.StatusSeeOther, m.Path)
	}
}

func (m managed[T, F]) editHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		item, err := m.Get(r.Context(), credentials(r), id)
		if err != nil {
			svr.BackendPageError(w, r, err, fmt.Sprintf("unable to get %s %s", m.Singular, id))
			return
		}
		title := fmt.Sprintf("Edit %s", m.Singular)
		svr.RenderPage(w, r, http.StatusOK, "form.html", map[string]interface{}{
			"Title": title,
			"Form":  m.formView(title, fmt.Sprintf("%s/%s/edit", m.Path, id), m.Load(item), nil),
		})
	}
}

func (m managed[T, F]) updateHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		var rq F
		errs, err := form.Parse(r, &rq)
		if err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		title := fmt.Sprintf("Edit %s", m.Singular)
		view := m.formView(title, fmt.Sprintf("%s/%s/edit", m.Path, id), rq, nil)
		if !errs.Empty() {
			view.Errors = errs
			svr.RenderPage(w, r, http.StatusUnprocessableEntity, "form.html", map[string]interface{}{
				"Title": title,
				"Form":  view,
			})
			return
		}
		if err := m.Update(r.Context(), credentials(r), id, rq); err != nil {
			m.saveError(svr, w, r, err, fmt.Sprintf("unable to update %s %s", m.Singular, id), view)
			return
		}
		svr.AddFlash(w, r, server.FlashSuccess, fmt.Sprintf("The %s has been updated.", m.Singular))
		svr.Redirect(w, r, http.StatusSeeOther, fmt.Sprintf("%s/%s", m.Path, id))
	}
}

func (m managed[T, F]) deleteHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := m.Delete(r.Context(), credentials(r), id); err != nil {
			svr.BackendActionError(w, r, err, fmt.Sprintf("unable to delete %s %s", m.Singular, id), m.Path)
			return
		}
		svr.AddFlash(w, r, server.FlashSuccess, fmt.Sprintf("The %s has been deleted.", m.Singular))
		svr.Redirect(w, r, http.StatusSeeOther, m.Path)
	}
}

func stringTitle(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
