package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhire/portal/internal/user"
)

type profileBackend struct {
	mu      sync.Mutex
	profile user.Profile
	updates int
}

func (b *profileBackend) current() (user.Profile, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.profile, b.updates
}

func (b *profileBackend) routes(t *testing.T) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /profile/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if r.PathValue("id") != b.profile.ID {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "profile not found"})
			return
		}
		writeJSON(w, http.StatusOK, b.profile)
	})
	api.HandleFunc("PUT /profile/{id}", func(w http.ResponseWriter, r *http.Request) {
		var rq user.ProfileRq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rq))
		if rq.Email == "taken@example.org" {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already in use"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.updates++
		b.profile.Name, b.profile.Email, b.profile.Phone = rq.Name, rq.Email, rq.Phone
		b.profile.City, b.profile.Bio = rq.City, rq.Bio
		b.profile.Organisation, b.profile.Specialty = rq.Organisation, rq.Specialty
		writeJSON(w, http.StatusOK, b.profile)
	})
	return api
}

func newProfilePortal(t *testing.T) (*portal, *profileBackend) {
	b := &profileBackend{profile: user.Profile{
		ID: "d1", Name: "Asha Menon", Email: "asha@example.org", Phone: "+919876543210",
		Role: user.RoleDoctor, City: "Pune", Specialty: "Cardiology",
	}}
	p := newPortal(t, b.routes(t))
	p.signIn("d1", "doctor")
	return p, b
}

// sessionUser returns the claims carried by the portal's current cookies.
func (p *portal) sessionUser() (name, email string) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range p.cookies {
		req.AddCookie(c)
	}
	u := p.svr.CurrentUser(req)
	require.NotNil(p.t, u)
	return u.Name, u.Email
}

func profileForm(b *profileBackend) url.Values {
	current, _ := b.current()
	return url.Values{
		"name":      {current.Name},
		"email":     {current.Email},
		"phone":     {"+91 98765 43210"},
		"city":      {"Pune"},
		"specialty": {"Cardiology"},
	}
}

func TestProfilePage(t *testing.T) {
	p, _ := newProfilePortal(t)
	rec := p.get("/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	details := doc.Find("dl.details").Text()
	assert.Contains(t, details, "asha@example.org")
	assert.Contains(t, details, "Cardiology")
	assert.Equal(t, 1, doc.Find(`a[href="/profile/edit"]`).Length())

	rec = p.get("/profile/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pune", document(t, rec).Find("#f-city").AttrOr("value", ""))
}

func TestProfilePageNeedsSignIn(t *testing.T) {
	b := &profileBackend{}
	p := newPortal(t, b.routes(t))
	rec := p.get("/profile")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth?next=%2Fprofile", rec.Header().Get("Location"))
}

func TestUpdateProfileKeepsSessionWhenNameUnchanged(t *testing.T) {
	p, b := newProfilePortal(t)
	form := profileForm(b)
	form.Set("city", "Nagpur")
	rec := p.post("/profile/edit", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
	saved, _ := b.current()
	assert.Equal(t, "Nagpur", saved.City)
	assert.Equal(t, "+919876543210", saved.Phone, "phone normalised")

	name, email := p.sessionUser()
	assert.Equal(t, "Asha Menon", name)
	assert.Equal(t, "asha@example.org", email)

	rec = p.get("/profile")
	assert.Contains(t, rec.Body.String(), "Your profile has been updated.")
}

func TestUpdateProfileResignsSessionOnNameChange(t *testing.T) {
	p, b := newProfilePortal(t)

	form := profileForm(b)
	form.Set("name", "Asha Menon Rao")
	form.Set("email", "asha.rao@example.org")
	rec := p.post("/profile/edit", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	name, email := p.sessionUser()
	assert.Equal(t, "Asha Menon Rao", name)
	assert.Equal(t, "asha.rao@example.org", email)
	rec = p.get("/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Asha Menon Rao", document(t, rec).Find("header form span").Text(), "header shows the new name")
}

func TestUpdateProfileErrors(t *testing.T) {
	p, b := newProfilePortal(t)

	form := profileForm(b)
	form.Set("phone", "12")
	rec := p.post("/profile/edit", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 1, document(t, rec).Find(".field.invalid #f-phone").Length())

	form = profileForm(b)
	form.Set("email", "taken@example.org")
	rec = p.post("/profile/edit", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, document(t, rec).Find(".banner.error").Text(), "Email already in use")
	_, updates := b.current()
	assert.Zero(t, updates)

	name, email := p.sessionUser()
	assert.Equal(t, "Asha Menon", name)
	assert.Equal(t, "asha@example.org", email)
}
