package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhire/portal/internal/cv"
)

type cvBackend struct {
	mu         sync.Mutex
	failSubmit bool
	submitted  *cv.SubmitRq
}

func (b *cvBackend) setFail(fail bool) {
	b.mu.Lock()
	b.failSubmit = fail
	b.mu.Unlock()
}

func (b *cvBackend) routes(t *testing.T) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /CvdoctorUpdate/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.submitted == nil || b.submitted.DoctorID != r.PathValue("id") {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "cv not found"})
			return
		}
		s := b.submitted
		writeJSON(w, http.StatusOK, cv.CV{
			ID: "cv1", DoctorID: s.DoctorID, Name: s.Name, Email: s.Email, Phone: s.Phone, City: s.City,
			Specialty: s.Specialty, Qualification: s.Qualification, ExperienceYears: s.ExperienceYears,
			RegistrationNumber: s.RegistrationNumber, PreferredLocation: s.PreferredLocation,
			ExpectedSalary: s.ExpectedSalary, Availability: s.Availability, PDFURL: s.PDFURL,
		})
	})
	api.HandleFunc("POST /CvdoctorUpdate/addDoctorCv", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failSubmit {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var rq cv.SubmitRq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rq))
		b.submitted = &rq
		writeJSON(w, http.StatusCreated, map[string]string{"id": "cv1"})
	})
	api.HandleFunc("GET /profile/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"id": r.PathValue("id"), "name": "Asha Menon", "email": "asha@example.org",
			"phone": "+919876543210", "city": "Pune", "specialty": "Cardiology", "role": "doctor",
		})
	})
	api.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{{"id": "j1", "title": "Cardiologist", "status": "open"}})
	})
	api.HandleFunc("GET /api/applications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{{"id": "a1", "jobTitle": "Cardiologist", "status": "shortlisted"}})
	})
	return api
}

func TestCVWizard(t *testing.T) {
	b := &cvBackend{}
	p := newPortal(t, b.routes(t))
	p.signIn("d1", "doctor")

	rec := p.get("/doctor/cv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You have not submitted a CV yet.")

	rec = p.get("/doctor/cv/step/3")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/doctor/cv/step/1", rec.Header().Get("Location"), "later steps need the earlier ones")

	rec = p.get("/doctor/cv/edit")
	assert.Equal(t, "/doctor/cv/step/1", rec.Header().Get("Location"))

	rec = p.get("/doctor/cv/step/1")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, "Asha Menon", doc.Find("#f-name").AttrOr("value", ""), "prefilled from the profile")
	assert.Equal(t, "Pune", doc.Find("#f-city").AttrOr("value", ""))

	personal := url.Values{"name": {"Asha Menon"}, "email": {"asha@example.org"}, "phone": {"call me"}, "city": {"Pune"}, "action": {"next"}}
	rec = p.post("/doctor/cv/step/1", personal)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	doc = document(t, rec)
	assert.Equal(t, 1, doc.Find(".field.invalid").Length())
	assert.Equal(t, "call me", doc.Find("#f-phone").AttrOr("value", ""))

	personal.Set("phone", "+91 (987) 654-3210")
	rec = p.post("/doctor/cv/step/1", personal)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/doctor/cv/step/2", rec.Header().Get("Location"))

	rec = p.post("/doctor/cv/step/2", url.Values{"specialty": {"Cardiology"}, "action": {"back"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/doctor/cv/step/1", rec.Header().Get("Location"), "going back skips validation")
	rec = p.get("/doctor/cv/step/2")
	assert.Equal(t, "Cardiology", document(t, rec).Find("#f-specialty").AttrOr("value", ""), "input kept when going back")

	steps := []struct {
		step string
		form url.Values
		next string
	}{
		{"2", url.Values{"specialty": {"Cardiology"}, "qualification": {"MBBS, MD"}, "experienceYears": {"8"}, "registrationNumber": {"MCI-42"}}, "/doctor/cv/step/3"},
		{"3", url.Values{"preferredLocation": {"Mumbai"}, "expectedSalary": {"2400000"}, "availability": {"1-month"}}, "/doctor/cv/step/4"},
		{"4", url.Values{"pdfUrl": {"https://files.example.org/asha.pdf"}}, "/doctor/cv/step/5"},
	}
	for _, s := range steps {
		rec = p.post("/doctor/cv/step/"+s.step, s.form)
		require.Equal(t, http.StatusSeeOther, rec.Code, "step %s", s.step)
		assert.Equal(t, s.next, rec.Header().Get("Location"))
	}

	rec = p.get("/doctor/cv/step/5")
	require.Equal(t, http.StatusOK, rec.Code)
	doc = document(t, rec)
	assert.Contains(t, doc.Find("dl.details").Text(), "https://files.example.org/asha.pdf")
	assert.Equal(t, 1, doc.Find(`form[action="/doctor/cv/submit"]`).Length())

	b.setFail(true)
	rec = p.post("/doctor/cv/submit", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/doctor/cv/step/5", rec.Header().Get("Location"))
	rec = p.get("/doctor/cv/step/5")
	require.Equal(t, http.StatusOK, rec.Code, "draft survives a failed submit")
	assert.Contains(t, document(t, rec).Find(".banner.error").Text(), "please try again later")

	b.setFail(false)
	rec = p.post("/doctor/cv/submit", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/doctor/cv", rec.Header().Get("Location"))
	require.NotNil(t, b.submitted)
	assert.Equal(t, "d1", b.submitted.DoctorID)
	assert.Equal(t, "+919876543210", b.submitted.Phone)
	assert.EqualValues(t, 8, b.submitted.ExperienceYears)
	assert.Equal(t, "1-month", b.submitted.Availability)

	rec = p.get("/doctor/cv")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Your CV has been submitted.")
	assert.Contains(t, body, "MCI-42")

	rec = p.post("/doctor/cv/submit", nil)
	assert.Equal(t, "/doctor/cv/edit", rec.Header().Get("Location"), "draft dropped after submit")
}

func TestCVStepRejectsUnknownSteps(t *testing.T) {
	p := newPortal(t, (&cvBackend{}).routes(t))
	p.signIn("d1", "doctor")
	assert.Equal(t, http.StatusNotFound, p.get("/doctor/cv/step/9").Code)
	assert.Equal(t, http.StatusNotFound, p.get("/doctor/cv/step/x").Code)
}

func TestDoctorDashboard(t *testing.T) {
	p := newPortal(t, (&cvBackend{}).routes(t))
	p.signIn("d1", "doctor")
	rec := p.get("/doctor")
	require.Equal(t, http.StatusOK, rec.Code)
	text := document(t, rec).Find(".cards").Text()
	assert.Contains(t, text, "Open jobs")
	assert.Contains(t, text, "Not submitted")
	assert.Contains(t, text, "Shortlisted")
}

var validCVSteps = []url.Values{
	{"name": {"Asha Menon"}, "email": {"asha@example.org"}, "phone": {"+91 (987) 654-3210"}, "city": {"Pune"}},
	{"specialty": {"Cardiology"}, "qualification": {"MBBS, MD"}, "experienceYears": {"8"}, "registrationNumber": {"MCI-42"}},
	{"preferredLocation": {"Mumbai"}, "expectedSalary": {"2400000"}, "availability": {"1-month"}},
	{"pdfUrl": {"https://files.example.org/asha.pdf"}},
}

// fillCVSteps completes the wizard up to and including step n.
func fillCVSteps(p *portal, n int) {
	p.t.Helper()
	for i := 0; i < n; i++ {
		rec := p.post(fmt.Sprintf("/doctor/cv/step/%d", i+1), validCVSteps[i])
		require.Equal(p.t, http.StatusSeeOther, rec.Code, "step %d", i+1)
	}
}

func TestCVStepReportsNonNumericInput(t *testing.T) {
	p := newPortal(t, (&cvBackend{}).routes(t))
	p.signIn("d1", "doctor")
	fillCVSteps(p, 1)

	rec := p.post("/doctor/cv/step/2", url.Values{
		"specialty": {"Cardiology"}, "qualification": {"MBBS"}, "experienceYears": {"eight"}, "registrationNumber": {"MCI-42"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	doc := document(t, rec)
	invalid := doc.Find(".field.invalid")
	require.Equal(t, 1, invalid.Length())
	assert.Equal(t, 1, invalid.Find("#f-experienceYears").Length())
	assert.Equal(t, "Please enter a whole number.", invalid.Find(".field-error").Text())
	assert.Equal(t, "MCI-42", doc.Find("#f-registrationNumber").AttrOr("value", ""), "other input kept")

	rec = p.get("/doctor/cv/step/3")
	assert.Equal(t, "/doctor/cv/step/2", rec.Header().Get("Location"), "step left incomplete")

	rec = p.post("/doctor/cv/step/2", url.Values{"experienceYears": {"lots"}, "action": {"back"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/doctor/cv/step/1", rec.Header().Get("Location"))
}

func TestCVDraftStaysOutOfTheCookie(t *testing.T) {
	p := newPortal(t, (&cvBackend{}).routes(t))
	p.signIn("d1", "doctor")
	fillCVSteps(p, 3)

	long := "https://files.example.org/" + strings.Repeat("a", 3000) + ".pdf"
	rec := p.post("/doctor/cv/step/4", url.Values{"pdfUrl": {long}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, "This value is too long.", doc.Find(".field.invalid .field-error").Text())
	assert.Equal(t, long, doc.Find("#f-pdfUrl").AttrOr("value", ""), "input kept in the draft")
	assert.Empty(t, doc.Find(".banner.error").Text())
	for _, c := range p.cookies {
		assert.Less(t, len(c.String()), 4096, "cookie %s", c.Name)
	}

	rec = p.get("/doctor/cv/step/4")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, long, document(t, rec).Find("#f-pdfUrl").AttrOr("value", ""))
}

func TestCVStepReportsUnsavedDraft(t *testing.T) {
	p := newPortal(t, (&cvBackend{}).routes(t))
	p.signIn("d1", "doctor")
	fillCVSteps(p, 3)

	huge := "https://files.example.org/" + strings.Repeat("a", 20000) + ".pdf"
	rec := p.post("/doctor/cv/step/4", url.Values{"pdfUrl": {huge}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	doc := document(t, rec)
	assert.Contains(t, doc.Find(".banner.error").Text(), "Your progress could not be saved")
	assert.Equal(t, 1, doc.Find(".field.invalid #f-pdfUrl").Length())

	rec = p.post("/doctor/cv/step/4", validCVSteps[3])
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/doctor/cv/step/5", rec.Header().Get("Location"), "earlier steps survived the failed save")
}

func TestDoctorDashboardShowsDraftInProgress(t *testing.T) {
	p := newPortal(t, (&cvBackend{}).routes(t))
	p.signIn("d1", "doctor")
	fillCVSteps(p, 1)
	rec := p.get("/doctor")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, document(t, rec).Find(".cards").Text(), "In progress")
}
