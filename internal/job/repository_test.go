package job

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhire/portal/internal/backend"
)

func TestOpenJobsDropsClosedJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs", r.URL.Path)
		fmt.Fprint(w, `{"data":[
			{"id":"1","title":"ICU Registrar","status":"open"},
			{"id":"2","title":"Locum GP","status":"closed"},
			{"id":"3","title":"Resident","status":"pending"}]}`)
	}))
	defer srv.Close()

	repo := NewRepository(backend.NewClient(srv.URL, srv.Client(), nil))
	jobs, err := repo.OpenJobs(context.Background(), backend.Credentials{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "ICU Registrar", jobs[0].Title)
}

func TestApplyPostsCoverLetter(t *testing.T) {
	var got ApplyRq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/jobs/42/apply", r.URL.Path)
		assert.Equal(t, "doc-7", r.Header.Get("x-user-id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	repo := NewRepository(backend.NewClient(srv.URL, srv.Client(), nil))
	err := repo.Apply(context.Background(), backend.Credentials{Token: "t", UserID: "doc-7"}, "42", ApplyRq{CoverLetter: "Available from May."})
	require.NoError(t, err)
	assert.Equal(t, "Available from May.", got.CoverLetter)
}

func TestDeleteRecruiterJobReportsBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/recruiter/jobs/9", r.URL.Path)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":"not your job"}`)
	}))
	defer srv.Close()

	repo := NewRepository(backend.NewClient(srv.URL, srv.Client(), nil))
	err := repo.DeleteRecruiterJob(context.Background(), backend.Credentials{}, "9")
	require.Error(t, err)
	assert.Equal(t, "You are not allowed to perform this action.", backend.UserMessage(err))
}

func TestJobValues(t *testing.T) {
	j := Job{Title: "ICU Registrar", SalaryMin: 120000, SalaryMax: 180000, Status: StatusOpen}
	assert.Equal(t, "120,000 - 180,000", j.Value("salary"))
	assert.Equal(t, "120000", j.Value("salary_min"))
	assert.Equal(t, "open", j.Value("status"))
	assert.Equal(t, "", j.Value("created"))
	assert.Equal(t, "", j.Value("unknown"))
	assert.Equal(t, "icu-registrar", Job{Title: "ICU Registrar"}.Slug())
	assert.Equal(t, "", Job{}.SalaryRange())
	assert.Equal(t, "50,000", Job{SalaryMin: 50000}.SalaryRange())
}
