package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/medhire/portal/internal/student"
)

func instituteBackend() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/institute/students", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tk-i1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unknown token"})
			return
		}
		writeJSON(w, http.StatusOK, []student.Student{
			{ID: "s1", Name: "Nikhil Rao", Email: "nikhil@example.org", Course: "MBBS", GraduationYear: 2026},
			{ID: "s2", Name: "Fatima Sheikh", Email: "fatima@example.org", Course: "Nursing", GraduationYear: 2025},
			{ID: "s3", Name: "Arjun Das", Email: "arjun@example.org", Course: "MBBS", GraduationYear: 2027},
			{ID: "s4", Name: "Lena Paul", Email: "lena@example.org", Course: "=HYPERLINK(\"http://evil.test\")"},
		})
	})
	return api
}

func TestInstituteDashboard(t *testing.T) {
	p := newPortal(t, instituteBackend())
	p.signIn("i1", "institute")

	rec := p.get("/institute")
	require.Equal(t, http.StatusOK, rec.Code)
	cards := cardValues(t, rec)
	assert.Equal(t, "4", cards["Students"])
	assert.Equal(t, "3", cards["Courses"], "distinct courses")
	assert.Equal(t, 1, document(t, rec).Find(`a[href="/institute/students/export?format=xlsx"]`).Length())
}

func TestInstituteStudentsTable(t *testing.T) {
	p := newPortal(t, instituteBackend())
	p.signIn("i1", "institute")

	assert.Equal(t, []string{"Arjun Das", "Fatima Sheikh", "Lena Paul", "Nikhil Rao"}, rowNames(t, p, "/institute/students?sort=name"))
	assert.Equal(t, []string{"Arjun Das", "Nikhil Rao"}, rowNames(t, p, "/institute/students?f.course=mbbs&sort=name"))
	assert.Equal(t, []string{"Lena Paul", "Fatima Sheikh", "Nikhil Rao", "Arjun Das"}, rowNames(t, p, "/institute/students?sort=graduation"),
		"years sort as numbers with the blank one first")

	rec := p.get("/institute/students")
	require.Equal(t, http.StatusOK, rec.Code)
	href := document(t, rec).Find(`a.button:contains("Export CSV")`).AttrOr("href", "")
	assert.True(t, strings.HasPrefix(href, "/institute/students/export?"), href)
	assert.Contains(t, href, "format=csv")
}

func TestInstituteStudentsExport(t *testing.T) {
	p := newPortal(t, instituteBackend())
	p.signIn("i1", "institute")

	rec := p.get("/institute/students/export?format=csv&sort=name")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="students-`)
	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Name", "Email", "Phone", "Institute", "Course", "Graduation"}, records[0])
	assert.Equal(t, "Arjun Das", records[1][0])
	assert.Equal(t, `'=HYPERLINK("http://evil.test")`, records[3][4], "formulas are neutralised")

	rec = p.get("/institute/students/export?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Students")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestInstituteStudentsIsForInstitutes(t *testing.T) {
	p := newPortal(t, instituteBackend())
	p.signIn("s1", "student")
	assert.Equal(t, http.StatusForbidden, p.get("/institute/students").Code)
}
