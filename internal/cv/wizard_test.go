package cv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhire/portal/internal/validation"
)

func validPersonal() *Personal {
	return &Personal{Name: "Asha Menon", Email: "asha@clinic.in", Phone: "+91 98765 43210", City: "Kochi"}
}

func validProfessional() *Professional {
	return &Professional{Specialty: "Cardiology", Qualification: "MD", ExperienceYears: 6, RegistrationNumber: "KMC-1234"}
}

func validPreferences() *Preferences {
	return &Preferences{PreferredLocation: "Bengaluru", ExpectedSalary: 250000, Availability: "1-month"}
}

func validDocument() *Document {
	return &Document{PDFURL: "https://files.example.org/asha.pdf"}
}

func completeDraft(t *testing.T) *Draft {
	t.Helper()
	d := NewDraft()
	inputs := []interface{}{validPersonal(), validProfessional(), validPreferences(), validDocument()}
	for i, in := range inputs {
		next, errs, err := d.Advance(Step(i+1), in)
		require.NoError(t, err)
		require.True(t, errs.Empty(), "step %d: %v", i+1, errs)
		require.Equal(t, Step(i+2), next)
	}
	return d
}

func TestNewDraftStartsAtPersonal(t *testing.T) {
	d := NewDraft()
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, StepPersonal, d.Current())
	assert.True(t, d.CanVisit(StepPersonal))
	assert.False(t, d.CanVisit(StepProfessional))
	assert.False(t, d.CanVisit(StepReview))
	assert.False(t, d.Ready())
}

func TestAdvanceValidatesOnlyCurrentStep(t *testing.T) {
	d := NewDraft()
	next, errs, err := d.Advance(StepPersonal, &Personal{Name: "A", Email: "nope", Phone: "12", City: ""})
	require.NoError(t, err)
	assert.Equal(t, StepPersonal, next)
	assert.True(t, errs.Has("name"))
	assert.True(t, errs.Has("email"))
	assert.True(t, errs.Has("phone"))
	assert.True(t, errs.Has("city"))
	assert.False(t, d.IsComplete(StepPersonal))
	assert.Equal(t, "nope", d.Personal.Email, "invalid input is kept for redisplay")

	next, errs, err = d.Advance(StepPersonal, validPersonal())
	require.NoError(t, err)
	assert.True(t, errs.Empty())
	assert.Equal(t, StepProfessional, next)
	assert.True(t, d.IsComplete(StepPersonal))
	assert.False(t, d.IsComplete(StepProfessional))
}

func TestAdvanceRefusesUnreachableStep(t *testing.T) {
	d := NewDraft()
	next, errs, err := d.Advance(StepPreferences, validPreferences())
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, StepPersonal, next)
	assert.Empty(t, d.Preferences.PreferredLocation)
}

func TestAdvanceRejectsMismatchedInput(t *testing.T) {
	d := NewDraft()
	_, _, err := d.Advance(StepPersonal, validDocument())
	assert.Error(t, err)
}

func TestBackNeverReportsErrors(t *testing.T) {
	d := completeDraft(t)

	prev, err := d.Back(StepPreferences, &Preferences{Availability: "whenever"})
	require.NoError(t, err)
	assert.Equal(t, StepProfessional, prev)
	assert.Equal(t, "whenever", d.Preferences.Availability)
	assert.False(t, d.IsComplete(StepPreferences))
	assert.Equal(t, StepPreferences, d.Current())

	prev, err = d.Back(StepPersonal, nil)
	require.NoError(t, err)
	assert.Equal(t, StepPersonal, prev)
}

func TestCompleteDraftReachesReview(t *testing.T) {
	d := completeDraft(t)
	assert.True(t, d.Ready())
	assert.Equal(t, StepReview, d.Current())
	assert.True(t, d.CanVisit(StepReview))

	rq, err := d.SubmitRq("doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", rq.DoctorID)
	assert.Equal(t, "+919876543210", rq.Phone)
	assert.Equal(t, "Cardiology", rq.Specialty)
	assert.Equal(t, "https://files.example.org/asha.pdf", rq.PDFURL)
}

func TestSubmitRqRequiresEveryStep(t *testing.T) {
	d := NewDraft()
	_, _, err := d.Advance(StepPersonal, validPersonal())
	require.NoError(t, err)
	_, err = d.SubmitRq("doc-1")
	assert.Equal(t, ErrIncomplete, err)
}

func TestDraftEncodeRoundTrip(t *testing.T) {
	d := completeDraft(t)
	encoded, err := d.Encode()
	require.NoError(t, err)

	loaded, err := LoadDraft(encoded)
	require.NoError(t, err)
	assert.Equal(t, d.ID, loaded.ID)
	assert.True(t, loaded.Ready())
	assert.Equal(t, d.Preferences, loaded.Preferences)

	_, err = LoadDraft("{")
	assert.Error(t, err)
}

func TestHoldKeepsInputIncomplete(t *testing.T) {
	d := completeDraft(t)
	require.NoError(t, d.Hold(StepProfessional, &Professional{Specialty: "Oncology"}))
	assert.Equal(t, "Oncology", d.Professional.Specialty)
	assert.False(t, d.IsComplete(StepProfessional))
	assert.Equal(t, StepProfessional, d.Current())
	assert.Error(t, d.Hold(StepProfessional, validPersonal()))
}

func TestLongValuesFailValidation(t *testing.T) {
	d := NewDraft()
	p := validPersonal()
	p.Email = strings.Repeat("a", 250) + "@clinic.in"
	_, errs, err := d.Advance(StepPersonal, p)
	require.NoError(t, err)
	assert.Equal(t, "This value is too long.", errs.Get("email"))

	doc := &Document{PDFURL: "https://files.example.org/" + strings.Repeat("a", 2048)}
	assert.Equal(t, "This value is too long.", validation.Validate(doc).Get("pdfUrl"))
}

func TestDraftFromCV(t *testing.T) {
	d := DraftFromCV(CV{Name: "Asha Menon", Specialty: "Cardiology", PDFURL: "https://x.org/a.pdf"})
	assert.Equal(t, "Asha Menon", d.Personal.Name)
	assert.Equal(t, "Cardiology", d.Professional.Specialty)
	assert.Equal(t, StepPersonal, d.Current(), "prefilled steps still need confirming")
}

func TestFieldsCarryDraftValues(t *testing.T) {
	d := completeDraft(t)
	fields := d.Fields(StepDocument)
	require.Len(t, fields, 1)
	assert.Equal(t, "pdfUrl", fields[0].Name)
	assert.Equal(t, "https://files.example.org/asha.pdf", fields[0].Value)
	assert.Nil(t, d.Fields(StepReview))
	assert.Equal(t, "Review", StepReview.Title())
}
