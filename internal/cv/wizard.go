package cv

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/validation"
)

type Step int

const (
	StepPersonal Step = iota + 1
	StepProfessional
	StepPreferences
	StepDocument
	StepReview
)

// lastFormStep is the last step holding input, StepReview only shows it.
const lastFormStep = StepDocument

var ErrIncomplete = errors.New("cv draft has incomplete steps")

type StepInfo struct {
	Step  Step
	Title string
}

var Steps = []StepInfo{
	{StepPersonal, "Personal details"},
	{StepProfessional, "Professional details"},
	{StepPreferences, "Preferences"},
	{StepDocument, "CV document"},
	{StepReview, "Review"},
}

func (s Step) Valid() bool {
	return s >= StepPersonal && s <= StepReview
}

func (s Step) Title() string {
	if !s.Valid() {
		return ""
	}
	return Steps[s-1].Title
}

type Personal struct {
	Name  string `json:"name" form:"name" validate:"required,personname"`
	Email string `json:"email" form:"email" validate:"required,max=254,emailaddr"`
	Phone string `json:"phone" form:"phone" validate:"required,phone"`
	City  string `json:"city" form:"city" validate:"required,max=80"`
}

type Professional struct {
	Specialty          string `json:"specialty" form:"specialty" validate:"required,max=80"`
	Qualification      string `json:"qualification" form:"qualification" validate:"required,max=120"`
	ExperienceYears    int64  `json:"experienceYears" form:"experienceYears" validate:"gte=0,lte=60"`
	RegistrationNumber string `json:"registrationNumber" form:"registrationNumber" validate:"required,max=40"`
}

type Preferences struct {
	PreferredLocation string `json:"preferredLocation" form:"preferredLocation" validate:"required,max=80"`
	ExpectedSalary    int64  `json:"expectedSalary" form:"expectedSalary" validate:"gte=0"`
	Availability      string `json:"availability" form:"availability" validate:"required,oneof=immediate 1-month 3-months 6-months"`
}

type Document struct {
	PDFURL string `json:"pdfUrl" form:"pdfUrl" validate:"required,max=2048,httpurl"`
}

// Draft is the in-progress CV shared by all wizard steps. It is kept in a
// Store between requests.
type Draft struct {
	ID           string       `json:"id"`
	Personal     Personal     `json:"personal"`
	Professional Professional `json:"professional"`
	Preferences  Preferences  `json:"preferences"`
	Document     Document     `json:"document"`
	Completed    []Step       `json:"completed"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func NewDraft() *Draft {
	return &Draft{ID: ksuid.New().String(), UpdatedAt: time.Now().UTC()}
}

// DraftFromCV starts a draft from a previously submitted CV so the doctor
// can revise it.
func DraftFromCV(c CV) *Draft {
	d := NewDraft()
	d.Personal = Personal{Name: c.Name, Email: c.Email, Phone: c.Phone, City: c.City}
	d.Professional = Professional{
		Specialty:          c.Specialty,
		Qualification:      c.Qualification,
		ExperienceYears:    c.ExperienceYears,
		RegistrationNumber: c.RegistrationNumber,
	}
	d.Preferences = Preferences{
		PreferredLocation: c.PreferredLocation,
		ExpectedSalary:    c.ExpectedSalary,
		Availability:      c.Availability,
	}
	d.Document = Document{PDFURL: c.PDFURL}
	return d
}

func LoadDraft(data string) (*Draft, error) {
	d := &Draft{}
	if err := json.Unmarshal([]byte(data), d); err != nil {
		return nil, errors.Wrap(err, "unable to decode cv draft")
	}
	return d, nil
}

func (d *Draft) Encode() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", errors.Wrap(err, "unable to encode cv draft")
	}
	return string(b), nil
}

func (d *Draft) IsComplete(s Step) bool {
	for _, c := range d.Completed {
		if c == s {
			return true
		}
	}
	return false
}

func (d *Draft) setComplete(s Step, done bool) {
	kept := d.Completed[:0]
	for _, c := range d.Completed {
		if c != s {
			kept = append(kept, c)
		}
	}
	d.Completed = kept
	if done {
		d.Completed = append(d.Completed, s)
	}
}

// CanVisit reports whether every step before s is complete.
func (d *Draft) CanVisit(s Step) bool {
	if !s.Valid() {
		return false
	}
	for prev := StepPersonal; prev < s; prev++ {
		if !d.IsComplete(prev) {
			return false
		}
	}
	return true
}

// Current is the first incomplete step, or StepReview once every input step
// is complete.
func (d *Draft) Current() Step {
	for s := StepPersonal; s <= lastFormStep; s++ {
		if !d.IsComplete(s) {
			return s
		}
	}
	return StepReview
}

func (d *Draft) Ready() bool {
	return d.Current() == StepReview
}

// Input returns a pointer to a zero value of the struct holding the input of
// step s, ready to be decoded into. It returns nil for StepReview.
func Input(s Step) interface{} {
	switch s {
	case StepPersonal:
		return &Personal{}
	case StepProfessional:
		return &Professional{}
	case StepPreferences:
		return &Preferences{}
	case StepDocument:
		return &Document{}
	}
	return nil
}

func (d *Draft) store(s Step, input interface{}) error {
	ok := false
	switch v := input.(type) {
	case *Personal:
		if ok = s == StepPersonal; ok {
			d.Personal = *v
		}
	case *Professional:
		if ok = s == StepProfessional; ok {
			d.Professional = *v
		}
	case *Preferences:
		if ok = s == StepPreferences; ok {
			d.Preferences = *v
		}
	case *Document:
		if ok = s == StepDocument; ok {
			d.Document = *v
		}
	}
	if !ok {
		return errors.Errorf("unexpected input %T for cv step %d", input, s)
	}
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Advance stores the input of step s and validates it. When valid the step
// becomes complete and the next step is returned, otherwise s is returned
// along with the field errors and the step is left incomplete.
func (d *Draft) Advance(s Step, input interface{}) (Step, validation.FieldErrors, error) {
	if !d.CanVisit(s) {
		return d.Current(), nil, nil
	}
	if err := d.store(s, input); err != nil {
		return s, nil, err
	}
	errs := validation.Validate(input)
	if !errs.Empty() {
		d.setComplete(s, false)
		return s, errs, nil
	}
	d.setComplete(s, true)
	return d.Current(), errs, nil
}

// Hold stores the input of step s and leaves the step incomplete, for input
// rejected before it could be validated.
func (d *Draft) Hold(s Step, input interface{}) error {
	if err := d.store(s, input); err != nil {
		return err
	}
	d.setComplete(s, false)
	return nil
}

// Back stores the input of step s without reporting errors and returns the
// previous step. The step stays complete only if its input is still valid.
func (d *Draft) Back(s Step, input interface{}) (Step, error) {
	if input != nil {
		if err := d.store(s, input); err != nil {
			return s, err
		}
		d.setComplete(s, validation.Validate(input).Empty())
	}
	if s <= StepPersonal {
		return StepPersonal, nil
	}
	return s - 1, nil
}

// Values returns the stored input of step s, nil for StepReview.
func (d *Draft) Values(s Step) interface{} {
	switch s {
	case StepPersonal:
		return d.Personal
	case StepProfessional:
		return d.Professional
	case StepPreferences:
		return d.Preferences
	case StepDocument:
		return d.Document
	}
	return nil
}

// Fields describes the inputs of step s filled with the draft values.
func (d *Draft) Fields(s Step) []form.Field {
	switch s {
	case StepPersonal:
		p := d.Personal
		return []form.Field{
			form.Text("name", "Full name", p.Name, true),
			form.Email("email", "Email", p.Email),
			form.Tel("phone", "Phone", p.Phone, true),
			form.Text("city", "City", p.City, true),
		}
	case StepProfessional:
		p := d.Professional
		return []form.Field{
			form.Text("specialty", "Specialty", p.Specialty, true),
			form.Text("qualification", "Qualification", p.Qualification, true),
			form.Number("experienceYears", "Experience (years)", p.ExperienceYears, false),
			form.Text("registrationNumber", "Medical registration number", p.RegistrationNumber, true),
		}
	case StepPreferences:
		p := d.Preferences
		return []form.Field{
			form.Text("preferredLocation", "Preferred location", p.PreferredLocation, true),
			form.Number("expectedSalary", "Expected salary", p.ExpectedSalary, false),
			form.Select("availability", "Availability", p.Availability, Availabilities),
		}
	case StepDocument:
		return []form.Field{
			form.URL("pdfUrl", "Link to your CV (PDF)", d.Document.PDFURL, true),
		}
	}
	return nil
}

// SubmitRq builds the submission for doctorID. It fails with ErrIncomplete
// unless every step is complete.
func (d *Draft) SubmitRq(doctorID string) (SubmitRq, error) {
	if !d.Ready() {
		return SubmitRq{}, ErrIncomplete
	}
	return SubmitRq{
		DoctorID:           doctorID,
		Name:               d.Personal.Name,
		Email:              d.Personal.Email,
		Phone:              validation.NormalizePhone(d.Personal.Phone),
		City:               d.Personal.City,
		Specialty:          d.Professional.Specialty,
		Qualification:      d.Professional.Qualification,
		ExperienceYears:    d.Professional.ExperienceYears,
		RegistrationNumber: d.Professional.RegistrationNumber,
		PreferredLocation:  d.Preferences.PreferredLocation,
		ExpectedSalary:     d.Preferences.ExpectedSalary,
		Availability:       d.Preferences.Availability,
		PDFURL:             d.Document.PDFURL,
	}, nil
}

// Preview is the CV the draft would submit, used by the review step.
func (d *Draft) Preview() CV {
	return CV{
		ID:                 d.ID,
		Name:               d.Personal.Name,
		Email:              d.Personal.Email,
		Phone:              d.Personal.Phone,
		City:               d.Personal.City,
		Specialty:          d.Professional.Specialty,
		Qualification:      d.Professional.Qualification,
		ExperienceYears:    d.Professional.ExperienceYears,
		RegistrationNumber: d.Professional.RegistrationNumber,
		PreferredLocation:  d.Preferences.PreferredLocation,
		ExpectedSalary:     d.Preferences.ExpectedSalary,
		Availability:       d.Preferences.Availability,
		PDFURL:             d.Document.PDFURL,
	}
}
