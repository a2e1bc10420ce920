package cv

import (
	"strconv"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/medhire/portal/internal/table"
)

var Availabilities = []string{"immediate", "1-month", "3-months", "6-months"}

type CV struct {
	ID                 string    `json:"id"`
	DoctorID           string    `json:"doctorId"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	City               string    `json:"city"`
	Specialty          string    `json:"specialty"`
	Qualification      string    `json:"qualification"`
	ExperienceYears    int64     `json:"experienceYears"`
	RegistrationNumber string    `json:"registrationNumber"`
	PreferredLocation  string    `json:"preferredLocation"`
	ExpectedSalary     int64     `json:"expectedSalary"`
	Availability       string    `json:"availability"`
	PDFURL             string    `json:"pdfUrl"`
	SubmittedAt        time.Time `json:"submittedAt"`
}

var Columns = []table.Column{
	{Key: "name", Label: "Doctor", Searchable: true, Sortable: true},
	{Key: "email", Label: "Email", Searchable: true, Sortable: true},
	{Key: "specialty", Label: "Specialty", Searchable: true, Sortable: true, Filterable: true},
	{Key: "experience", Label: "Experience (years)", Sortable: true},
	{Key: "location", Label: "Preferred location", Searchable: true, Sortable: true, Filterable: true},
	{Key: "availability", Label: "Availability", Sortable: true, Filterable: true},
	{Key: "submitted", Label: "Submitted", Sortable: true},
}

func (c CV) Value(column string) string {
	switch column {
	case "id":
		return c.ID
	case "name":
		return c.Name
	case "email":
		return c.Email
	case "phone":
		return c.Phone
	case "specialty":
		return c.Specialty
	case "experience":
		return strconv.FormatInt(c.ExperienceYears, 10)
	case "location":
		return c.PreferredLocation
	case "salary":
		return strconv.FormatInt(c.ExpectedSalary, 10)
	case "availability":
		return c.Availability
	case "pdf":
		return c.PDFURL
	case "submitted":
		if c.SubmittedAt.IsZero() {
			return ""
		}
		return c.SubmittedAt.Format("2006-01-02")
	}
	return ""
}

func (c CV) Details() []table.Detail {
	salary := ""
	if c.ExpectedSalary > 0 {
		salary = humanize.Comma(c.ExpectedSalary)
	}
	return []table.Detail{
		{Label: "Name", Value: c.Name},
		{Label: "Email", Value: c.Email},
		{Label: "Phone", Value: c.Phone},
		{Label: "City", Value: c.City},
		{Label: "Specialty", Value: c.Specialty},
		{Label: "Qualification", Value: c.Qualification},
		{Label: "Experience (years)", Value: c.Value("experience")},
		{Label: "Registration number", Value: c.RegistrationNumber},
		{Label: "Preferred location", Value: c.PreferredLocation},
		{Label: "Expected salary", Value: salary},
		{Label: "Availability", Value: c.Availability},
		{Label: "CV document", Value: c.PDFURL},
		{Label: "Submitted", Value: c.Value("submitted")},
	}
}

type SubmitRq struct {
	DoctorID           string `json:"doctorId"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	City               string `json:"city"`
	Specialty          string `json:"specialty"`
	Qualification      string `json:"qualification"`
	ExperienceYears    int64  `json:"experienceYears"`
	RegistrationNumber string `json:"registrationNumber"`
	PreferredLocation  string `json:"preferredLocation"`
	ExpectedSalary     int64  `json:"expectedSalary"`
	Availability       string `json:"availability"`
	PDFURL             string `json:"pdfUrl"`
}
