package doctor

import (
	"strconv"
	"time"

	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/table"
)

type Doctor struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Specialty          string    `json:"specialty"`
	Qualification      string    `json:"qualification"`
	ExperienceYears    int64     `json:"experienceYears"`
	RegistrationNumber string    `json:"registrationNumber"`
	City               string    `json:"city"`
	Verified           bool      `json:"verified"`
	CreatedAt          time.Time `json:"createdAt"`
}

var Columns = []table.Column{
	{Key: "name", Label: "Name", Searchable: true, Sortable: true},
	{Key: "email", Label: "Email", Searchable: true, Sortable: true},
	{Key: "phone", Label: "Phone", Searchable: true},
	{Key: "specialty", Label: "Specialty", Searchable: true, Sortable: true, Filterable: true},
	{Key: "experience", Label: "Experience (years)", Sortable: true},
	{Key: "city", Label: "City", Searchable: true, Sortable: true, Filterable: true},
	{Key: "verified", Label: "Verified", Sortable: true, Filterable: true},
}

func (d Doctor) Value(column string) string {
	switch column {
	case "id":
		return d.ID
	case "name":
		return d.Name
	case "email":
		return d.Email
	case "phone":
		return d.Phone
	case "specialty":
		return d.Specialty
	case "qualification":
		return d.Qualification
	case "experience":
		return strconv.FormatInt(d.ExperienceYears, 10)
	case "registration":
		return d.RegistrationNumber
	case "city":
		return d.City
	case "verified":
		return yesNo(d.Verified)
	}
	return ""
}

func (d Doctor) Details() []table.Detail {
	return []table.Detail{
		{Label: "Name", Value: d.Name},
		{Label: "Email", Value: d.Email},
		{Label: "Phone", Value: d.Phone},
		{Label: "Specialty", Value: d.Specialty},
		{Label: "Qualification", Value: d.Qualification},
		{Label: "Experience (years)", Value: d.Value("experience")},
		{Label: "Registration number", Value: d.RegistrationNumber},
		{Label: "City", Value: d.City},
		{Label: "Verified", Value: yesNo(d.Verified)},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type UpdateRq struct {
	Name               string `json:"name" form:"name" validate:"required,personname"`
	Email              string `json:"email" form:"email" validate:"required,max=254,emailaddr"`
	Phone              string `json:"phone" form:"phone" validate:"required,phone"`
	Specialty          string `json:"specialty" form:"specialty" validate:"required,max=80"`
	Qualification      string `json:"qualification" form:"qualification" validate:"required,max=120"`
	ExperienceYears    int64  `json:"experienceYears" form:"experienceYears" validate:"gte=0,lte=60"`
	RegistrationNumber string `json:"registrationNumber" form:"registrationNumber" validate:"required,max=40"`
	City               string `json:"city" form:"city" validate:"required,max=80"`
	Verified           bool   `json:"verified" form:"verified"`
}

func NewUpdateRq(d Doctor) UpdateRq {
	return UpdateRq{
		Name:               d.Name,
		Email:              d.Email,
		Phone:              d.Phone,
		Specialty:          d.Specialty,
		Qualification:      d.Qualification,
		ExperienceYears:    d.ExperienceYears,
		RegistrationNumber: d.RegistrationNumber,
		City:               d.City,
		Verified:           d.Verified,
	}
}

func (rq UpdateRq) Fields() []form.Field {
	return []form.Field{
		form.Text("name", "Name", rq.Name, true),
		form.Email("email", "Email", rq.Email),
		form.Tel("phone", "Phone", rq.Phone, true),
		form.Text("specialty", "Specialty", rq.Specialty, true),
		form.Text("qualification", "Qualification", rq.Qualification, true),
		form.Number("experienceYears", "Experience (years)", rq.ExperienceYears, false),
		form.Text("registrationNumber", "Registration number", rq.RegistrationNumber, true),
		form.Text("city", "City", rq.City, true),
		form.Checkbox("verified", "Verified", rq.Verified),
	}
}
