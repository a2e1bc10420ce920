package student

import (
	"strconv"
	"time"

	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/table"
)

type Student struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Institute      string    `json:"institute"`
	Course         string    `json:"course"`
	GraduationYear int64     `json:"graduationYear"`
	CreatedAt      time.Time `json:"createdAt"`
}

var Columns = []table.Column{
	{Key: "name", Label: "Name", Searchable: true, Sortable: true},
	{Key: "email", Label: "Email", Searchable: true, Sortable: true},
	{Key: "phone", Label: "Phone", Searchable: true},
	{Key: "institute", Label: "Institute", Searchable: true, Sortable: true, Filterable: true},
	{Key: "course", Label: "Course", Searchable: true, Sortable: true, Filterable: true},
	{Key: "graduation", Label: "Graduation", Sortable: true, Filterable: true},
}

func (s Student) Value(column string) string {
	switch column {
	case "id":
		return s.ID
	case "name":
		return s.Name
	case "email":
		return s.Email
	case "phone":
		return s.Phone
	case "institute":
		return s.Institute
	case "course":
		return s.Course
	case "graduation":
		if s.GraduationYear == 0 {
			return ""
		}
		return strconv.FormatInt(s.GraduationYear, 10)
	}
	return ""
}

func (s Student) Details() []table.Detail {
	return []table.Detail{
		{Label: "Name", Value: s.Name},
		{Label: "Email", Value: s.Email},
		{Label: "Phone", Value: s.Phone},
		{Label: "Institute", Value: s.Institute},
		{Label: "Course", Value: s.Course},
		{Label: "Graduation year", Value: s.Value("graduation")},
	}
}

type UpdateRq struct {
	Name           string `json:"name" form:"name" validate:"required,personname"`
	Email          string `json:"email" form:"email" validate:"required,max=254,emailaddr"`
	Phone          string `json:"phone" form:"phone" validate:"required,phone"`
	Institute      string `json:"institute" form:"institute" validate:"required,max=120"`
	Course         string `json:"course" form:"course" validate:"required,max=120"`
	GraduationYear int64  `json:"graduationYear" form:"graduationYear" validate:"omitempty,gte=1950,lte=2100"`
}

func NewUpdateRq(s Student) UpdateRq {
	return UpdateRq{
		Name:           s.Name,
		Email:          s.Email,
		Phone:          s.Phone,
		Institute:      s.Institute,
		Course:         s.Course,
		GraduationYear: s.GraduationYear,
	}
}

func (rq UpdateRq) Fields() []form.Field {
	return []form.Field{
		form.Text("name", "Name", rq.Name, true),
		form.Email("email", "Email", rq.Email),
		form.Tel("phone", "Phone", rq.Phone, true),
		form.Text("institute", "Institute", rq.Institute, true),
		form.Text("course", "Course", rq.Course, true),
		form.Number("graduationYear", "Graduation year", rq.GraduationYear, false),
	}
}
