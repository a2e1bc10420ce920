package institute

import (
	"strconv"
	"time"

	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/table"
)

type Institute struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	City          string    `json:"city"`
	Accreditation string    `json:"accreditation"`
	StudentCount  int64     `json:"studentCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

var Columns = []table.Column{
	{Key: "name", Label: "Name", Searchable: true, Sortable: true},
	{Key: "email", Label: "Email", Searchable: true, Sortable: true},
	{Key: "phone", Label: "Phone", Searchable: true},
	{Key: "city", Label: "City", Searchable: true, Sortable: true, Filterable: true},
	{Key: "accreditation", Label: "Accreditation", Searchable: true, Sortable: true, Filterable: true},
	{Key: "students", Label: "Students", Sortable: true},
}

func (i Institute) Value(column string) string {
	switch column {
	case "id":
		return i.ID
	case "name":
		return i.Name
	case "email":
		return i.Email
	case "phone":
		return i.Phone
	case "city":
		return i.City
	case "accreditation":
		return i.Accreditation
	case "students":
		return strconv.FormatInt(i.StudentCount, 10)
	}
	return ""
}

func (i Institute) Details() []table.Detail {
	return []table.Detail{
		{Label: "Name", Value: i.Name},
		{Label: "Email", Value: i.Email},
		{Label: "Phone", Value: i.Phone},
		{Label: "City", Value: i.City},
		{Label: "Accreditation", Value: i.Accreditation},
		{Label: "Students", Value: i.Value("students")},
	}
}

// UpdateRq names the institute with the name tag rather than personname,
// institute names carry digits and ampersands.
type UpdateRq struct {
	Name          string `json:"name" form:"name" validate:"required,min=2,max=120"`
	Email         string `json:"email" form:"email" validate:"required,max=254,emailaddr"`
	Phone         string `json:"phone" form:"phone" validate:"required,phone"`
	City          string `json:"city" form:"city" validate:"required,max=80"`
	Accreditation string `json:"accreditation" form:"accreditation" validate:"max=80"`
}

func NewUpdateRq(i Institute) UpdateRq {
	return UpdateRq{
		Name:          i.Name,
		Email:         i.Email,
		Phone:         i.Phone,
		City:          i.City,
		Accreditation: i.Accreditation,
	}
}

func (rq UpdateRq) Fields() []form.Field {
	return []form.Field{
		form.Text("name", "Name", rq.Name, true),
		form.Email("email", "Email", rq.Email),
		form.Tel("phone", "Phone", rq.Phone, true),
		form.Text("city", "City", rq.City, true),
		form.Text("accreditation", "Accreditation", rq.Accreditation, false),
	}
}
