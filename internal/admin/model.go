package admin

import (
	"time"

	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/table"
)

type Admin struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	SuperAdmin bool      `json:"superAdmin"`
	CreatedAt  time.Time `json:"createdAt"`
}

var Columns = []table.Column{
	{Key: "name", Label: "Name", Searchable: true, Sortable: true},
	{Key: "email", Label: "Email", Searchable: true, Sortable: true},
	{Key: "phone", Label: "Phone", Searchable: true},
	{Key: "super", Label: "Super admin", Sortable: true, Filterable: true},
}

func (a Admin) Value(column string) string {
	switch column {
	case "id":
		return a.ID
	case "name":
		return a.Name
	case "email":
		return a.Email
	case "phone":
		return a.Phone
	case "super":
		if a.SuperAdmin {
			return "yes"
		}
		return "no"
	}
	return ""
}

func (a Admin) Details() []table.Detail {
	return []table.Detail{
		{Label: "Name", Value: a.Name},
		{Label: "Email", Value: a.Email},
		{Label: "Phone", Value: a.Phone},
		{Label: "Super admin", Value: a.Value("super")},
	}
}

type UpdateRq struct {
	Name       string `json:"name" form:"name" validate:"required,personname"`
	Email      string `json:"email" form:"email" validate:"required,max=254,emailaddr"`
	Phone      string `json:"phone" form:"phone" validate:"omitempty,phone"`
	SuperAdmin bool   `json:"superAdmin" form:"superAdmin"`
}

func NewUpdateRq(a Admin) UpdateRq {
	return UpdateRq{Name: a.Name, Email: a.Email, Phone: a.Phone, SuperAdmin: a.SuperAdmin}
}

func (rq UpdateRq) Fields() []form.Field {
	return []form.Field{
		form.Text("name", "Name", rq.Name, true),
		form.Email("email", "Email", rq.Email),
		form.Tel("phone", "Phone", rq.Phone, false),
		form.Checkbox("superAdmin", "Super admin", rq.SuperAdmin),
	}
}
