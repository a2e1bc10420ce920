package recruiter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/table"
)

type Recruiter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	City      string    `json:"city"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`

	// JobCount is filled by ListWithJobCounts, the list endpoint does not
	// carry it.
	JobCount int64 `json:"-"`
}

var Columns = []table.Column{
	{Key: "name", Label: "Name", Searchable: true, Sortable: true},
	{Key: "email", Label: "Email", Searchable: true, Sortable: true},
	{Key: "phone", Label: "Phone", Searchable: true},
	{Key: "company", Label: "Company", Searchable: true, Sortable: true, Filterable: true},
	{Key: "city", Label: "City", Searchable: true, Sortable: true, Filterable: true},
	{Key: "jobs", Label: "Jobs", Sortable: true},
	{Key: "verified", Label: "Verified", Sortable: true, Filterable: true},
}

func (r Recruiter) Value(column string) string {
	switch column {
	case "id":
		return r.ID
	case "name":
		return r.Name
	case "email":
		return r.Email
	case "phone":
		return r.Phone
	case "company":
		return r.Company
	case "city":
		return r.City
	case "jobs":
		return strconv.FormatInt(r.JobCount, 10)
	case "verified":
		if r.Verified {
			return "yes"
		}
		return "no"
	}
	return ""
}

func (r Recruiter) Details() []table.Detail {
	return []table.Detail{
		{Label: "Name", Value: r.Name},
		{Label: "Email", Value: r.Email},
		{Label: "Phone", Value: r.Phone},
		{Label: "Company", Value: r.Company},
		{Label: "City", Value: r.City},
		{Label: "Jobs posted", Value: r.Value("jobs")},
		{Label: "Verified", Value: r.Value("verified")},
	}
}

type UpdateRq struct {
	Name     string `json:"name" form:"name" validate:"required,personname"`
	Email    string `json:"email" form:"email" validate:"required,max=254,emailaddr"`
	Phone    string `json:"phone" form:"phone" validate:"required,phone"`
	Company  string `json:"company" form:"company" validate:"required,max=120"`
	City     string `json:"city" form:"city" validate:"required,max=80"`
	Verified bool   `json:"verified" form:"verified"`
}

func NewUpdateRq(r Recruiter) UpdateRq {
	return UpdateRq{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Company:  r.Company,
		City:     r.City,
		Verified: r.Verified,
	}
}

func (rq UpdateRq) Fields() []form.Field {
	return []form.Field{
		form.Text("name", "Name", rq.Name, true),
		form.Email("email", "Email", rq.Email),
		form.Tel("phone", "Phone", rq.Phone, true),
		form.Text("company", "Company", rq.Company, true),
		form.Text("city", "City", rq.City, true),
		form.Checkbox("verified", "Verified", rq.Verified),
	}
}

// parseJobCount reads the jobcount payload, served either as a bare number
// or as {"count": n} / {"jobCount": n}.
func parseJobCount(raw []byte) (int64, error) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	obj := struct {
		Count    *int64 `json:"count"`
		JobCount *int64 `json:"jobCount"`
	}{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, err
	}
	switch {
	case obj.Count != nil:
		return *obj.Count, nil
	case obj.JobCount != nil:
		return *obj.JobCount, nil
	}
	return 0, fmt.Errorf("no count in %q", raw)
}
