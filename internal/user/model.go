package user

import (
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/table"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDoctor    Role = "doctor"
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleInstitute Role = "institute"
)

var Roles = []string{
	string(RoleDoctor),
	string(RoleStudent),
	string(RoleRecruiter),
	string(RoleInstitute),
	string(RoleAdmin),
}

// SelfServiceRoles are the roles a visitor may register for.
var SelfServiceRoles = []string{
	string(RoleDoctor),
	string(RoleStudent),
	string(RoleRecruiter),
	string(RoleInstitute),
}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if string(r) == v {
			return true
		}
	}
	return false
}

func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleDoctor:
		return "Doctor"
	case RoleStudent:
		return "Student"
	case RoleRecruiter:
		return "Recruiter"
	case RoleInstitute:
		return "Institute"
	}
	return string(r)
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is what a successful login yields: the user and the token to
// present to the backend on their behalf.
type Session struct {
	User  User
	Token string
}

type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	City         string    `json:"city"`
	Bio          string    `json:"bio"`
	Organisation string    `json:"organisation"`
	Specialty    string    `json:"specialty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p Profile) MemberSince() string {
	if p.CreatedAt.IsZero() {
		return ""
	}
	return humanize.Time(p.CreatedAt)
}

func (p Profile) Details() []table.Detail {
	details := []table.Detail{
		{Label: "Name", Value: p.Name},
		{Label: "Email", Value: p.Email},
		{Label: "Phone", Value: p.Phone},
		{Label: "Role", Value: p.Role.Label()},
		{Label: "City", Value: p.City},
	}
	if p.Organisation != "" {
		details = append(details, table.Detail{Label: "Organisation", Value: p.Organisation})
	}
	if p.Specialty != "" {
		details = append(details, table.Detail{Label: "Specialty", Value: p.Specialty})
	}
	if p.Bio != "" {
		details = append(details, table.Detail{Label: "About", Value: p.Bio})
	}
	if since := p.MemberSince(); since != "" {
		details = append(details, table.Detail{Label: "Member since", Value: since})
	}
	return details
}

type LoginRq struct {
	Email    string `json:"email" form:"email" validate:"required,max=254,emailaddr"`
	Password string `json:"password" form:"password" clean:"-" validate:"required"`
	Role     Role   `json:"role" form:"role" validate:"required,oneof=admin doctor student recruiter institute"`
}

type RegisterRq struct {
	Name         string `json:"name" form:"name" validate:"required,personname"`
	Email        string `json:"email" form:"email" validate:"required,max=254,emailaddr"`
	Phone        string `json:"phone" form:"phone" validate:"required,phone"`
	Password     string `json:"password" form:"password" clean:"-" validate:"required,password"`
	Confirm      string `json:"-" form:"confirm" clean:"-" validate:"required,eqfield=Password"`
	Role         Role   `json:"role" form:"role" validate:"required,oneof=doctor student recruiter institute"`
	City         string `json:"city" form:"city" validate:"max=80"`
	Organisation string `json:"organisation,omitempty" form:"organisation" validate:"required_if=Role recruiter,required_if=Role institute,max=120"`
	Specialty    string `json:"specialty,omitempty" form:"specialty" validate:"required_if=Role doctor,max=80"`
}

func (rq RegisterRq) Fields() []form.Field {
	return []form.Field{
		form.Select("role", "I am a", string(rq.Role), SelfServiceRoles),
		form.Text("name", "Full name", rq.Name, true),
		form.Email("email", "Email", rq.Email),
		form.Tel("phone", "Phone", rq.Phone, true),
		form.Text("city", "City", rq.City, false),
		form.Text("organisation", "Company or institute (recruiters and institutes)", rq.Organisation, false),
		form.Text("specialty", "Specialty (doctors)", rq.Specialty, false),
		form.Password("password", "Password"),
		form.Password("confirm", "Confirm password"),
	}
}

type ProfileRq struct {
	Name         string `json:"name" form:"name" validate:"required,personname"`
	Email        string `json:"email" form:"email" validate:"required,max=254,emailaddr"`
	Phone        string `json:"phone" form:"phone" validate:"required,phone"`
	City         string `json:"city" form:"city" validate:"max=80"`
	Bio          string `json:"bio" form:"bio" validate:"max=1000"`
	Organisation string `json:"organisation" form:"organisation" validate:"max=120"`
	Specialty    string `json:"specialty" form:"specialty" validate:"max=80"`
}

func NewProfileRq(p Profile) ProfileRq {
	return ProfileRq{
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		City:         p.City,
		Bio:          p.Bio,
		Organisation: p.Organisation,
		Specialty:    p.Specialty,
	}
}

func (rq ProfileRq) Fields() []form.Field {
	return []form.Field{
		form.Text("name", "Full name", rq.Name, true),
		form.Email("email", "Email", rq.Email),
		form.Tel("phone", "Phone", rq.Phone, true),
		form.Text("city", "City", rq.City, false),
		form.Text("organisation", "Organisation", rq.Organisation, false),
		form.Text("specialty", "Specialty", rq.Specialty, false),
		form.Textarea("bio", "About", rq.Bio, false),
	}
}
