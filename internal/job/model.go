package job

import (
	"fmt"
	"strconv"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/gosimple/slug"

	"github.com/medhire/portal/internal/form"
	"github.com/medhire/portal/internal/table"
)

type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusPending Status = "pending"
)

var Statuses = []string{string(StatusOpen), string(StatusClosed), string(StatusPending)}

var JobTypes = []string{"full-time", "part-time", "contract", "locum", "internship"}

type Job struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Specialty     string    `json:"specialty"`
	JobType       string    `json:"jobType"`
	SalaryMin     int64     `json:"salaryMin"`
	SalaryMax     int64     `json:"salaryMax"`
	RecruiterID   string    `json:"recruiterId"`
	RecruiterName string    `json:"recruiterName"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (j Job) IsOpen() bool {
	return j.Status == StatusOpen
}

func (j Job) Slug() string {
	return slug.Make(fmt.Sprintf("%s %s", j.Title, j.Location))
}

func (j Job) SalaryRange() string {
	switch {
	case j.SalaryMin == 0 && j.SalaryMax == 0:
		return ""
	case j.SalaryMax == 0 || j.SalaryMax == j.SalaryMin:
		return humanize.Comma(j.SalaryMin)
	default:
		return fmt.Sprintf("%s - %s", humanize.Comma(j.SalaryMin), humanize.Comma(j.SalaryMax))
	}
}

var Columns = []table.Column{
	{Key: "title", Label: "Title", Searchable: true, Sortable: true},
	{Key: "specialty", Label: "Specialty", Searchable: true, Sortable: true, Filterable: true},
	{Key: "location", Label: "Location", Searchable: true, Sortable: true, Filterable: true},
	{Key: "type", Label: "Type", Sortable: true, Filterable: true},
	{Key: "salary", Label: "Salary"},
	{Key: "recruiter", Label: "Recruiter", Searchable: true, Sortable: true},
	{Key: "status", Label: "Status", Sortable: true, Filterable: true},
	{Key: "created", Label: "Posted", Sortable: true},
}

func (j Job) Value(column string) string {
	switch column {
	case "id":
		return j.ID
	case "title":
		return j.Title
	case "specialty":
		return j.Specialty
	case "location":
		return j.Location
	case "type":
		return j.JobType
	case "salary":
		return j.SalaryRange()
	case "salary_min":
		return strconv.FormatInt(j.SalaryMin, 10)
	case "recruiter":
		return j.RecruiterName
	case "status":
		return string(j.Status)
	case "created":
		if j.CreatedAt.IsZero() {
			return ""
		}
		return j.CreatedAt.Format("2006-01-02")
	}
	return ""
}

func (j Job) Details() []table.Detail {
	return []table.Detail{
		{Label: "Title", Value: j.Title},
		{Label: "Specialty", Value: j.Specialty},
		{Label: "Location", Value: j.Location},
		{Label: "Type", Value: j.JobType},
		{Label: "Salary", Value: j.SalaryRange()},
		{Label: "Recruiter", Value: j.RecruiterName},
		{Label: "Status", Value: string(j.Status)},
		{Label: "Posted", Value: j.Value("created")},
	}
}

// JobRq is the body of job create and update calls, decoded from the job form.
type JobRq struct {
	Title       string `json:"title" form:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" form:"description" validate:"required,min=20"`
	Location    string `json:"location" form:"location" validate:"required,max=80"`
	Specialty   string `json:"specialty" form:"specialty" validate:"required,max=80"`
	JobType     string `json:"jobType" form:"jobType" validate:"required,oneof=full-time part-time contract locum internship"`
	SalaryMin   int64  `json:"salaryMin" form:"salaryMin" validate:"gte=0"`
	SalaryMax   int64  `json:"salaryMax" form:"salaryMax" validate:"gte=0,gtefield=SalaryMin"`
	Status      Status `json:"status" form:"status" validate:"required,oneof=open closed pending"`
}

func NewJobRq(j Job) JobRq {
	return JobRq{
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Specialty:   j.Specialty,
		JobType:     j.JobType,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Status:      j.Status,
	}
}

func (rq JobRq) Fields() []form.Field {
	status := string(rq.Status)
	if status == "" {
		status = string(StatusOpen)
	}
	return []form.Field{
		form.Text("title", "Title", rq.Title, true),
		form.Text("specialty", "Specialty", rq.Specialty, true),
		form.Text("location", "Location", rq.Location, true),
		form.Select("jobType", "Job type", rq.JobType, JobTypes),
		form.Number("salaryMin", "Minimum salary", rq.SalaryMin, false),
		form.Number("salaryMax", "Maximum salary", rq.SalaryMax, false),
		form.Select("status", "Status", status, Statuses),
		form.Textarea("description", "Description (markdown)", rq.Description, true),
	}
}

type ApplyRq struct {
	CoverLetter string `json:"coverLetter" form:"coverLetter" validate:"max=2000"`
}
