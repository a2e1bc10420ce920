package application

import (
	"time"

	"github.com/medhire/portal/internal/table"
)

type Status string

const (
	StatusApplied     Status = "applied"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusHired       Status = "hired"
)

var Statuses = []string{
	string(StatusApplied),
	string(StatusShortlisted),
	string(StatusRejected),
	string(StatusHired),
}

type Application struct {
	ID            string    `json:"id"`
	JobID         string    `json:"jobId"`
	JobTitle      string    `json:"jobTitle"`
	ApplicantID   string    `json:"applicantId"`
	ApplicantName string    `json:"applicantName"`
	ApplicantRole string    `json:"applicantRole"`
	Status        Status    `json:"status"`
	CoverLetter   string    `json:"coverLetter"`
	AppliedAt     time.Time `json:"appliedAt"`
}

var Columns = []table.Column{
	{Key: "job", Label: "Job", Searchable: true, Sortable: true},
	{Key: "applicant", Label: "Applicant", Searchable: true, Sortable: true},
	{Key: "role", Label: "Role", Sortable: true, Filterable: true},
	{Key: "status", Label: "Status", Sortable: true, Filterable: true},
	{Key: "applied", Label: "Applied", Sortable: true},
}

func (a Application) Value(column string) string {
	switch column {
	case "id":
		return a.ID
	case "job":
		return a.JobTitle
	case "applicant":
		return a.ApplicantName
	case "role":
		return a.ApplicantRole
	case "status":
		return string(a.Status)
	case "applied":
		if a.AppliedAt.IsZero() {
			return ""
		}
		return a.AppliedAt.Format("2006-01-02")
	}
	return ""
}

type StatusRq struct {
	Status Status `json:"status" form:"status" validate:"required,oneof=applied shortlisted rejected hired"`
}
