package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/backend"
)

type Repository struct {
	jobs         backend.Resource[Application]
	applications backend.Resource[Application]
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{
		jobs:         backend.NewResource[Application](client, "/api/recruiter/jobs"),
		applications: backend.NewResource[Application](client, "/api/applications"),
	}
}

// ForJob lists the applications received by one of the recruiter's jobs.
func (r *Repository) ForJob(ctx context.Context, creds backend.Credentials, jobID string) ([]Application, error) {
	apps := make([]Application, 0)
	if err := r.jobs.GetSub(ctx, creds, jobID, "applications", &apps); err != nil {
		return nil, errors.Wrapf(err, "unable to list applications for job %s", jobID)
	}
	return apps, nil
}

// Mine lists the applications sent by the signed in doctor or student.
func (r *Repository) Mine(ctx context.Context, creds backend.Credentials) ([]Application, error) {
	apps, err := r.applications.List(ctx, creds)
	return apps, errors.Wrap(err, "unable to list applications")
}

func (r *Repository) UpdateStatus(ctx context.Context, creds backend.Credentials, id string, status Status) error {
	err := r.applications.PatchSub(ctx, creds, id, "status", StatusRq{Status: status}, nil)
	return errors.Wrapf(err, "unable to update application %s", id)
}
