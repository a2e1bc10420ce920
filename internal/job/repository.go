package job

import (
	"context"

	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/backend"
)

type Repository struct {
	admin     backend.Resource[Job]
	recruiter backend.Resource[Job]
	public    backend.Resource[Job]
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{
		admin:     backend.NewResource[Job](client, "/api/admin/jobs"),
		recruiter: backend.NewResource[Job](client, "/api/recruiter/jobs"),
		public:    backend.NewResource[Job](client, "/api/jobs"),
	}
}

func (r *Repository) AdminJobs(ctx context.Context, creds backend.Credentials) ([]Job, error) {
	jobs, err := r.admin.List(ctx, creds)
	return jobs, errors.Wrap(err, "unable to list jobs")
}

func (r *Repository) JobByID(ctx context.Context, creds backend.Credentials, id string) (Job, error) {
	j, err := r.admin.Get(ctx, creds, id)
	return j, errors.Wrapf(err, "unable to get job %s", id)
}

func (r *Repository) UpdateJob(ctx context.Context, creds backend.Credentials, id string, rq JobRq) error {
	_, err := r.admin.Update(ctx, creds, id, rq)
	return errors.Wrapf(err, "unable to update job %s", id)
}

func (r *Repository) DeleteJob(ctx context.Context, creds backend.Credentials, id string) error {
	return errors.Wrapf(r.admin.Delete(ctx, creds, id), "unable to delete job %s", id)
}

func (r *Repository) RecruiterJobs(ctx context.Context, creds backend.Credentials) ([]Job, error) {
	jobs, err := r.recruiter.List(ctx, creds)
	return jobs, errors.Wrap(err, "unable to list recruiter jobs")
}

func (r *Repository) RecruiterJobByID(ctx context.Context, creds backend.Credentials, id string) (Job, error) {
	j, err := r.recruiter.Get(ctx, creds, id)
	return j, errors.Wrapf(err, "unable to get recruiter job %s", id)
}

func (r *Repository) CreateJob(ctx context.Context, creds backend.Credentials, rq JobRq) (Job, error) {
	j, err := r.recruiter.Create(ctx, creds, rq)
	return j, errors.Wrap(err, "unable to create job")
}

func (r *Repository) UpdateRecruiterJob(ctx context.Context, creds backend.Credentials, id string, rq JobRq) error {
	_, err := r.recruiter.Update(ctx, creds, id, rq)
	return errors.Wrapf(err, "unable to update recruiter job %s", id)
}

func (r *Repository) DeleteRecruiterJob(ctx context.Context, creds backend.Credentials, id string) error {
	return errors.Wrapf(r.recruiter.Delete(ctx, creds, id), "unable to delete recruiter job %s", id)
}

// OpenJobs lists the jobs accepting applications. The backend may return
// closed or pending jobs as well, those are dropped here.
func (r *Repository) OpenJobs(ctx context.Context, creds backend.Credentials) ([]Job, error) {
	jobs, err := r.public.List(ctx, creds)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list open jobs")
	}
	open := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j.IsOpen() {
			open = append(open, j)
		}
	}
	return open, nil
}

func (r *Repository) PublicJobByID(ctx context.Context, creds backend.Credentials, id string) (Job, error) {
	j, err := r.public.Get(ctx, creds, id)
	return j, errors.Wrapf(err, "unable to get job %s", id)
}

func (r *Repository) Apply(ctx context.Context, creds backend.Credentials, id string, rq ApplyRq) error {
	return errors.Wrapf(r.public.PostSub(ctx, creds, id, "apply", rq, nil), "unable to apply to job %s", id)
}
