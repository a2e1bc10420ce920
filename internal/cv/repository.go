package cv

import (
	"context"

	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/backend"
)

type Repository struct {
	admin   backend.Resource[CV]
	doctors backend.Resource[CV]
	client  *backend.Client
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{
		admin:   backend.NewResource[CV](client, "/api/admin/cvs"),
		doctors: backend.NewResource[CV](client, "/CvdoctorUpdate"),
		client:  client,
	}
}

func (r *Repository) List(ctx context.Context, creds backend.Credentials) ([]CV, error) {
	cvs, err := r.admin.List(ctx, creds)
	return cvs, errors.Wrap(err, "unable to list cvs")
}

func (r *Repository) ByID(ctx context.Context, creds backend.Credentials, id string) (CV, error) {
	c, err := r.admin.Get(ctx, creds, id)
	return c, errors.Wrapf(err, "unable to get cv %s", id)
}

// ForDoctor returns the CV last submitted by the doctor. A doctor without a
// CV yields backend.IsNotFound errors.
func (r *Repository) ForDoctor(ctx context.Context, creds backend.Credentials, doctorID string) (CV, error) {
	c, err := r.doctors.Get(ctx, creds, doctorID)
	return c, errors.Wrapf(err, "unable to get cv of doctor %s", doctorID)
}

func (r *Repository) Submit(ctx context.Context, creds backend.Credentials, rq SubmitRq) error {
	err := r.client.Post(ctx, creds, "/CvdoctorUpdate/addDoctorCv", rq, nil)
	return errors.Wrapf(err, "unable to submit cv of doctor %s", rq.DoctorID)
}
