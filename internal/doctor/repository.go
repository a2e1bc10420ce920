package doctor

import (
	"context"

	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/backend"
)

type Repository struct {
	doctors backend.Resource[Doctor]
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{doctors: backend.NewResource[Doctor](client, "/api/admin/doctors")}
}

func (r *Repository) List(ctx context.Context, creds backend.Credentials) ([]Doctor, error) {
	doctors, err := r.doctors.List(ctx, creds)
	return doctors, errors.Wrap(err, "unable to list doctors")
}

func (r *Repository) ByID(ctx context.Context, creds backend.Credentials, id string) (Doctor, error) {
	d, err := r.doctors.Get(ctx, creds, id)
	return d, errors.Wrapf(err, "unable to get doctor %s", id)
}

func (r *Repository) Update(ctx context.Context, creds backend.Credentials, id string, rq UpdateRq) error {
	_, err := r.doctors.Update(ctx, creds, id, rq)
	return errors.Wrapf(err, "unable to update doctor %s", id)
}

func (r *Repository) Delete(ctx context.Context, creds backend.Credentials, id string) error {
	return errors.Wrapf(r.doctors.Delete(ctx, creds, id), "unable to delete doctor %s", id)
}
