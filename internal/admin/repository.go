package admin

import (
	"context"

	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/backend"
)

type Repository struct {
	admins backend.Resource[Admin]
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{admins: backend.NewResource[Admin](client, "/api/admin/admins")}
}

func (r *Repository) List(ctx context.Context, creds backend.Credentials) ([]Admin, error) {
	admins, err := r.admins.List(ctx, creds)
	return admins, errors.Wrap(err, "unable to list admins")
}

func (r *Repository) ByID(ctx context.Context, creds backend.Credentials, id string) (Admin, error) {
	a, err := r.admins.Get(ctx, creds, id)
	return a, errors.Wrapf(err, "unable to get admin %s", id)
}

func (r *Repository) Update(ctx context.Context, creds backend.Credentials, id string, rq UpdateRq) error {
	_, err := r.admins.Update(ctx, creds, id, rq)
	return errors.Wrapf(err, "unable to update admin %s", id)
}

func (r *Repository) Delete(ctx context.Context, creds backend.Credentials, id string) error {
	return errors.Wrapf(r.admins.Delete(ctx, creds, id), "unable to delete admin %s", id)
}
