package institute

import (
	"context"

	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/backend"
)

type Repository struct {
	institutes backend.Resource[Institute]
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{institutes: backend.NewResource[Institute](client, "/api/admin/institutes")}
}

func (r *Repository) List(ctx context.Context, creds backend.Credentials) ([]Institute, error) {
	institutes, err := r.institutes.List(ctx, creds)
	return institutes, errors.Wrap(err, "unable to list institutes")
}

func (r *Repository) ByID(ctx context.Context, creds backend.Credentials, id string) (Institute, error) {
	i, err := r.institutes.Get(ctx, creds, id)
	return i, errors.Wrapf(err, "unable to get institute %s", id)
}

func (r *Repository) Update(ctx context.Context, creds backend.Credentials, id string, rq UpdateRq) error {
	_, err := r.institutes.Update(ctx, creds, id, rq)
	return errors.Wrapf(err, "unable to update institute %s", id)
}

func (r *Repository) Delete(ctx context.Context, creds backend.Credentials, id string) error {
	return errors.Wrapf(r.institutes.Delete(ctx, creds, id), "unable to delete institute %s", id)
}
