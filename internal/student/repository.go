package student

import (
	"context"

	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/backend"
)

type Repository struct {
	students  backend.Resource[Student]
	institute backend.Resource[Student]
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{
		students:  backend.NewResource[Student](client, "/api/admin/students"),
		institute: backend.NewResource[Student](client, "/api/institute/students"),
	}
}

func (r *Repository) List(ctx context.Context, creds backend.Credentials) ([]Student, error) {
	students, err := r.students.List(ctx, creds)
	return students, errors.Wrap(err, "unable to list students")
}

// ForInstitute lists the students enrolled at the signed in institute.
func (r *Repository) ForInstitute(ctx context.Context, creds backend.Credentials) ([]Student, error) {
	students, err := r.institute.List(ctx, creds)
	return students, errors.Wrap(err, "unable to list institute students")
}

func (r *Repository) ByID(ctx context.Context, creds backend.Credentials, id string) (Student, error) {
	s, err := r.students.Get(ctx, creds, id)
	return s, errors.Wrapf(err, "unable to get student %s", id)
}

func (r *Repository) Update(ctx context.Context, creds backend.Credentials, id string, rq UpdateRq) error {
	_, err := r.students.Update(ctx, creds, id, rq)
	return errors.Wrapf(err, "unable to update student %s", id)
}

func (r *Repository) Delete(ctx context.Context, creds backend.Credentials, id string) error {
	return errors.Wrapf(r.students.Delete(ctx, creds, id), "unable to delete student %s", id)
}
