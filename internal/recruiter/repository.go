package recruiter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/medhire/portal/internal/backend"
)

// maxJobCountCalls bounds the concurrent jobcount calls of ListWithJobCounts.
const maxJobCountCalls = 8

type Repository struct {
	recruiters backend.Resource[Recruiter]
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{recruiters: backend.NewResource[Recruiter](client, "/api/admin/recruiters")}
}

func (r *Repository) List(ctx context.Context, creds backend.Credentials) ([]Recruiter, error) {
	recruiters, err := r.recruiters.List(ctx, creds)
	return recruiters, errors.Wrap(err, "unable to list recruiters")
}

func (r *Repository) ByID(ctx context.Context, creds backend.Credentials, id string) (Recruiter, error) {
	rec, err := r.recruiters.Get(ctx, creds, id)
	if err != nil {
		return rec, errors.Wrapf(err, "unable to get recruiter %s", id)
	}
	count, err := r.JobCount(ctx, creds, id)
	if err != nil {
		return rec, err
	}
	rec.JobCount = count
	return rec, nil
}

func (r *Repository) Update(ctx context.Context, creds backend.Credentials, id string, rq UpdateRq) error {
	_, err := r.recruiters.Update(ctx, creds, id, rq)
	return errors.Wrapf(err, "unable to update recruiter %s", id)
}

func (r *Repository) Delete(ctx context.Context, creds backend.Credentials, id string) error {
	return errors.Wrapf(r.recruiters.Delete(ctx, creds, id), "unable to delete recruiter %s", id)
}

func (r *Repository) JobCount(ctx context.Context, creds backend.Credentials, id string) (int64, error) {
	var raw json.RawMessage
	if err := r.recruiters.GetSub(ctx, creds, id, "jobcount", &raw); err != nil {
		return 0, errors.Wrapf(err, "unable to get job count of recruiter %s", id)
	}
	n, err := parseJobCount(raw)
	return n, errors.Wrapf(err, "unable to read job count of recruiter %s", id)
}

// ListWithJobCounts lists recruiters and fills JobCount for each of them.
// The first failing count cancels the others and fails the whole listing.
func (r *Repository) ListWithJobCounts(ctx context.Context, creds backend.Credentials) ([]Recruiter, error) {
	recruiters, err := r.List(ctx, creds)
	if err != nil {
		return nil, err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxJobCountCalls)
	for i := range recruiters {
		i := i
		g.Go(func() error {
			n, err := r.JobCount(gctx, creds, recruiters[i].ID)
			if err != nil {
				return err
			}
			recruiters[i].JobCount = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return recruiters, nil
}
