package backend

import (
	"context"
	"net/url"
)

// Resource is a REST collection living at Path, e.g. /api/admin/doctors.
type Resource[T any] struct {
	client *Client
	Path   string
}

func NewResource[T any](client *Client, path string) Resource[T] {
	return Resource[T]{client: client, Path: path}
}

func (r Resource[T]) itemPath(id string) string {
	return r.Path + "/" + url.PathEscape(id)
}

func (r Resource[T]) List(ctx context.Context, creds Credentials) ([]T, error) {
	items := make([]T, 0)
	if err := r.client.Get(ctx, creds, r.Path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r Resource[T]) Get(ctx context.Context, creds Credentials, id string) (T, error) {
	var item T
	err := r.client.Get(ctx, creds, r.itemPath(id), &item)
	return item, err
}

func (r Resource[T]) Create(ctx context.Context, creds Credentials, in interface{}) (T, error) {
	var item T
	err := r.client.Post(ctx, creds, r.Path, in, &item)
	return item, err
}

func (r Resource[T]) Update(ctx context.Context, creds Credentials, id string, in interface{}) (T, error) {
	var item T
	err := r.client.Put(ctx, creds, r.itemPath(id), in, &item)
	return item, err
}

func (r Resource[T]) Delete(ctx context.Context, creds Credentials, id string) error {
	return r.client.Delete(ctx, creds, r.itemPath(id))
}

// GetSub reads a sub-resource of an item, e.g. /api/admin/recruiters/7/jobcount.
func (r Resource[T]) GetSub(ctx context.Context, creds Credentials, id, sub string, out interface{}) error {
	return r.client.Get(ctx, creds, r.itemPath(id)+"/"+sub, out)
}

// PostSub posts to an item action, e.g. /api/jobs/42/apply.
func (r Resource[T]) PostSub(ctx context.Context, creds Credentials, id, sub string, in, out interface{}) error {
	return r.client.Post(ctx, creds, r.itemPath(id)+"/"+sub, in, out)
}

func (r Resource[T]) PatchSub(ctx context.Context, creds Credentials, id, sub string, in, out interface{}) error {
	return r.client.Patch(ctx, creds, r.itemPath(id)+"/"+sub, in, out)
}
