package user

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/backend"
)

var ErrInvalidLogin = errors.New("the backend accepted the login but sent no token")

type Repository struct {
	client   *backend.Client
	profiles backend.Resource[Profile]
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{
		client:   client,
		profiles: backend.NewResource[Profile](client, "/profile"),
	}
}

// loginRs covers both the nested {"token", "user": {...}} shape and the
// flat {"token", "id", "name", ...} shape of the login response.
type loginRs struct {
	Token  string `json:"token"`
	User   *User  `json:"user"`
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

func (rs loginRs) user() User {
	if rs.User != nil && rs.User.ID != "" {
		return *rs.User
	}
	id := rs.ID
	if id == "" {
		id = rs.UserID
	}
	return User{ID: id, Name: rs.Name, Email: rs.Email, Role: rs.Role}
}

func (r *Repository) Login(ctx context.Context, rq LoginRq) (Session, error) {
	var rs loginRs
	if err := r.client.Post(ctx, backend.Credentials{}, "/api/auth/login", rq, &rs); err != nil {
		return Session{}, errors.Wrapf(err, "unable to log in %s", rq.Email)
	}
	u := rs.user()
	if strings.TrimSpace(rs.Token) == "" || u.ID == "" {
		return Session{}, ErrInvalidLogin
	}
	if u.Role == "" {
		u.Role = rq.Role
	}
	if u.Email == "" {
		u.Email = rq.Email
	}
	return Session{User: u, Token: rs.Token}, nil
}

func (r *Repository) Register(ctx context.Context, rq RegisterRq) error {
	err := r.client.Post(ctx, backend.Credentials{}, "/api/auth/register", rq, nil)
	return errors.Wrapf(err, "unable to register %s", rq.Email)
}

func (r *Repository) ProfileByID(ctx context.Context, creds backend.Credentials, id string) (Profile, error) {
	p, err := r.profiles.Get(ctx, creds, id)
	return p, errors.Wrapf(err, "unable to get profile %s", id)
}

func (r *Repository) UpdateProfile(ctx context.Context, creds backend.Credentials, id string, rq ProfileRq) error {
	_, err := r.profiles.Update(ctx, creds, id, rq)
	return errors.Wrapf(err, "unable to update profile %s", id)
}
