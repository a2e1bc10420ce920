package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/backend"
)

const (
	SessionName = "____mh"
	jwtKey      = "jwt"
	jwtTTL      = 30 * 24 * time.Hour
)

type ctxKey int

const userCtxKey ctxKey = iota

// UserJWT is kept signed in the session cookie. Token is the backend bearer
// token obtained at login.
type UserJWT struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Token  string `json:"token"`
	jwt.StandardClaims
}

func (u *UserJWT) Credentials() backend.Credentials {
	if u == nil {
		return backend.Credentials{}
	}
	return backend.Credentials{Token: u.Token, UserID: u.UserID}
}

func (u *UserJWT) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func NewUserJWT(userID, name, email, role, token string, now time.Time) UserJWT {
	return UserJWT{
		UserID: userID,
		Name:   name,
		Email:  email,
		Role:   role,
		Token:  token,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(jwtTTL).Unix(),
			Subject:   userID,
		},
	}
}

func SignUserJWT(claims UserJWT, key []byte) (string, error) {
	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	return tk, errors.Wrap(err, "unable to sign session token")
}

func parseUserJWT(tk string, key []byte) (*UserJWT, error) {
	token, err := jwt.ParseWithClaims(tk, &UserJWT{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid session token")
	}
	claims, ok := token.Claims.(*UserJWT)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("could not convert jwt claims to UserJWT")
	}
	return claims, nil
}

// SignIn stores the signed claims in the session cookie.
func SignIn(w http.ResponseWriter, r *http.Request, store sessions.Store, key []byte, claims UserJWT) error {
	tk, err := SignUserJWT(claims, key)
	if err != nil {
		return err
	}
	sess, err := store.Get(r, SessionName)
	if err != nil && sess == nil {
		return errors.Wrap(err, "unable to open session")
	}
	sess.Values[jwtKey] = tk
	sess.Options.MaxAge = int(jwtTTL.Seconds())
	return errors.Wrap(sess.Save(r, w), "unable to save session")
}

// SignOut expires the session cookie, dropping the claims and any draft kept
// in it.
func SignOut(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	sess, err := store.Get(r, SessionName)
	if err != nil && sess == nil {
		return errors.Wrap(err, "unable to open session")
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return errors.Wrap(sess.Save(r, w), "unable to clear session")
}

func GetUserFromJWT(r *http.Request, store sessions.Store, key []byte) (*UserJWT, error) {
	if u, ok := UserFromContext(r.Context()); ok {
		return u, nil
	}
	sess, err := store.Get(r, SessionName)
	if err != nil {
		return nil, errors.New("could not find cookie")
	}
	tk, ok := sess.Values[jwtKey].(string)
	if !ok {
		return nil, errors.New("could not find jwt in session")
	}
	return parseUserJWT(tk, key)
}

func IsSignedOn(r *http.Request, store sessions.Store, key []byte) bool {
	_, err := GetUserFromJWT(r, store, key)
	return err == nil
}

func WithUser(ctx context.Context, u *UserJWT) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

func UserFromContext(ctx context.Context) (*UserJWT, bool) {
	u, ok := ctx.Value(userCtxKey).(*UserJWT)
	return u, ok && u != nil
}

// LoginURL sends the visitor to the sign in page, coming back to r's URL
// afterwards.
func LoginURL(r *http.Request) string {
	if r.Method != http.MethodGet {
		return "/auth"
	}
	return "/auth?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
}

// ExpiredLoginURL is LoginURL flagged so the sign in page can tell the user
// their session ended.
func ExpiredLoginURL(r *http.Request) string {
	v := url.Values{"expired": {"1"}}
	if r.Method == http.MethodGet {
		v.Set("next", r.URL.RequestURI())
	}
	return "/auth?" + v.Encode()
}

// RoleAuthenticatedMiddleware lets through users signed in with one of roles.
// Anonymous visitors are redirected to the sign in page, signed in users
// with another role get forbidden.
func RoleAuthenticatedMiddleware(store sessions.Store, key []byte, forbidden http.HandlerFunc, next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := GetUserFromJWT(r, store, key)
		if err != nil {
			http.Redirect(w, r, LoginURL(r), http.StatusFound)
			return
		}
		if len(roles) > 0 && !u.HasRole(roles...) {
			forbidden(w, r)
			return
		}
		next(w, r.WithContext(WithUser(r.Context(), u)))
	}
}

func UserAuthenticatedMiddleware(store sessions.Store, key []byte, next http.HandlerFunc) http.HandlerFunc {
	return RoleAuthenticatedMiddleware(store, key, nil, next)
}
