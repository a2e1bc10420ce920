package server

import (
	"net/http"

	"github.com/medhire/portal/internal/middleware"
)

func (s Server) AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess, err := s.SessionStore.Get(r, middleware.SessionName)
	if err != nil && sess == nil {
		s.Log(err, "unable to open session for flash")
		return
	}
	sess.AddFlash(msg, kind)
	if err := sess.Save(r, w); err != nil {
		s.Log(err, "unable to save flash")
	}
}

// Flashes pops the pending flash messages of kind.
func (s Server) Flashes(w http.ResponseWriter, r *http.Request, kind string) []string {
	sess, err := s.SessionStore.Get(r, middleware.SessionName)
	if err != nil || sess == nil {
		return nil
	}
	raw := sess.Flashes(kind)
	if len(raw) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(string); ok {
			msgs = append(msgs, m)
		}
	}
	if err := sess.Save(r, w); err != nil {
		s.Log(err, "unable to save session after reading flashes")
	}
	return msgs
}

func (s Server) SessionGet(r *http.Request, key string) (string, bool) {
	sess, err := s.SessionStore.Get(r, middleware.SessionName)
	if err != nil || sess == nil {
		return "", false
	}
	v, ok := sess.Values[key].(string)
	return v, ok
}

func (s Server) SessionSet(w http.ResponseWriter, r *http.Request, key, value string) error {
	sess, err := s.SessionStore.Get(r, middleware.SessionName)
	if err != nil && sess == nil {
		return err
	}
	sess.Values[key] = value
	return sess.Save(r, w)
}

func (s Server) SessionDelete(w http.ResponseWriter, r *http.Request, key string) error {
	sess, err := s.SessionStore.Get(r, middleware.SessionName)
	if err != nil && sess == nil {
		return err
	}
	delete(sess.Values, key)
	return sess.Save(r, w)
}
