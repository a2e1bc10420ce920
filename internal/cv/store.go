package cv

import (
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/pkg/errors"
)

// maxDraftSize bounds one encoded draft. Field limits keep a valid draft far
// below it.
const maxDraftSize = 16 << 10

var (
	ErrDraftNotFound = errors.New("cv draft not found")
	ErrDraftTooLarge = errors.New("cv draft too large")
)

// Store keeps in-progress drafts on the server. The session only carries the
// draft id, and entries are scoped to the doctor who owns them.
type Store struct {
	big *bigcache.BigCache
}

func NewStore(ttl time.Duration) (*Store, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.CleanWindow = time.Minute
	cfg.Verbose = false
	big, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialise cv draft store")
	}
	return &Store{big: big}, nil
}

func draftKey(doctorID, id string) string {
	return doctorID + "|" + id
}

func (s *Store) Get(doctorID, id string) (*Draft, error) {
	data, err := s.big.Get(draftKey(doctorID, id))
	if err == bigcache.ErrEntryNotFound {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read cv draft %s", id)
	}
	return LoadDraft(string(data))
}

func (s *Store) Put(doctorID string, d *Draft) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if len(data) > maxDraftSize {
		return ErrDraftTooLarge
	}
	return errors.Wrapf(s.big.Set(draftKey(doctorID, d.ID), []byte(data)), "unable to store cv draft %s", d.ID)
}

func (s *Store) Delete(doctorID, id string) error {
	err := s.big.Delete(draftKey(doctorID, id))
	if err == bigcache.ErrEntryNotFound {
		return nil
	}
	return errors.Wrapf(err, "unable to delete cv draft %s", id)
}

func (s *Store) Close() error {
	return s.big.Close()
}
