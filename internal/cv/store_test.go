package cv

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreKeepsDraftsPerDoctor(t *testing.T) {
	s := newStore(t)
	d := completeDraft(t)
	require.NoError(t, s.Put("d1", d))

	got, err := s.Get("d1", d.ID)
	require.NoError(t, err)
	assert.True(t, got.Ready())
	assert.Equal(t, d.Document, got.Document)

	_, err = s.Get("d2", d.ID)
	assert.Equal(t, ErrDraftNotFound, err, "drafts are not shared between doctors")

	require.NoError(t, s.Delete("d1", d.ID))
	_, err = s.Get("d1", d.ID)
	assert.Equal(t, ErrDraftNotFound, err)
	assert.NoError(t, s.Delete("d1", d.ID))
}

func TestStoreRejectsOversizedDrafts(t *testing.T) {
	s := newStore(t)
	d := NewDraft()
	require.NoError(t, s.Put("d1", d))

	d.Document.PDFURL = "https://files.example.org/" + strings.Repeat("a", maxDraftSize)
	assert.Equal(t, ErrDraftTooLarge, s.Put("d1", d))

	got, err := s.Get("d1", d.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Document.PDFURL, "previous version kept")
}
