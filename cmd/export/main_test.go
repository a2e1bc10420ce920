package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/doctor"
	"github.com/medhire/portal/internal/export"
)

func TestTableExporterWritesFile(t *testing.T) {
	dir := t.TempDir()
	list := func(context.Context, backend.Credentials) ([]doctor.Doctor, error) {
		return []doctor.Doctor{{ID: "d1", Name: "Asha Menon", Specialty: "Cardiology"}}, nil
	}
	path, err := tableExporter("Doctors", doctor.Columns, list)(context.Background(), backend.Credentials{}, export.FormatCSV, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, export.FileName("Doctors", export.FormatCSV, time.Now())), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Asha Menon")
}

func TestTableExporterReportsListErrors(t *testing.T) {
	list := func(context.Context, backend.Credentials) ([]doctor.Doctor, error) {
		return nil, errors.New("backend down")
	}
	_, err := tableExporter("Doctors", doctor.Columns, list)(context.Background(), backend.Credentials{}, export.FormatCSV, t.TempDir())
	assert.EqualError(t, err, "backend down")
}
