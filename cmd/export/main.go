package main

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/medhire/portal/internal/admin"
	"github.com/medhire/portal/internal/backend"
	"github.com/medhire/portal/internal/config"
	"github.com/medhire/portal/internal/cv"
	"github.com/medhire/portal/internal/doctor"
	"github.com/medhire/portal/internal/export"
	"github.com/medhire/portal/internal/institute"
	"github.com/medhire/portal/internal/job"
	"github.com/medhire/portal/internal/recruiter"
	"github.com/medhire/portal/internal/student"
	"github.com/medhire/portal/internal/table"
	"github.com/medhire/portal/internal/user"
)

// exporter fetches one admin table and writes it to dir.
type exporter func(ctx context.Context, creds backend.Credentials, f export.Format, dir string) (string, error)

func tableExporter[T table.Record](title string, cols []table.Column, list func(context.Context, backend.Credentials) ([]T, error)) exporter {
	return func(ctx context.Context, creds backend.Credentials, f export.Format, dir string) (string, error) {
		items, err := list(ctx, creds)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err := export.Write(&buf, f, title, export.Rows(items, cols)); err != nil {
			return "", err
		}
		path := filepath.Join(dir, export.FileName(title, f, time.Now()))
		return path, errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0o644), "unable to write %s", path)
	}
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	format := flag.String("format", "csv", "export format, csv or xlsx")
	dir := flag.String("dir", ".", "directory the files are written to")
	flag.Parse()

	f, ok := export.ParseFormat(*format)
	if !ok {
		logger.Fatal().Str("format", *format).Msg("unknown export format")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to load config")
	}
	client := backend.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.BackendTimeout}, nil)

	ctx := context.Background()
	sess, err := user.NewRepository(client).Login(ctx, user.LoginRq{
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
		Role:     user.RoleAdmin,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to sign in as admin")
	}
	creds := backend.Credentials{Token: sess.Token, UserID: sess.User.ID}

	exporters := []exporter{
		tableExporter("Jobs", job.Columns, job.NewRepository(client).AdminJobs),
		tableExporter("Doctors", doctor.Columns, doctor.NewRepository(client).List),
		tableExporter("Recruiters", recruiter.Columns, recruiter.NewRepository(client).ListWithJobCounts),
		tableExporter("Students", student.Columns, student.NewRepository(client).List),
		tableExporter("Institutes", institute.Columns, institute.NewRepository(client).List),
		tableExporter("Admins", admin.Columns, admin.NewRepository(client).List),
		tableExporter("CVs", cv.Columns, cv.NewRepository(client).List),
	}
	failed := 0
	for _, run := range exporters {
		path, err := run(ctx, creds, f, *dir)
		if err != nil {
			logger.Error().Err(err).Msg("export failed")
			failed++
			continue
		}
		logger.Info().Str("file", path).Msg("exported")
	}
	if failed > 0 {
		logger.Fatal().Int("failed", failed).Msg("some exports failed")
	}
}
