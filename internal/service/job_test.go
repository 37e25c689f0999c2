package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
)

func newJobService(jobs *fakeJobRepo, apps *fakeAppRepo) *JobService {
	return NewJobService(jobs, apps, newFakeSkillRepo(), testLogger())
}

func postJob(t *testing.T, svc *JobService, employerID string) *model.Job {
	t.Helper()
	job, err := svc.Post(context.Background(), employerID, PostJobInput{
		Title:  "Electrician",
		Salary: 90000,
		City:   "Lahore",
		Type:   "full-time",
	})
	require.NoError(t, err)
	return job
}

func TestJobPostValidation(t *testing.T) {
	svc := newJobService(newFakeJobRepo(), newFakeAppRepo())
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Post(ctx, "1", PostJobInput{})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("unknown job type", func(t *testing.T) {
		_, err := svc.Post(ctx, "1", PostJobInput{
			Title: "X", City: "Lahore", Type: "weekend-only",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("negative salary", func(t *testing.T) {
		_, err := svc.Post(ctx, "1", PostJobInput{
			Title: "X", City: "Lahore", Type: "contract", Salary: -1,
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("valid posting defaults to open", func(t *testing.T) {
		job := postJob(t, svc, "1")
		assert.Equal(t, model.JobStatusOpen, job.Status)
		assert.Equal(t, "1", job.EmployerID)
	})
}

func TestJobBrowseShowsOnlyOpen(t *testing.T) {
	jobs := newFakeJobRepo()
	svc := newJobService(jobs, newFakeAppRepo())
	ctx := context.Background()

	open := postJob(t, svc, "1")
	closed := postJob(t, svc, "1")
	require.NoError(t, svc.Close(ctx, "1", closed.ID))

	listed, err := svc.Browse(ctx, BrowseJobsInput{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, open.ID, listed[0].ID)
}

func TestJobApply(t *testing.T) {
	svc := newJobService(newFakeJobRepo(), newFakeAppRepo())
	ctx := context.Background()

	job := postJob(t, svc, "1")

	t.Run("message required", func(t *testing.T) {
		_, err := svc.Apply(ctx, "7", job.ID, "   ")
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("first application accepted as pending", func(t *testing.T) {
		app, err := svc.Apply(ctx, "7", job.ID, "I can start Monday.")
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationPending, app.Status)
	})

	t.Run("second application to the same job conflicts", func(t *testing.T) {
		_, err := svc.Apply(ctx, "7", job.ID, "Asking again.")
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := svc.Apply(ctx, "7", "missing", "Hello.")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("closed job refuses applications", func(t *testing.T) {
		require.NoError(t, svc.Close(ctx, "1", job.ID))
		_, err := svc.Apply(ctx, "8", job.ID, "Too late?")
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})
}

func TestJobApplicationsOwnership(t *testing.T) {
	svc := newJobService(newFakeJobRepo(), newFakeAppRepo())
	ctx := context.Background()

	job := postJob(t, svc, "1")
	_, err := svc.Apply(ctx, "7", job.ID, "Hire me.")
	require.NoError(t, err)

	// The posting employer sees the applications.
	apps, err := svc.Applications(ctx, "1", job.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	// A different employer does not.
	_, err = svc.Applications(ctx, "2", job.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestJobDecide(t *testing.T) {
	svc := newJobService(newFakeJobRepo(), newFakeAppRepo())
	ctx := context.Background()

	job := postJob(t, svc, "1")
	app, err := svc.Apply(ctx, "7", job.ID, "Hire me.")
	require.NoError(t, err)

	t.Run("only the owner decides", func(t *testing.T) {
		_, err := svc.Decide(ctx, "2", app.ID, true)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("accept", func(t *testing.T) {
		decided, err := svc.Decide(ctx, "1", app.ID, true)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationAccepted, decided.Status)
	})

	t.Run("no second decision", func(t *testing.T) {
		_, err := svc.Decide(ctx, "1", app.ID, false)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})
}

func TestJobStatusManagementOwnership(t *testing.T) {
	svc := newJobService(newFakeJobRepo(), newFakeAppRepo())
	ctx := context.Background()

	job := postJob(t, svc, "1")

	err := svc.Close(ctx, "2", job.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.MarkFilled(ctx, "1", job.ID))
	got, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFilled, got.Status)
}
