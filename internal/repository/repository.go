// Package repository declares the storage interfaces the service layer
// depends on. The concrete SQLite implementation lives in repository/sqlite;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
)

// UserRepository is the role-partitioned identity store. Every operation
// names the partition explicitly — there is no cross-partition lookup,
// because an email is only unique within its own role table.
type UserRepository interface {
	// Create inserts the user into the partition named by user.Role and
	// fills in user.ID (store-assigned) and user.CreatedAt.
	// Returns apperror.ErrDuplicateEmail if the partition already holds the
	// email, including when a concurrent insert wins the race.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail does an exact-match lookup in one partition.
	// Returns apperror.ErrNotFound when no record matches.
	GetByEmail(ctx context.Context, role model.Role, email string) (*model.User, error)

	// GetByID looks a user up by its partition-scoped id.
	GetByID(ctx context.Context, role model.Role, id string) (*model.User, error)

	// List returns every user in a partition, newest first.
	List(ctx context.Context, role model.Role) ([]model.User, error)

	// UpdateWorkerProfile updates the worker-only fields on one record in
	// the worker partition.
	UpdateWorkerProfile(ctx context.Context, id string, availability model.Availability, hourlyRate int64) error
}

// JobFilter narrows a job listing. Zero values mean "no constraint".
type JobFilter struct {
	Status     model.JobStatus
	City       string
	Search     string // matches title or description, case-insensitive
	EmployerID string
}

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, f JobFilter) ([]model.Job, error)
	SetStatus(ctx context.Context, id string, status model.JobStatus) error
	// Cities returns the distinct cities that currently have open jobs.
	Cities(ctx context.Context) ([]string, error)
}

// GigFilter mirrors JobFilter for gigs.
type GigFilter struct {
	Status     model.GigStatus
	City       string
	Search     string
	EmployerID string
}

type GigRepository interface {
	Create(ctx context.Context, gig *model.Gig) error
	GetByID(ctx context.Context, id string) (*model.Gig, error)
	List(ctx context.Context, f GigFilter) ([]model.Gig, error)
	SetStatus(ctx context.Context, id string, status model.GigStatus) error
	Cities(ctx context.Context) ([]string, error)
}

// ApplicationRepository stores job and gig applications. The one-application-
// per-worker rule is the store's UNIQUE constraint, not a client pre-check:
// both Create methods return apperror.ErrConflict on a duplicate.
type ApplicationRepository interface {
	CreateJobApplication(ctx context.Context, app *model.JobApplication) error
	CreateGigApplication(ctx context.Context, app *model.GigApplication) error

	GetJobApplication(ctx context.Context, id string) (*model.JobApplication, error)
	GetGigApplication(ctx context.Context, id string) (*model.GigApplication, error)

	// ListForJob/ListForGig include the applying worker's name and phone.
	ListForJob(ctx context.Context, jobID string) ([]model.JobApplication, error)
	ListForGig(ctx context.Context, gigID string) ([]model.GigApplication, error)

	SetJobApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error
	SetGigApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error
}

// SkillRepository maintains the shared skill catalogue and the join rows
// linking skills to workers, jobs and gigs.
type SkillRepository interface {
	ReplaceForWorker(ctx context.Context, workerID string, names []string) error
	ReplaceForJob(ctx context.Context, jobID string, names []string) error
	ReplaceForGig(ctx context.Context, gigID string, names []string) error

	ListForWorker(ctx context.Context, workerID string) ([]string, error)
	ListForJob(ctx context.Context, jobID string) ([]string, error)
	ListForGig(ctx context.Context, gigID string) ([]string, error)
}
