package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/auth"
	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
	"github.com/haitezaz/workedin-pakistan-connect/internal/repository"
)

// In-memory fakes implementing the repository interfaces, so service tests
// run without a database. They reproduce the contracts the services rely on:
// per-partition email uniqueness, the one-application-per-worker conflict,
// and the apperror sentinels.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTokens() *auth.TokenService {
	ts, err := auth.NewTokenService("test-secret-key-at-least-16")
	if err != nil {
		panic(err)
	}
	return ts
}

type fakeUserRepo struct {
	byRole map[model.Role][]*model.User
	nextID map[model.Role]int
	err    error // when set, every operation fails with it
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byRole: map[model.Role][]*model.User{},
		nextID: map[model.Role]int{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	for _, u := range f.byRole[user.Role] {
		if u.Email == user.Email {
			return apperror.DuplicateEmail()
		}
	}
	f.nextID[user.Role]++
	user.ID = strconv.Itoa(f.nextID[user.Role])
	user.CreatedAt = time.Now()
	clone := *user
	f.byRole[user.Role] = append(f.byRole[user.Role], &clone)
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, role model.Role, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byRole[role] {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperror.NotFound(string(role), email)
}

func (f *fakeUserRepo) GetByID(_ context.Context, role model.Role, id string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byRole[role] {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperror.NotFound(string(role), id)
}

func (f *fakeUserRepo) List(_ context.Context, role model.Role) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.User{}
	for _, u := range f.byRole[role] {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateWorkerProfile(_ context.Context, id string, availability model.Availability, hourlyRate int64) error {
	if f.err != nil {
		return f.err
	}
	for _, u := range f.byRole[model.RoleWorker] {
		if u.ID == id {
			u.Availability = availability
			u.HourlyRate = hourlyRate
			return nil
		}
	}
	return apperror.NotFound("worker", id)
}

type fakeJobRepo struct {
	jobs   map[string]*model.Job
	nextID int
	err    error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*model.Job{}}
}

func (f *fakeJobRepo) Create(_ context.Context, job *model.Job) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	job.ID = fmt.Sprintf("job-%d", f.nextID)
	job.CreatedAt = time.Now()
	if job.Status == "" {
		job.Status = model.JobStatusOpen
	}
	clone := *job
	f.jobs[job.ID] = &clone
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*model.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	job, ok := f.jobs[id]
	if !ok {
		return nil, apperror.NotFound("job", id)
	}
	clone := *job
	return &clone, nil
}

func (f *fakeJobRepo) List(_ context.Context, filter repository.JobFilter) ([]model.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Job{}
	for _, job := range f.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.City != "" && job.City != filter.City {
			continue
		}
		if filter.EmployerID != "" && job.EmployerID != filter.EmployerID {
			continue
		}
		out = append(out, *job)
	}
	return out, nil
}

func (f *fakeJobRepo) SetStatus(_ context.Context, id string, status model.JobStatus) error {
	if f.err != nil {
		return f.err
	}
	job, ok := f.jobs[id]
	if !ok {
		return apperror.NotFound("job", id)
	}
	job.Status = status
	return nil
}

func (f *fakeJobRepo) Cities(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, job := range f.jobs {
		if job.Status == model.JobStatusOpen && job.City != "" && !seen[job.City] {
			seen[job.City] = true
			out = append(out, job.City)
		}
	}
	return out, nil
}

type fakeGigRepo struct {
	gigs   map[string]*model.Gig
	nextID int
	err    error
}

func newFakeGigRepo() *fakeGigRepo {
	return &fakeGigRepo{gigs: map[string]*model.Gig{}}
}

func (f *fakeGigRepo) Create(_ context.Context, gig *model.Gig) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	gig.ID = fmt.Sprintf("gig-%d", f.nextID)
	gig.CreatedAt = time.Now()
	if gig.Status == "" {
		gig.Status = model.GigStatusOpen
	}
	clone := *gig
	f.gigs[gig.ID] = &clone
	return nil
}

func (f *fakeGigRepo) GetByID(_ context.Context, id string) (*model.Gig, error) {
	if f.err != nil {
		return nil, f.err
	}
	gig, ok := f.gigs[id]
	if !ok {
		return nil, apperror.NotFound("gig", id)
	}
	clone := *gig
	return &clone, nil
}

func (f *fakeGigRepo) List(_ context.Context, filter repository.GigFilter) ([]model.Gig, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Gig{}
	for _, gig := range f.gigs {
		if filter.Status != "" && gig.Status != filter.Status {
			continue
		}
		if filter.City != "" && gig.City != filter.City {
			continue
		}
		if filter.EmployerID != "" && gig.EmployerID != filter.EmployerID {
			continue
		}
		out = append(out, *gig)
	}
	return out, nil
}

func (f *fakeGigRepo) SetStatus(_ context.Context, id string, status model.GigStatus) error {
	if f.err != nil {
		return f.err
	}
	gig, ok := f.gigs[id]
	if !ok {
		return apperror.NotFound("gig", id)
	}
	gig.Status = status
	return nil
}

func (f *fakeGigRepo) Cities(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, gig := range f.gigs {
		if gig.Status == model.GigStatusOpen && gig.City != "" && !seen[gig.City] {
			seen[gig.City] = true
			out = append(out, gig.City)
		}
	}
	return out, nil
}

type fakeAppRepo struct {
	jobApps map[string]*model.JobApplication
	gigApps map[string]*model.GigApplication
	nextID  int
	err     error
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{
		jobApps: map[string]*model.JobApplication{},
		gigApps: map[string]*model.GigApplication{},
	}
}

func (f *fakeAppRepo) CreateJobApplication(_ context.Context, app *model.JobApplication) error {
	if f.err != nil {
		return f.err
	}
	for _, a := range f.jobApps {
		if a.JobID == app.JobID && a.WorkerID == app.WorkerID {
			return apperror.Conflict("you have already applied to this job")
		}
	}
	f.nextID++
	app.ID = fmt.Sprintf("app-%d", f.nextID)
	app.CreatedAt = time.Now()
	if app.Status == "" {
		app.Status = model.ApplicationPending
	}
	clone := *app
	f.jobApps[app.ID] = &clone
	return nil
}

func (f *fakeAppRepo) CreateGigApplication(_ context.Context, app *model.GigApplication) error {
	if f.err != nil {
		return f.err
	}
	for _, a := range f.gigApps {
		if a.GigID == app.GigID && a.WorkerID == app.WorkerID {
			return apperror.Conflict("you have already applied to this gig")
		}
	}
	f.nextID++
	app.ID = fmt.Sprintf("app-%d", f.nextID)
	app.CreatedAt = time.Now()
	if app.Status == "" {
		app.Status = model.ApplicationPending
	}
	clone := *app
	f.gigApps[app.ID] = &clone
	return nil
}

func (f *fakeAppRepo) GetJobApplication(_ context.Context, id string) (*model.JobApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	app, ok := f.jobApps[id]
	if !ok {
		return nil, apperror.NotFound("application", id)
	}
	clone := *app
	return &clone, nil
}

func (f *fakeAppRepo) GetGigApplication(_ context.Context, id string) (*model.GigApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	app, ok := f.gigApps[id]
	if !ok {
		return nil, apperror.NotFound("application", id)
	}
	clone := *app
	return &clone, nil
}

func (f *fakeAppRepo) ListForJob(_ context.Context, jobID string) ([]model.JobApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.JobApplication{}
	for _, app := range f.jobApps {
		if app.JobID == jobID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeAppRepo) ListForGig(_ context.Context, gigID string) ([]model.GigApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.GigApplication{}
	for _, app := range f.gigApps {
		if app.GigID == gigID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeAppRepo) SetJobApplicationStatus(_ context.Context, id string, status model.ApplicationStatus) error {
	if f.err != nil {
		return f.err
	}
	app, ok := f.jobApps[id]
	if !ok {
		return apperror.NotFound("application", id)
	}
	app.Status = status
	return nil
}

func (f *fakeAppRepo) SetGigApplicationStatus(_ context.Context, id string, status model.ApplicationStatus) error {
	if f.err != nil {
		return f.err
	}
	app, ok := f.gigApps[id]
	if !ok {
		return apperror.NotFound("application", id)
	}
	app.Status = status
	return nil
}

type fakeSkillRepo struct {
	workers map[string][]string
	jobs    map[string][]string
	gigs    map[string][]string
	err     error
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{
		workers: map[string][]string{},
		jobs:    map[string][]string{},
		gigs:    map[string][]string{},
	}
}

func (f *fakeSkillRepo) ReplaceForWorker(_ context.Context, workerID string, names []string) error {
	if f.err != nil {
		return f.err
	}
	f.workers[workerID] = names
	return nil
}

func (f *fakeSkillRepo) ReplaceForJob(_ context.Context, jobID string, names []string) error {
	if f.err != nil {
		return f.err
	}
	f.jobs[jobID] = names
	return nil
}

func (f *fakeSkillRepo) ReplaceForGig(_ context.Context, gigID string, names []string) error {
	if f.err != nil {
		return f.err
	}
	f.gigs[gigID] = names
	return nil
}

func (f *fakeSkillRepo) ListForWorker(_ context.Context, workerID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.workers[workerID], nil
}

func (f *fakeSkillRepo) ListForJob(_ context.Context, jobID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs[jobID], nil
}

func (f *fakeSkillRepo) ListForGig(_ context.Context, gigID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.gigs[gigID], nil
}
