package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
	"github.com/haitezaz/workedin-pakistan-connect/internal/repository"
)

// JobService implements the long-term jobs side of the marketplace: employers
// post and manage jobs, workers browse and apply, employers decide.
type JobService struct {
	jobs   repository.JobRepository
	apps   repository.ApplicationRepository
	skills repository.SkillRepository
	logger *slog.Logger
}

func NewJobService(
	jobs repository.JobRepository,
	apps repository.ApplicationRepository,
	skills repository.SkillRepository,
	logger *slog.Logger,
) *JobService {
	return &JobService{jobs: jobs, apps: apps, skills: skills, logger: logger}
}

// PostJobInput is what the employer's posting form collects.
type PostJobInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Salary      int64    `json:"salary"`
	Location    string   `json:"location"`
	City        string   `json:"city"`
	Type        string   `json:"jobType"`
	Skills      []string `json:"skills,omitempty"`
}

// Post creates an open job owned by the calling employer.
func (s *JobService) Post(ctx context.Context, employerID string, in PostJobInput) (*model.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.City = strings.TrimSpace(in.City)

	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.City == "" {
		missing = append(missing, "city")
	}
	if in.Type == "" {
		missing = append(missing, "jobType")
	}
	if len(missing) > 0 {
		return nil, apperror.MissingFields(missing...)
	}

	jobType := model.JobType(in.Type)
	if !jobType.Valid() {
		return nil, apperror.ValidationFailed(
			"jobType must be full-time, part-time, contract, or internship", "jobType")
	}
	if in.Salary < 0 {
		return nil, apperror.ValidationFailed("salary cannot be negative", "salary")
	}

	job := &model.Job{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Salary:      in.Salary,
		Location:    strings.TrimSpace(in.Location),
		City:        in.City,
		Type:        jobType,
		EmployerID:  employerID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperror.Unavailable("posting job", err)
	}

	if len(in.Skills) > 0 {
		names := normalizeSkills(in.Skills)
		if err := s.skills.ReplaceForJob(ctx, job.ID, names); err != nil {
			s.logger.Warn("storing job skills failed", "jobID", job.ID, "error", err)
		} else {
			job.Skills = names
		}
	}

	s.logger.Info("job posted", "jobID", job.ID, "employerID", employerID, "city", job.City)
	return job, nil
}

// BrowseJobsInput narrows the public job listing.
type BrowseJobsInput struct {
	City   string
	Search string
}

// Browse lists open jobs for workers, optionally narrowed by city and a
// title/description search term. Closed and filled jobs never appear here.
func (s *JobService) Browse(ctx context.Context, in BrowseJobsInput) ([]model.Job, error) {
	jobs, err := s.jobs.List(ctx, repository.JobFilter{
		Status: model.JobStatusOpen,
		City:   strings.TrimSpace(in.City),
		Search: strings.TrimSpace(in.Search),
	})
	if err != nil {
		return nil, apperror.Unavailable("browsing jobs", err)
	}
	return jobs, nil
}

// Cities lists the distinct cities with open jobs, for the filter dropdown.
func (s *JobService) Cities(ctx context.Context) ([]string, error) {
	cities, err := s.jobs.Cities(ctx)
	if err != nil {
		return nil, apperror.Unavailable("listing cities", err)
	}
	return cities, nil
}

// Get retrieves one job with its skill tags.
func (s *JobService) Get(ctx context.Context, id string) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("loading job", err)
	}
	if skills, err := s.skills.ListForJob(ctx, id); err == nil {
		job.Skills = skills
	}
	return job, nil
}

// ListAll returns every job in the store, any status (admin view).
func (s *JobService) ListAll(ctx context.Context) ([]model.Job, error) {
	jobs, err := s.jobs.List(ctx, repository.JobFilter{})
	if err != nil {
		return nil, apperror.Unavailable("listing jobs", err)
	}
	return jobs, nil
}

// ListMine returns every job the employer has posted, any status.
func (s *JobService) ListMine(ctx context.Context, employerID string) ([]model.Job, error) {
	jobs, err := s.jobs.List(ctx, repository.JobFilter{EmployerID: employerID})
	if err != nil {
		return nil, apperror.Unavailable("listing jobs", err)
	}
	return jobs, nil
}

// Apply files a worker's application to an open job.
//
// Rules enforced here:
//   - the job must exist and still be open
//   - the application message is required
//   - one application per worker per job (the store's constraint; a repeat
//     apply comes back as ErrConflict)
func (s *JobService) Apply(ctx context.Context, workerID, jobID, message string) (*model.JobApplication, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.MissingFields("message")
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("loading job", err)
	}
	if job.Status != model.JobStatusOpen {
		return nil, apperror.Conflict("this job is no longer accepting applications")
	}

	app := &model.JobApplication{
		JobID:    jobID,
		WorkerID: workerID,
		Message:  message,
	}
	if err := s.apps.CreateJobApplication(ctx, app); err != nil {
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("filing application", err)
	}

	s.logger.Info("job application filed", "jobID", jobID, "workerID", workerID)
	return app, nil
}

// Applications lists a job's applications for its owning employer.
// Any other employer gets Forbidden — applications carry worker contact
// details and are only the poster's business.
func (s *JobService) Applications(ctx context.Context, employerID, jobID string) ([]model.JobApplication, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("loading job", err)
	}
	if job.EmployerID != employerID {
		return nil, apperror.Forbidden("you can only view applications to your own jobs")
	}

	apps, err := s.apps.ListForJob(ctx, jobID)
	if err != nil {
		return nil, apperror.Unavailable("listing applications", err)
	}
	return apps, nil
}

// Decide records the employer's accept/reject on one application, after
// checking they own the job it belongs to.
func (s *JobService) Decide(ctx context.Context, employerID, applicationID string, accept bool) (*model.JobApplication, error) {
	app, err := s.apps.GetJobApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Unavailable("loading application", err)
	}

	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, apperror.Unavailable("loading job", err)
	}
	if job.EmployerID != employerID {
		return nil, apperror.Forbidden("you can only decide applications to your own jobs")
	}
	if app.Status != model.ApplicationPending {
		return nil, apperror.Conflict("this application has already been decided")
	}

	status := model.ApplicationRejected
	if accept {
		status = model.ApplicationAccepted
	}
	if err := s.apps.SetJobApplicationStatus(ctx, applicationID, status); err != nil {
		return nil, apperror.Unavailable("updating application", err)
	}

	app.Status = status
	s.logger.Info("job application decided",
		"applicationID", applicationID, "jobID", job.ID, "status", status)
	return app, nil
}

// Close takes the employer's job off the board. Already-filed applications
// are untouched; new ones are refused by Apply's open check.
func (s *JobService) Close(ctx context.Context, employerID, jobID string) error {
	return s.setStatus(ctx, employerID, jobID, model.JobStatusClosed)
}

// MarkFilled flags the job as filled, which also stops new applications.
func (s *JobService) MarkFilled(ctx context.Context, employerID, jobID string) error {
	return s.setStatus(ctx, employerID, jobID, model.JobStatusFilled)
}

func (s *JobService) setStatus(ctx context.Context, employerID, jobID string, status model.JobStatus) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return apperror.Unavailable("loading job", err)
	}
	if job.EmployerID != employerID {
		return apperror.Forbidden("you can only manage your own jobs")
	}

	if err := s.jobs.SetStatus(ctx, jobID, status); err != nil {
		return apperror.Unavailable("updating job", err)
	}
	s.logger.Info("job status changed", "jobID", jobID, "status", status)
	return nil
}
