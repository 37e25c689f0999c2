package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
	"github.com/haitezaz/workedin-pakistan-connect/internal/repository"
)

// ApplicationStore implements repository.ApplicationRepository over the
// shared pool.
type ApplicationStore struct {
	conn *sql.DB
}

var _ repository.ApplicationRepository = (*ApplicationStore)(nil)

// CreateJobApplication inserts a worker's application to a job.
// The UNIQUE(job_id, worker_id) constraint turns a repeat application —
// including one racing a concurrent request — into apperror.ErrConflict.
func (db *ApplicationStore) CreateJobApplication(ctx context.Context, app *model.JobApplication) error {
	workerID, ok := parseID(app.WorkerID)
	if !ok {
		return apperror.NotFound("worker", app.WorkerID)
	}

	app.ID = xid.New().String()
	app.CreatedAt = time.Now()
	if app.Status == "" {
		app.Status = model.ApplicationPending
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO job_applications (id, job_id, worker_id, message, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		app.ID, app.JobID, workerID, app.Message, string(app.Status), app.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("you have already applied to this job")
		}
		return fmt.Errorf("sqlite: inserting job application: %w", err)
	}
	return nil
}

// CreateGigApplication inserts a worker's application to a gig.
func (db *ApplicationStore) CreateGigApplication(ctx context.Context, app *model.GigApplication) error {
	workerID, ok := parseID(app.WorkerID)
	if !ok {
		return apperror.NotFound("worker", app.WorkerID)
	}

	app.ID = xid.New().String()
	app.CreatedAt = time.Now()
	if app.Status == "" {
		app.Status = model.ApplicationPending
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO gig_applications (id, gig_id, worker_id, proposed_price, remarks, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		app.ID, app.GigID, workerID, app.ProposedPrice, app.Remarks, string(app.Status), app.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("you have already applied to this gig")
		}
		return fmt.Errorf("sqlite: inserting gig application: %w", err)
	}
	return nil
}

const jobAppColumns = `a.id, a.job_id, a.worker_id, w.name, w.phone, a.message, a.status, a.created_at`

// GetJobApplication retrieves one job application with the worker joined in.
func (db *ApplicationStore) GetJobApplication(ctx context.Context, id string) (*model.JobApplication, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+jobAppColumns+`
		 FROM job_applications a JOIN workers w ON w.id = a.worker_id
		 WHERE a.id = ?`, id)

	app, err := scanJobApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting job application %s: %w", id, err)
	}
	return app, nil
}

const gigAppColumns = `a.id, a.gig_id, a.worker_id, w.name, w.phone, a.proposed_price, a.remarks, a.status, a.created_at`

// GetGigApplication retrieves one gig application with the worker joined in.
func (db *ApplicationStore) GetGigApplication(ctx context.Context, id string) (*model.GigApplication, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+gigAppColumns+`
		 FROM gig_applications a JOIN workers w ON w.id = a.worker_id
		 WHERE a.id = ?`, id)

	app, err := scanGigApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting gig application %s: %w", id, err)
	}
	return app, nil
}

// ListForJob returns all applications to one job, oldest first (employers
// review in arrival order).
func (db *ApplicationStore) ListForJob(ctx context.Context, jobID string) ([]model.JobApplication, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+jobAppColumns+`
		 FROM job_applications a JOIN workers w ON w.id = a.worker_id
		 WHERE a.job_id = ?
		 ORDER BY a.created_at ASC, a.id ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications for job %s: %w", jobID, err)
	}
	defer rows.Close()

	apps := []model.JobApplication{}
	for rows.Next() {
		app, err := scanJobApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning job application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// ListForGig returns all applications to one gig, oldest first.
func (db *ApplicationStore) ListForGig(ctx context.Context, gigID string) ([]model.GigApplication, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+gigAppColumns+`
		 FROM gig_applications a JOIN workers w ON w.id = a.worker_id
		 WHERE a.gig_id = ?
		 ORDER BY a.created_at ASC, a.id ASC`, gigID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications for gig %s: %w", gigID, err)
	}
	defer rows.Close()

	apps := []model.GigApplication{}
	for rows.Next() {
		app, err := scanGigApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning gig application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// SetJobApplicationStatus records the employer's decision.
func (db *ApplicationStore) SetJobApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	return db.setStatus(ctx, "job_applications", id, status)
}

// SetGigApplicationStatus records the employer's decision.
func (db *ApplicationStore) SetGigApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	return db.setStatus(ctx, "gig_applications", id, status)
}

func (db *ApplicationStore) setStatus(ctx context.Context, table, id string, status model.ApplicationStatus) error {
	res, err := db.conn.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET status = ? WHERE id = ?`, table), string(status), id)
	if err != nil {
		return fmt.Errorf("sqlite: updating application %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating application %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("application", id)
	}
	return nil
}

func scanJobApplication(s scanner) (*model.JobApplication, error) {
	var (
		a           model.JobApplication
		workerID    int64
		workerPhone int64
		status      string
	)
	err := s.Scan(&a.ID, &a.JobID, &workerID, &a.WorkerName, &workerPhone,
		&a.Message, &status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.WorkerID = formatID(workerID)
	a.WorkerPhone = intToDigits(workerPhone)
	a.Status = model.ApplicationStatus(status)
	return &a, nil
}

func scanGigApplication(s scanner) (*model.GigApplication, error) {
	var (
		a           model.GigApplication
		workerID    int64
		workerPhone int64
		status      string
	)
	err := s.Scan(&a.ID, &a.GigID, &workerID, &a.WorkerName, &workerPhone,
		&a.ProposedPrice, &a.Remarks, &status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.WorkerID = formatID(workerID)
	a.WorkerPhone = intToDigits(workerPhone)
	a.Status = model.ApplicationStatus(status)
	return &a, nil
}
