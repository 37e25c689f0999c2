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

// JobStore implements repository.JobRepository over the shared pool.
type JobStore struct {
	conn *sql.DB
}

var _ repository.JobRepository = (*JobStore)(nil)

// Create inserts a new job posting.
//
// ID GENERATION WITH xid:
// xid produces 20-char URL-safe ids that sort by creation time — listings
// ordered by id are ordered by age for free. Identity ids stay numeric
// because the partitions assign them with AUTOINCREMENT; marketplace rows
// are keyed here.
func (db *JobStore) Create(ctx context.Context, job *model.Job) error {
	job.ID = xid.New().String()
	job.CreatedAt = time.Now()
	if job.Status == "" {
		job.Status = model.JobStatusOpen
	}

	employerID, ok := parseID(job.EmployerID)
	if !ok {
		return apperror.NotFound("employer", job.EmployerID)
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO jobs (id, title, description, salary, location, city, job_type, employer_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Title,
		job.Description,
		job.Salary,
		job.Location,
		job.City,
		string(job.Type),
		employerID,
		string(job.Status),
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting job: %w", err)
	}
	return nil
}

const jobColumns = `j.id, j.title, j.description, j.salary, j.location, j.city,
	j.job_type, j.employer_id, e.name, j.status, j.created_at`

// GetByID retrieves one job with its employer's name joined in.
func (db *JobStore) GetByID(ctx context.Context, id string) (*model.Job, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j JOIN employers e ON e.id = j.employer_id
		 WHERE j.id = ?`, id)

	job, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("job", id)
		}
		return nil, fmt.Errorf("sqlite: getting job %s: %w", id, err)
	}
	return job, nil
}

// List returns jobs matching the filter, newest first.
//
// DYNAMIC WHERE CLAUSES:
// Conditions are appended per filter field, with the values kept in a
// parallel args slice — placeholders only, never string-built values.
func (db *JobStore) List(ctx context.Context, f repository.JobFilter) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs j JOIN employers e ON e.id = j.employer_id
		WHERE 1=1`
	args := []any{}

	if f.Status != "" {
		query += ` AND j.status = ?`
		args = append(args, string(f.Status))
	}
	if f.City != "" {
		query += ` AND j.city = ?`
		args = append(args, f.City)
	}
	if f.Search != "" {
		query += ` AND (j.title LIKE ? COLLATE NOCASE OR j.description LIKE ? COLLATE NOCASE)`
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	if f.EmployerID != "" {
		employerID, ok := parseID(f.EmployerID)
		if !ok {
			return []model.Job{}, nil
		}
		query += ` AND j.employer_id = ?`
		args = append(args, employerID)
	}

	query += ` ORDER BY j.created_at DESC, j.id DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs: %w", err)
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// SetStatus moves a job through its lifecycle (open → filled/closed).
func (db *JobStore) SetStatus(ctx context.Context, id string, status model.JobStatus) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE jobs SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("sqlite: updating job %s status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating job %s status: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("job", id)
	}
	return nil
}

// Cities returns the distinct cities that currently have open jobs, for the
// browse page's city filter dropdown.
func (db *JobStore) Cities(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT city FROM jobs WHERE status = ? AND city != '' ORDER BY city`,
		string(model.JobStatusOpen))
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing job cities: %w", err)
	}
	defer rows.Close()

	cities := []string{}
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("sqlite: scanning city: %w", err)
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

func scanJob(s scanner) (*model.Job, error) {
	var (
		j          model.Job
		jobType    string
		status     string
		employerID int64
	)
	err := s.Scan(&j.ID, &j.Title, &j.Description, &j.Salary, &j.Location,
		&j.City, &jobType, &employerID, &j.EmployerName, &status, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	j.Type = model.JobType(jobType)
	j.Status = model.JobStatus(status)
	j.EmployerID = formatID(employerID)
	return &j, nil
}
