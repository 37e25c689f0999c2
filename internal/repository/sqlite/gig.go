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

// GigStore implements repository.GigRepository over the shared pool.
// It mirrors JobStore; gigs differ only in budget/address and lifecycle.
type GigStore struct {
	conn *sql.DB
}

var _ repository.GigRepository = (*GigStore)(nil)

// Create inserts a new gig posting.
func (db *GigStore) Create(ctx context.Context, gig *model.Gig) error {
	gig.ID = xid.New().String()
	gig.CreatedAt = time.Now()
	if gig.Status == "" {
		gig.Status = model.GigStatusOpen
	}

	employerID, ok := parseID(gig.EmployerID)
	if !ok {
		return apperror.NotFound("employer", gig.EmployerID)
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO gigs (id, title, description, budget, address, city, employer_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gig.ID,
		gig.Title,
		gig.Description,
		gig.Budget,
		gig.Address,
		gig.City,
		employerID,
		string(gig.Status),
		gig.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting gig: %w", err)
	}
	return nil
}

const gigColumns = `g.id, g.title, g.description, g.budget, g.address, g.city,
	g.employer_id, e.name, g.status, g.created_at`

// GetByID retrieves one gig with its employer's name joined in.
func (db *GigStore) GetByID(ctx context.Context, id string) (*model.Gig, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+gigColumns+`
		 FROM gigs g JOIN employers e ON e.id = g.employer_id
		 WHERE g.id = ?`, id)

	gig, err := scanGig(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("gig", id)
		}
		return nil, fmt.Errorf("sqlite: getting gig %s: %w", id, err)
	}
	return gig, nil
}

// List returns gigs matching the filter, newest first.
func (db *GigStore) List(ctx context.Context, f repository.GigFilter) ([]model.Gig, error) {
	query := `SELECT ` + gigColumns + `
		FROM gigs g JOIN employers e ON e.id = g.employer_id
		WHERE 1=1`
	args := []any{}

	if f.Status != "" {
		query += ` AND g.status = ?`
		args = append(args, string(f.Status))
	}
	if f.City != "" {
		query += ` AND g.city = ?`
		args = append(args, f.City)
	}
	if f.Search != "" {
		query += ` AND (g.title LIKE ? COLLATE NOCASE OR g.description LIKE ? COLLATE NOCASE)`
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	if f.EmployerID != "" {
		employerID, ok := parseID(f.EmployerID)
		if !ok {
			return []model.Gig{}, nil
		}
		query += ` AND g.employer_id = ?`
		args = append(args, employerID)
	}

	query += ` ORDER BY g.created_at DESC, g.id DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing gigs: %w", err)
	}
	defer rows.Close()

	gigs := []model.Gig{}
	for rows.Next() {
		gig, err := scanGig(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning gig row: %w", err)
		}
		gigs = append(gigs, *gig)
	}
	return gigs, rows.Err()
}

// SetStatus moves a gig through its lifecycle
// (open → in-progress → completed, or closed).
func (db *GigStore) SetStatus(ctx context.Context, id string, status model.GigStatus) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE gigs SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("sqlite: updating gig %s status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating gig %s status: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("gig", id)
	}
	return nil
}

// Cities returns the distinct cities that currently have open gigs.
func (db *GigStore) Cities(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT city FROM gigs WHERE status = ? AND city != '' ORDER BY city`,
		string(model.GigStatusOpen))
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing gig cities: %w", err)
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

func scanGig(s scanner) (*model.Gig, error) {
	var (
		g          model.Gig
		status     string
		employerID int64
	)
	err := s.Scan(&g.ID, &g.Title, &g.Description, &g.Budget, &g.Address,
		&g.City, &employerID, &g.EmployerName, &status, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	g.Status = model.GigStatus(status)
	g.EmployerID = formatID(employerID)
	return &g, nil
}
