package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
	"github.com/haitezaz/workedin-pakistan-connect/internal/repository"
)

// UserStore implements repository.UserRepository over the shared pool.
type UserStore struct {
	conn *sql.DB
}

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y stops implementing X, the compiler errors here instead of at some
// distant call site. Standard Go practice for repository implementations.
var _ repository.UserRepository = (*UserStore)(nil)

// partitionTable maps a role to its table. Exhaustive over model.Role —
// an unknown role is a programming error upstream (ParseRole is the only
// way strings become roles), so it fails loudly.
func partitionTable(role model.Role) (string, error) {
	switch role {
	case model.RoleWorker:
		return "workers", nil
	case model.RoleEmployer:
		return "employers", nil
	case model.RoleAdmin:
		return "admins", nil
	default:
		return "", fmt.Errorf("sqlite: no partition for role %q", role)
	}
}

// Create inserts a user into its role partition and fills in the
// store-assigned id.
//
// The email UNIQUE constraint is the source of truth for duplicates: even if
// two registrations race past the service's pre-check, exactly one insert
// succeeds and the loser gets ErrDuplicateEmail — indistinguishable from a
// pre-checked duplicate, as the caller requires.
func (db *UserStore) Create(ctx context.Context, user *model.User) error {
	table, err := partitionTable(user.Role)
	if err != nil {
		return err
	}

	user.CreatedAt = time.Now()

	var res sql.Result
	if user.Role == model.RoleWorker {
		availability := user.Availability
		if availability == "" {
			availability = model.AvailabilityActive
		}
		res, err = db.conn.ExecContext(ctx,
			`INSERT INTO workers (name, email, phone, cnic, password_hash, availability, hourly_rate, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			user.Name,
			user.Email,
			digitsToInt(user.Phone),
			digitsToInt(user.CNIC),
			user.PasswordHash,
			string(availability),
			user.HourlyRate,
			user.CreatedAt,
		)
		user.Availability = availability
	} else {
		res, err = db.conn.ExecContext(ctx, fmt.Sprintf(
			`INSERT INTO %s (name, email, phone, cnic, password_hash, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`, table),
			user.Name,
			user.Email,
			digitsToInt(user.Phone),
			digitsToInt(user.CNIC),
			user.PasswordHash,
			user.CreatedAt,
		)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateEmail()
		}
		return fmt.Errorf("sqlite: inserting into %s: %w", table, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new %s id: %w", table, err)
	}
	user.ID = formatID(id)

	// The caller handed us display strings; hand back what a fresh read
	// would return, so the constructed Identity matches the stored record.
	user.Phone = intToDigits(digitsToInt(user.Phone))
	user.CNIC = intToDigits(digitsToInt(user.CNIC))

	return nil
}

// GetByEmail does a case-sensitive exact-match lookup in one partition.
// Returns apperror.ErrNotFound when the email has no record there — the
// caller decides how much of that to reveal.
func (db *UserStore) GetByEmail(ctx context.Context, role model.Role, email string) (*model.User, error) {
	table, err := partitionTable(role)
	if err != nil {
		return nil, err
	}

	row := db.conn.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE email = ?`, userColumns(role), table), email)

	user, err := scanUser(row, role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(string(role), email)
		}
		return nil, fmt.Errorf("sqlite: getting %s by email: %w", role, err)
	}
	return user, nil
}

// GetByID looks up one record by its partition-scoped id.
func (db *UserStore) GetByID(ctx context.Context, role model.Role, id string) (*model.User, error) {
	table, err := partitionTable(role)
	if err != nil {
		return nil, err
	}

	numericID, ok := parseID(id)
	if !ok {
		return nil, apperror.NotFound(string(role), id)
	}

	row := db.conn.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE id = ?`, userColumns(role), table), numericID)

	user, err := scanUser(row, role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(string(role), id)
		}
		return nil, fmt.Errorf("sqlite: getting %s %s: %w", role, id, err)
	}
	return user, nil
}

// List returns every user in a partition, newest first.
func (db *UserStore) List(ctx context.Context, role model.Role) ([]model.User, error) {
	table, err := partitionTable(role)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY created_at DESC, id DESC`, userColumns(role), table))
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing %s: %w", table, err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows, role)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning %s row: %w", table, err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateWorkerProfile updates a worker's availability and hourly rate.
func (db *UserStore) UpdateWorkerProfile(ctx context.Context, id string, availability model.Availability, hourlyRate int64) error {
	numericID, ok := parseID(id)
	if !ok {
		return apperror.NotFound("worker", id)
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE workers SET availability = ?, hourly_rate = ? WHERE id = ?`,
		string(availability), hourlyRate, numericID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating worker %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating worker %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("worker", id)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows so scanUser works for single
// and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// userColumns returns the SELECT column list for a partition. Workers carry
// two extra columns; the three tables are otherwise identical.
func userColumns(role model.Role) string {
	if role == model.RoleWorker {
		return `id, name, email, phone, cnic, password_hash, availability, hourly_rate, created_at`
	}
	return `id, name, email, phone, cnic, password_hash, created_at`
}

// scanUser builds a model.User from a row, coercing the numeric id, phone
// and cnic columns back into display strings.
func scanUser(s scanner, role model.Role) (*model.User, error) {
	var (
		u            model.User
		id           int64
		phone, cnic  int64
		availability string
	)

	var err error
	if role == model.RoleWorker {
		err = s.Scan(&id, &u.Name, &u.Email, &phone, &cnic, &u.PasswordHash,
			&availability, &u.HourlyRate, &u.CreatedAt)
	} else {
		err = s.Scan(&id, &u.Name, &u.Email, &phone, &cnic, &u.PasswordHash, &u.CreatedAt)
	}
	if err != nil {
		return nil, err
	}

	u.ID = formatID(id)
	u.Phone = intToDigits(phone)
	u.CNIC = intToDigits(cnic)
	u.Role = role
	u.Availability = model.Availability(availability)
	return &u, nil
}
