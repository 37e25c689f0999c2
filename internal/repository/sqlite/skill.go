package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/haitezaz/workedin-pakistan-connect/internal/apperror"
	"github.com/haitezaz/workedin-pakistan-connect/internal/repository"
)

// SkillStore implements repository.SkillRepository: a shared skill catalogue
// plus join rows tagging workers, jobs and gigs.
type SkillStore struct {
	conn *sql.DB
}

var _ repository.SkillRepository = (*SkillStore)(nil)

// ensureSkill returns the catalogue id for a skill name, inserting it first
// if it's new. INSERT OR IGNORE makes concurrent first-use of the same name
// safe: whichever insert wins, the follow-up SELECT sees one row.
func (db *SkillStore) ensureSkill(ctx context.Context, name string) (string, error) {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO skills (id, name) VALUES (?, ?)`,
		xid.New().String(), name)
	if err != nil {
		return "", fmt.Errorf("sqlite: ensuring skill %q: %w", name, err)
	}

	var id string
	err = db.conn.QueryRowContext(ctx,
		`SELECT id FROM skills WHERE name = ?`, name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("sqlite: looking up skill %q: %w", name, err)
	}
	return id, nil
}

// replaceFor swaps the full skill set attached to one owner row. Runs in a
// transaction so a reader never sees a half-replaced set.
func (db *SkillStore) replaceFor(ctx context.Context, joinTable, ownerColumn string, ownerID any, names []string) error {
	skillIDs := make([]string, 0, len(names))
	for _, name := range names {
		id, err := db.ensureSkill(ctx, name)
		if err != nil {
			return err
		}
		skillIDs = append(skillIDs, id)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning skill replace: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE %s = ?`, joinTable, ownerColumn), ownerID)
	if err != nil {
		return fmt.Errorf("sqlite: clearing %s: %w", joinTable, err)
	}

	for _, skillID := range skillIDs {
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			`INSERT OR IGNORE INTO %s (%s, skill_id) VALUES (?, ?)`,
			joinTable, ownerColumn), ownerID, skillID)
		if err != nil {
			return fmt.Errorf("sqlite: tagging %s: %w", joinTable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing skill replace: %w", err)
	}
	return nil
}

// listFor returns the skill names attached to one owner row, sorted for
// stable output.
func (db *SkillStore) listFor(ctx context.Context, joinTable, ownerColumn string, ownerID any) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(
		`SELECT s.name FROM skills s
		 JOIN %s t ON t.skill_id = s.id
		 WHERE t.%s = ?
		 ORDER BY s.name`, joinTable, ownerColumn), ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing %s: %w", joinTable, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning skill: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReplaceForWorker sets a worker's skill list.
func (db *SkillStore) ReplaceForWorker(ctx context.Context, workerID string, names []string) error {
	id, ok := parseID(workerID)
	if !ok {
		return apperror.NotFound("worker", workerID)
	}
	return db.replaceFor(ctx, "worker_skills", "worker_id", id, names)
}

// ReplaceForJob sets the skills a job posting asks for.
func (db *SkillStore) ReplaceForJob(ctx context.Context, jobID string, names []string) error {
	return db.replaceFor(ctx, "job_skills", "job_id", jobID, names)
}

// ReplaceForGig sets the skills a gig posting asks for.
func (db *SkillStore) ReplaceForGig(ctx context.Context, gigID string, names []string) error {
	return db.replaceFor(ctx, "gig_skills", "gig_id", gigID, names)
}

// ListForWorker returns a worker's skill names.
func (db *SkillStore) ListForWorker(ctx context.Context, workerID string) ([]string, error) {
	id, ok := parseID(workerID)
	if !ok {
		return []string{}, nil
	}
	return db.listFor(ctx, "worker_skills", "worker_id", id)
}

// ListForJob returns the skills a job posting asks for.
func (db *SkillStore) ListForJob(ctx context.Context, jobID string) ([]string, error) {
	return db.listFor(ctx, "job_skills", "job_id", jobID)
}

// ListForGig returns the skills a gig posting asks for.
func (db *SkillStore) ListForGig(ctx context.Context, gigID string) ([]string, error) {
	return db.listFor(ctx, "gig_skills", "gig_id", gigID)
}
