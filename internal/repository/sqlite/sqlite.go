// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. For a
// single-server marketplace deployment that's all the "record store" needs,
// and ":memory:" gives tests a free, isolated database.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init(). After this, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The repository interfaces are
// implemented by small sub-stores (Users, Jobs, Gigs, ...) that share this
// pool — one database file, one concern per type, no method-name clashes
// between the Create/List of different aggregates.
type DB struct {
	conn *sql.DB
}

// Users returns the role-partitioned identity store.
func (db *DB) Users() *UserStore { return &UserStore{conn: db.conn} }

// Jobs returns the job postings store.
func (db *DB) Jobs() *JobStore { return &JobStore{conn: db.conn} }

// Gigs returns the gig postings store.
func (db *DB) Gigs() *GigStore { return &GigStore{conn: db.conn} }

// Applications returns the job/gig application store.
func (db *DB) Applications() *ApplicationStore { return &ApplicationStore{conn: db.conn} }

// Skills returns the skill catalogue and join-row store.
func (db *DB) Skills() *SkillStore { return &SkillStore{conn: db.conn} }

// New creates a SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/workedin.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open only creates a pool manager; Ping forces a real connection so
	// a bad path or permissions problem surfaces now, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in flight — without
	// it SQLite locks the whole database during writes, which stalls a web
	// server under even light traffic.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite for backwards compatibility.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New —
// it flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
//
// The three identity partitions are separate tables on purpose: each is an
// independent namespace for email uniqueness and id assignment. Ids are
// INTEGER AUTOINCREMENT (store-assigned), and phone/cnic are numeric columns.
func (db *DB) migrate() error {
	// One statement block per concern, so a failure names the culprit.
	partitions := []string{"workers", "employers", "admins"}
	for _, table := range partitions {
		extra := ""
		if table == "workers" {
			extra = `
			availability  TEXT NOT NULL DEFAULT 'active',
			hourly_rate   INTEGER NOT NULL DEFAULT 0,`
		}
		_, err := db.conn.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				name          TEXT NOT NULL,
				email         TEXT NOT NULL UNIQUE,
				phone         INTEGER NOT NULL DEFAULT 0,
				cnic          INTEGER NOT NULL DEFAULT 0,
				password_hash TEXT NOT NULL,%s
				created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`, table, extra))
		if err != nil {
			return fmt.Errorf("creating %s table: %w", table, err)
		}
	}

	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			salary      INTEGER NOT NULL DEFAULT 0,
			location    TEXT NOT NULL DEFAULT '',
			city        TEXT NOT NULL DEFAULT '',
			job_type    TEXT NOT NULL,
			employer_id INTEGER NOT NULL REFERENCES employers(id),
			status      TEXT NOT NULL DEFAULT 'open',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_status_city ON jobs(status, city);
		CREATE INDEX IF NOT EXISTS idx_jobs_employer ON jobs(employer_id);
	`)
	if err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS gigs (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			budget      INTEGER NOT NULL DEFAULT 0,
			address     TEXT NOT NULL DEFAULT '',
			city        TEXT NOT NULL DEFAULT '',
			employer_id INTEGER NOT NULL REFERENCES employers(id),
			status      TEXT NOT NULL DEFAULT 'open',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_gigs_status_city ON gigs(status, city);
		CREATE INDEX IF NOT EXISTS idx_gigs_employer ON gigs(employer_id);
	`)
	if err != nil {
		return fmt.Errorf("creating gigs table: %w", err)
	}

	// UNIQUE(job_id, worker_id) is the one-application-per-worker rule.
	// The store, not the client, resolves concurrent duplicate applies.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS job_applications (
			id         TEXT PRIMARY KEY,
			job_id     TEXT NOT NULL REFERENCES jobs(id),
			worker_id  INTEGER NOT NULL REFERENCES workers(id),
			message    TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(job_id, worker_id)
		);
		CREATE TABLE IF NOT EXISTS gig_applications (
			id             TEXT PRIMARY KEY,
			gig_id         TEXT NOT NULL REFERENCES gigs(id),
			worker_id      INTEGER NOT NULL REFERENCES workers(id),
			proposed_price INTEGER NOT NULL DEFAULT 0,
			remarks        TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL DEFAULT 'pending',
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(gig_id, worker_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating application tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS skills (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS worker_skills (
			worker_id INTEGER NOT NULL REFERENCES workers(id),
			skill_id  TEXT NOT NULL REFERENCES skills(id),
			PRIMARY KEY(worker_id, skill_id)
		);
		CREATE TABLE IF NOT EXISTS job_skills (
			job_id   TEXT NOT NULL REFERENCES jobs(id),
			skill_id TEXT NOT NULL REFERENCES skills(id),
			PRIMARY KEY(job_id, skill_id)
		);
		CREATE TABLE IF NOT EXISTS gig_skills (
			gig_id   TEXT NOT NULL REFERENCES gigs(id),
			skill_id TEXT NOT NULL REFERENCES skills(id),
			PRIMARY KEY(gig_id, skill_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating skill tables: %w", err)
	}

	return nil
}

// isUniqueViolation detects a UNIQUE constraint failure from the driver.
// modernc.org/sqlite reports these as SQLITE_CONSTRAINT_UNIQUE with a
// stable message prefix.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// formatID renders a store-assigned numeric key as the opaque string id the
// rest of the app uses.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseID converts an id string back to the numeric key. Unknown-looking ids
// return (0, false) so lookups turn into clean not-found results instead of
// driver errors.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// digitsToInt strips everything but digits and parses the rest, feeding the
// numeric phone/cnic columns. "11111-1111111-1" becomes 111111111111 in
// storage.
func digitsToInt(s string) int64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// intToDigits coerces a stored numeric phone/cnic back to a display string.
func intToDigits(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
