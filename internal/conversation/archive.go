package conversation

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/nexacred/ragengine/internal/logger"
)

// Archive is an optional append-only SQLite log of every message across
// all sessions. It survives session retention cleanup of the JSON
// records and backs the cross-restart message counters. The database is
// opened lazily on first use; if opening fails the archive disables
// itself and never fails an append.
type Archive struct {
	path string

	once sync.Once
	db   *sql.DB
	err  error
}

// NewArchive creates an archive backed by the SQLite file at path.
func NewArchive(path string) *Archive {
	return &Archive{path: path}
}

func (a *Archive) init() {
	db, err := sql.Open("sqlite", "file:"+a.path+"?_busy_timeout=10000")
	if err != nil {
		a.err = err
		logger.L.Warn("archive open failed; archiving disabled", "error", err)
		return
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		role TEXT,
		content TEXT,
		created_at DATETIME
	);`); err != nil {
		a.err = err
		logger.L.Warn("archive table creation failed; archiving disabled", "error", err)
		return
	}
	a.db = db
	logger.L.Info("message archive initialized", "path", a.path)
}

// Record appends one message to the archive. Failures are logged, never
// returned: the archive is best-effort by contract.
func (a *Archive) Record(sessionID, role, content string, ts time.Time) {
	a.once.Do(a.init)
	if a.err != nil {
		return
	}
	if _, err := a.db.Exec(
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?,?,?,?);`,
		sessionID, role, content, ts,
	); err != nil {
		logger.L.Error("failed to archive message", "session_id", sessionID, "error", err)
	}
}

// Messages returns the archived messages of a session in chronological
// order.
func (a *Archive) Messages(sessionID string) ([]Message, error) {
	a.once.Do(a.init)
	if a.err != nil {
		return nil, a.err
	}
	rows, err := a.db.Query(
		`SELECT role, content, created_at FROM messages WHERE session_id = ? ORDER BY id ASC;`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the total number of archived messages.
func (a *Archive) Count() (int, error) {
	a.once.Do(a.init)
	if a.err != nil {
		return 0, a.err
	}
	var n int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM messages;`).Scan(&n)
	return n, err
}

// DeleteBefore removes archived messages older than t. Used by the
// store's retention cleanup.
func (a *Archive) DeleteBefore(t time.Time) {
	a.once.Do(a.init)
	if a.err != nil {
		return
	}
	if _, err := a.db.Exec(`DELETE FROM messages WHERE created_at < ?;`, t); err != nil {
		logger.L.Warn("archive cleanup failed", "error", err)
	}
}

// Close releases the underlying database handle.
func (a *Archive) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.L.Warn("archive close error", "error", err)
		}
	}
}
