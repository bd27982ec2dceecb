package repo

import (
	"database/sql"

	"github.com/dhowell/biblio/logger"
)

// Repo is the SQLite-backed repository. With the default ":memory:"
// path the whole catalog lives in process memory and is gone when the
// process exits; only the session identity (kept elsewhere) survives.
type Repo struct {
	db   *sql.DB
	path string
}

func (r *Repo) Close() error {
	if r.db != nil {
		logger.Info("Closing database connection")
		return r.db.Close()
	}
	return nil
}

func (r *Repo) Ping() error {
	if r.db != nil {
		return r.db.Ping()
	}
	return sql.ErrConnDone
}
