package repo

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dhowell/biblio/logger"
)

// Open opens (or creates) the catalog database at path and applies the
// schema. Pass ":memory:" for an ephemeral in-memory catalog.
func Open(path string) (*Repo, error) {
	r := &Repo{path: path}

	dsn := "file:" + path + "?cache=shared&mode=rwc&_foreign_keys=1&_busy_timeout=5000"
	if path == ":memory:" {
		// A named in-memory database: shared across the pool, but
		// private to this Open call.
		dsn = "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}

	// A shared in-memory database is dropped when its last connection
	// closes; a single pooled connection keeps it alive and also
	// serializes writers.
	db.SetMaxOpenConns(1)

	r.db = db

	if err := r.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Info("Opened catalog database", "path", path)
	return r, nil
}

func (r *Repo) createSchema() error {
	sqlStmt := `
           CREATE TABLE IF NOT EXISTS "users" (
               user_id integer primary key autoincrement not null,
               name text not null,
               email text not null unique,
               phone text,
               role text not null check (role in ('member', 'admin')),
               password_hash text not null
           );

           CREATE TABLE IF NOT EXISTS "members" (
               member_id integer primary key autoincrement not null,
               name text not null,
               email text not null,
               phone text,
               joined_at timestamp not null,
               user_id integer,
               FOREIGN KEY (user_id) REFERENCES users(user_id)
           );
           CREATE INDEX IF NOT EXISTS [I_member_email] ON "members" ([email]);

           CREATE TABLE IF NOT EXISTS "books" (
               book_id integer primary key autoincrement not null,
               title text not null,
               author text not null,
               isbn text,
               publish_year text,
               category text,
               status text not null default 'available'
                   check (status in ('available', 'checked-out')),
               cover_url text,
               audience text,
               borrower_id integer,
               due_date timestamp,
               FOREIGN KEY (borrower_id) REFERENCES members(member_id)
           );
           CREATE INDEX IF NOT EXISTS [I_title] ON "books" ([title]);
           CREATE INDEX IF NOT EXISTS [I_borrower_id] ON "books" ([borrower_id]);

           CREATE TABLE IF NOT EXISTS "comments" (
               comment_id integer primary key autoincrement not null,
               book_id integer not null,
               author_id integer not null,
               author_name text not null,
               body text not null,
               created_at timestamp not null,
               FOREIGN KEY (book_id) REFERENCES books(book_id) ON DELETE CASCADE
           );
           CREATE INDEX IF NOT EXISTS [I_comment_book_id] ON "comments" ([book_id]);
    `
	_, err := r.db.Exec(sqlStmt)
	return err
}
