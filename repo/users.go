package repo

import (
	"database/sql"
	"strings"

	"github.com/dhowell/biblio/model"
)

// AddUser inserts a directory entry. The email must be unique across
// the whole directory regardless of role.
func (r *Repo) AddUser(u *model.User) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO users (name, email, phone, role, password_hash)
		VALUES (?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.Phone, u.Role, u.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = id
	return id, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID returns a single directory entry.
func (r *Repo) GetUserByID(id int64) (*model.User, error) {
	return scanUser(r.db.QueryRow(`
		SELECT user_id, name, email, COALESCE(phone, ''), role, password_hash
		FROM users WHERE user_id = ?`, id))
}

// GetUserByEmailAndRole returns the directory entry matching both the
// email and the role, or ErrNotFound.
func (r *Repo) GetUserByEmailAndRole(email string, role model.Role) (*model.User, error) {
	return scanUser(r.db.QueryRow(`
		SELECT user_id, name, email, COALESCE(phone, ''), role, password_hash
		FROM users WHERE email = ? AND role = ?`, email, role))
}
