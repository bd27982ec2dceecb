package repo

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dhowell/biblio/model"
)

func scanMember(row interface{ Scan(...any) error }) (*model.Member, error) {
	var (
		m      model.Member
		userID sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.JoinedAt, &userID)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		m.UserID = &userID.Int64
	}
	return &m, nil
}

// heldBooks returns the ids of the books currently checked out to the
// member. The member's held set is never stored; it is always read off
// the books table, so it cannot disagree with the books themselves.
func (r *Repo) heldBooks(memberID int64) ([]int64, error) {
	rows, err := r.db.Query(`SELECT book_id FROM books WHERE borrower_id = ? ORDER BY book_id`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListMembers returns all members with their derived held sets.
func (r *Repo) ListMembers() ([]model.Member, error) {
	rows, err := r.db.Query(`
		SELECT member_id, name, email, COALESCE(phone, ''), joined_at, user_id
		FROM members ORDER BY member_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range members {
		held, err := r.heldBooks(members[i].ID)
		if err != nil {
			return nil, fmt.Errorf("held books for member %d: %w", members[i].ID, err)
		}
		members[i].CurrentBooks = held
	}
	return members, nil
}

// GetMemberByID returns a single member with the derived held set.
func (r *Repo) GetMemberByID(id int64) (*model.Member, error) {
	row := r.db.QueryRow(`
		SELECT member_id, name, email, COALESCE(phone, ''), joined_at, user_id
		FROM members WHERE member_id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	held, err := r.heldBooks(id)
	if err != nil {
		return nil, err
	}
	m.CurrentBooks = held
	return m, nil
}

// AddMember inserts a new member and returns its id. JoinedAt defaults
// to now when unset.
func (r *Repo) AddMember(m *model.Member) (int64, error) {
	joined := m.JoinedAt
	if joined.IsZero() {
		joined = time.Now().UTC()
	}

	var userID any
	if m.UserID != nil {
		userID = *m.UserID
	}

	res, err := r.db.Exec(`
		INSERT INTO members (name, email, phone, joined_at, user_id)
		VALUES (?, ?, ?, ?, ?)`,
		m.Name, m.Email, m.Phone, joined, userID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	m.ID = id
	m.JoinedAt = joined
	return id, nil
}

// UpdateMember merges the non-nil patch fields into the member.
func (r *Repo) UpdateMember(id int64, patch model.MemberPatch) error {
	if patch.Empty() {
		var exists bool
		if err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM members WHERE member_id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return nil
	}

	set := []string{}
	args := []any{}
	add := func(col string, v *string) {
		if v != nil {
			set = append(set, col+" = ?")
			args = append(args, *v)
		}
	}
	add("name", patch.Name)
	add("email", patch.Email)
	add("phone", patch.Phone)
	args = append(args, id)

	res, err := r.db.Exec(`UPDATE members SET `+strings.Join(set, ", ")+` WHERE member_id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMember deletes a member. A member still holding books cannot
// be removed, which keeps every checked-out book's borrower pointing
// at a live record.
func (r *Repo) RemoveMember(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM members WHERE member_id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	var holding bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM books WHERE borrower_id = ?)`, id).Scan(&holding); err != nil {
		return err
	}
	if holding {
		return ErrHasLoans
	}

	if _, err := tx.Exec(`DELETE FROM members WHERE member_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
