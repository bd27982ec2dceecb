package repo

import (
	"database/sql"
	"time"

	"github.com/dhowell/biblio/model"
)

// CheckoutBook marks the book as checked out to the member with the
// given due date, all in one transaction.
func (r *Repo) CheckoutBook(bookID, memberID int64, due time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status model.BookStatus
	err = tx.QueryRow(`SELECT status FROM books WHERE book_id = ?`, bookID).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status == model.StatusCheckedOut {
		return ErrAlreadyCheckedOut
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM members WHERE member_id = ?)`, memberID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if _, err := tx.Exec(`
		UPDATE books SET status = ?, borrower_id = ?, due_date = ?
		WHERE book_id = ?`,
		model.StatusCheckedOut, memberID, due.UTC(), bookID); err != nil {
		return err
	}
	return tx.Commit()
}

// ReturnBook clears the book's lending state and yields the member who
// had it. Returns ErrNotCheckedOut when the book is already on the
// shelf, leaving the record untouched.
func (r *Repo) ReturnBook(bookID int64) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var (
		status   model.BookStatus
		borrower sql.NullInt64
	)
	err = tx.QueryRow(`SELECT status, borrower_id FROM books WHERE book_id = ?`, bookID).
		Scan(&status, &borrower)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if status != model.StatusCheckedOut || !borrower.Valid {
		return 0, ErrNotCheckedOut
	}

	if _, err := tx.Exec(`
		UPDATE books SET status = ?, borrower_id = NULL, due_date = NULL
		WHERE book_id = ?`,
		model.StatusAvailable, bookID); err != nil {
		return 0, err
	}
	return borrower.Int64, tx.Commit()
}
