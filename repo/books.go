package repo

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dhowell/biblio/model"
)

const bookColumns = `book_id, title, author, COALESCE(isbn, ''),
	COALESCE(publish_year, ''), COALESCE(category, ''), status,
	COALESCE(cover_url, ''), COALESCE(audience, ''), borrower_id, due_date`

func scanBook(row interface{ Scan(...any) error }) (*model.Book, error) {
	var (
		b        model.Book
		borrower sql.NullInt64
		due      sql.NullTime
	)
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublishYear,
		&b.Category, &b.Status, &b.CoverURL, &b.Audience, &borrower, &due)
	if err != nil {
		return nil, err
	}
	if borrower.Valid {
		b.BorrowerID = &borrower.Int64
	}
	if due.Valid {
		t := due.Time
		b.DueDate = &t
	}
	return &b, nil
}

// ListBooks returns all books ordered by id. Comments are not loaded
// for listings; use GetBookByID for the full record.
func (r *Repo) ListBooks() ([]model.Book, error) {
	rows, err := r.db.Query(`SELECT ` + bookColumns + ` FROM books ORDER BY book_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// GetBookByID returns a single book with its comments.
func (r *Repo) GetBookByID(id int64) (*model.Book, error) {
	row := r.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE book_id = ?`, id)
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	comments, err := r.ListComments(id)
	if err != nil {
		return nil, fmt.Errorf("load comments for book %d: %w", id, err)
	}
	b.Comments = comments
	return b, nil
}

// AddBook inserts a new available book and returns its id.
func (r *Repo) AddBook(b *model.Book) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO books (title, author, isbn, publish_year, category, status, cover_url, audience)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Author, b.ISBN, b.PublishYear, b.Category,
		model.StatusAvailable, b.CoverURL, b.Audience)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	b.ID = id
	b.Status = model.StatusAvailable
	return id, nil
}

// UpdateBook merges the non-nil patch fields into the book. Lending
// state is out of reach here; only checkout/return touch it.
func (r *Repo) UpdateBook(id int64, patch model.BookPatch) error {
	if patch.Empty() {
		// Still report a missing id.
		var exists bool
		if err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM books WHERE book_id = ?)`, id).Scan(&exists); err != nil {
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
	add("title", patch.Title)
	add("author", patch.Author)
	add("isbn", patch.ISBN)
	add("publish_year", patch.PublishYear)
	add("category", patch.Category)
	add("cover_url", patch.CoverURL)
	add("audience", patch.Audience)
	args = append(args, id)

	res, err := r.db.Exec(`UPDATE books SET `+strings.Join(set, ", ")+` WHERE book_id = ?`, args...)
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

// RemoveBook deletes a book and its comments. A checked-out book
// cannot be removed; it has to be returned first.
func (r *Repo) RemoveBook(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status model.BookStatus
	err = tx.QueryRow(`SELECT status FROM books WHERE book_id = ?`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status == model.StatusCheckedOut {
		return ErrHasLoans
	}

	if _, err := tx.Exec(`DELETE FROM books WHERE book_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
