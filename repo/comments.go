package repo

import (
	"time"

	"github.com/dhowell/biblio/model"
)

// AddComment appends a comment to a book and returns the comment id.
func (r *Repo) AddComment(c *model.Comment) (int64, error) {
	var exists bool
	if err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM books WHERE book_id = ?)`, c.BookID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrNotFound
	}

	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	res, err := r.db.Exec(`
		INSERT INTO comments (book_id, author_id, author_name, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.BookID, c.AuthorID, c.AuthorName, c.Body, created)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id
	c.CreatedAt = created
	return id, nil
}

// ListComments returns a book's comments oldest first.
func (r *Repo) ListComments(bookID int64) ([]model.Comment, error) {
	rows, err := r.db.Query(`
		SELECT comment_id, book_id, author_id, author_name, body, created_at
		FROM comments WHERE book_id = ?
		ORDER BY created_at, comment_id`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.BookID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
