package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhowell/biblio/logger"
	"github.com/dhowell/biblio/model"
	"github.com/dhowell/biblio/repo"
	"github.com/dhowell/biblio/validator"
)

// Checkout lends a book to a member until the due date. Any signed-in
// identity may check books out. A book that is already out is rejected
// with repo.ErrAlreadyCheckedOut rather than silently reassigned.
func (s *Service) Checkout(ctx context.Context, bookID, memberID int64, due time.Time) error {
	if _, err := s.requireAuth(); err != nil {
		return err
	}
	if err := validator.ValidateID(bookID); err != nil {
		return fmt.Errorf("book id: %w", err)
	}
	if err := validator.ValidateID(memberID); err != nil {
		return fmt.Errorf("member id: %w", err)
	}
	if due.IsZero() {
		return errors.New("due date is required")
	}

	if err := s.repo.CheckoutBook(bookID, memberID, due); err != nil {
		return fmt.Errorf("checkout book %d to member %d: %w", bookID, memberID, err)
	}
	logger.Info("Book checked out", "book_id", bookID, "member_id", memberID, "due", due)
	return nil
}

// Return puts a book back on the shelf and releases it from the
// member's held set. Returning a book that is already available is a
// no-op, not an error.
func (s *Service) Return(ctx context.Context, bookID int64) error {
	if _, err := s.requireAuth(); err != nil {
		return err
	}
	if err := validator.ValidateID(bookID); err != nil {
		return fmt.Errorf("book id: %w", err)
	}

	memberID, err := s.repo.ReturnBook(bookID)
	if errors.Is(err, repo.ErrNotCheckedOut) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("return book %d: %w", bookID, err)
	}
	logger.Info("Book returned", "book_id", bookID, "member_id", memberID)
	return nil
}

// Comments

// AddComment leaves a comment on a book on behalf of the signed-in
// identity.
func (s *Service) AddComment(ctx context.Context, bookID int64, body string) (*model.Comment, error) {
	u, err := s.requireAuth()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateID(bookID); err != nil {
		return nil, fmt.Errorf("book id: %w", err)
	}
	if err := validator.ValidateNonEmpty(body); err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}

	c := &model.Comment{
		BookID:     bookID,
		AuthorID:   u.ID,
		AuthorName: u.Name,
		Body:       body,
	}
	if _, err := s.repo.AddComment(c); err != nil {
		return nil, fmt.Errorf("add comment to book %d: %w", bookID, err)
	}
	return c, nil
}

// ListComments returns a book's comments oldest first.
func (s *Service) ListComments(ctx context.Context, bookID int64) ([]model.Comment, error) {
	if err := validator.ValidateID(bookID); err != nil {
		return nil, fmt.Errorf("book id: %w", err)
	}
	comments, err := s.repo.ListComments(bookID)
	if err != nil {
		return nil, fmt.Errorf("list comments for book %d: %w", bookID, err)
	}
	return comments, nil
}
