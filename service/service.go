// Package service provides business logic layer between HTTP handlers and repository
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dhowell/biblio/logger"
	"github.com/dhowell/biblio/model"
	"github.com/dhowell/biblio/repo"
	"github.com/dhowell/biblio/session"
	"github.com/dhowell/biblio/validator"
)

// ErrNotAuthenticated is returned when an operation needs a signed-in
// identity and there is none.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrForbidden is returned when the signed-in identity's role does not
// permit the operation. Catalog mutations check the role here, in the
// service, not at the presentation boundary.
var ErrForbidden = errors.New("operation not permitted for this role")

// Service provides business logic for the application. The catalog
// mutations take their acting identity from the current session, so a
// caller cannot sidestep the role check by going around the UI.
type Service struct {
	repo     repo.Repository
	sessions *session.Store

	mu      sync.RWMutex
	current *model.User
}

// New creates a new Service with the given repository and session
// store. A previously persisted session identity is restored, if any.
func New(r repo.Repository, sessions *session.Store) *Service {
	s := &Service{repo: r, sessions: sessions}

	if sessions != nil {
		u, err := sessions.Load()
		if err != nil {
			logger.Warn("Failed to restore session identity", "error", err)
		} else if u != nil {
			s.current = u
			logger.Info("Restored session identity", "email", u.Email, "role", u.Role)
		}
	}
	return s
}

// requireAuth returns the current identity or ErrNotAuthenticated.
func (s *Service) requireAuth() (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotAuthenticated
	}
	return s.current, nil
}

// requireAdmin returns the current identity if its role is admin.
func (s *Service) requireAdmin() (*model.User, error) {
	u, err := s.requireAuth()
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return u, nil
}

// Books

// ListBooks retrieves all books from the repository
func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := s.repo.ListBooks()
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook retrieves a single book by ID, comments included
func (s *Service) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	if err := validator.ValidateID(id); err != nil {
		return nil, err
	}
	book, err := s.repo.GetBookByID(id)
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return book, nil
}

// AddBook adds a new book to the catalog. Admin only.
func (s *Service) AddBook(ctx context.Context, b *model.Book) (int64, error) {
	if _, err := s.requireAdmin(); err != nil {
		return 0, err
	}
	if err := validator.ValidateNonEmpty(b.Title); err != nil {
		return 0, fmt.Errorf("title: %w", err)
	}
	if err := validator.ValidateNonEmpty(b.Author); err != nil {
		return 0, fmt.Errorf("author: %w", err)
	}

	id, err := s.repo.AddBook(b)
	if err != nil {
		return 0, fmt.Errorf("add book: %w", err)
	}
	logger.Info("Book added", "book_id", id, "title", b.Title)
	return id, nil
}

// UpdateBook merges the patch into the book. Admin only.
func (s *Service) UpdateBook(ctx context.Context, id int64, patch model.BookPatch) error {
	if _, err := s.requireAdmin(); err != nil {
		return err
	}
	if err := validator.ValidateID(id); err != nil {
		return err
	}
	if err := s.repo.UpdateBook(id, patch); err != nil {
		return fmt.Errorf("update book %d: %w", id, err)
	}
	return nil
}

// RemoveBook deletes a book. Admin only; a checked-out book is
// rejected with repo.ErrHasLoans.
func (s *Service) RemoveBook(ctx context.Context, id int64) error {
	if _, err := s.requireAdmin(); err != nil {
		return err
	}
	if err := validator.ValidateID(id); err != nil {
		return err
	}
	if err := s.repo.RemoveBook(id); err != nil {
		return fmt.Errorf("remove book %d: %w", id, err)
	}
	logger.Info("Book removed", "book_id", id)
	return nil
}

// Members

// ListMembers retrieves all members from the repository
func (s *Service) ListMembers(ctx context.Context) ([]model.Member, error) {
	members, err := s.repo.ListMembers()
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// GetMember retrieves a single member by ID with the held-book set
func (s *Service) GetMember(ctx context.Context, id int64) (*model.Member, error) {
	if err := validator.ValidateID(id); err != nil {
		return nil, err
	}
	member, err := s.repo.GetMemberByID(id)
	if err != nil {
		return nil, fmt.Errorf("get member %d: %w", id, err)
	}
	return member, nil
}

// AddMember adds a new member record. Admin only.
func (s *Service) AddMember(ctx context.Context, m *model.Member) (int64, error) {
	if _, err := s.requireAdmin(); err != nil {
		return 0, err
	}
	if err := validator.ValidateNonEmpty(m.Name); err != nil {
		return 0, fmt.Errorf("name: %w", err)
	}
	if err := validator.ValidateEmail(m.Email); err != nil {
		return 0, err
	}

	id, err := s.repo.AddMember(m)
	if err != nil {
		return 0, fmt.Errorf("add member: %w", err)
	}
	logger.Info("Member added", "member_id", id, "name", m.Name)
	return id, nil
}

// UpdateMember merges the patch into the member. Admin only.
func (s *Service) UpdateMember(ctx context.Context, id int64, patch model.MemberPatch) error {
	if _, err := s.requireAdmin(); err != nil {
		return err
	}
	if err := validator.ValidateID(id); err != nil {
		return err
	}
	if patch.Email != nil {
		if err := validator.ValidateEmail(*patch.Email); err != nil {
			return err
		}
	}
	if err := s.repo.UpdateMember(id, patch); err != nil {
		return fmt.Errorf("update member %d: %w", id, err)
	}
	return nil
}

// RemoveMember deletes a member record. Admin only; a member with
// books still out is rejected with repo.ErrHasLoans.
func (s *Service) RemoveMember(ctx context.Context, id int64) error {
	if _, err := s.requireAdmin(); err != nil {
		return err
	}
	if err := validator.ValidateID(id); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(id); err != nil {
		return fmt.Errorf("remove member %d: %w", id, err)
	}
	logger.Info("Member removed", "member_id", id)
	return nil
}

// Health

// Ping checks the health of the service and its dependencies
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(); err != nil {
		return fmt.Errorf("repository ping: %w", err)
	}
	return nil
}
