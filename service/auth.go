package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dhowell/biblio/logger"
	"github.com/dhowell/biblio/model"
	"github.com/dhowell/biblio/repo"
	"github.com/dhowell/biblio/validator"
)

// ErrInvalidCredentials is returned when no directory entry matches
// the login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Register creates a directory entry. When the role is member, a
// linked Member record is created with the same contact details so the
// new user can hold books right away.
func (s *Service) Register(ctx context.Context, name, email, password, phone string, role model.Role) (*model.User, error) {
	if err := validator.ValidateNonEmpty(name); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if err := validator.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validator.ValidateNonEmpty(password); err != nil {
		return nil, fmt.Errorf("password: %w", err)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Role:         role,
		PasswordHash: string(hash),
	}
	if _, err := s.repo.AddUser(u); err != nil {
		return nil, fmt.Errorf("register %q: %w", email, err)
	}

	if role == model.RoleMember {
		m := &model.Member{
			Name:   name,
			Email:  email,
			Phone:  phone,
			UserID: &u.ID,
		}
		if _, err := s.repo.AddMember(m); err != nil {
			return nil, fmt.Errorf("create member record for %q: %w", email, err)
		}
	}

	logger.Info("User registered", "email", email, "role", role)
	return u, nil
}

// Login establishes the session identity. The lookup matches email and
// role only; the password is accepted but not verified against the
// stored hash.
func (s *Service) Login(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	if err := validator.ValidateEmail(email); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	u, err := s.repo.GetUserByEmailAndRole(email, role)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login %q: %w", email, err)
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	if s.sessions != nil {
		if err := s.sessions.Save(u); err != nil {
			logger.Warn("Failed to persist session identity", "error", err)
		}
	}

	logger.Info("User logged in", "email", email, "role", role)
	return u, nil
}

// Logout clears the session identity and its persisted copy.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if s.sessions != nil {
		if err := s.sessions.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	logger.Info("User logged out")
	return nil
}

// CurrentUser returns the signed-in identity, or nil.
func (s *Service) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsAuthenticated reports whether anybody is signed in.
func (s *Service) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// CanEditBooks reports whether the signed-in identity may mutate the
// catalog. Only admins can.
func (s *Service) CanEditBooks() bool {
	u := s.CurrentUser()
	return u != nil && u.Role == model.RoleAdmin
}
