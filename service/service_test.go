package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dhowell/biblio/logger"
	"github.com/dhowell/biblio/model"
	"github.com/dhowell/biblio/repo"
)

func init() {
	// Initialize logger for tests
	logger.Init("error")
}

// Mock repository for testing
type mockRepository struct {
	books        []model.Book
	booksError   error
	members      []model.Member
	membersError error
	pingError    error

	addedBooks   []model.Book
	addedMembers []model.Member
	removedBooks []int64
	checkouts    []int64
	returns      []int64
}

func (m *mockRepository) Close() error { return nil }
func (m *mockRepository) Ping() error  { return m.pingError }

func (m *mockRepository) ListBooks() ([]model.Book, error) {
	if m.booksError != nil {
		return nil, m.booksError
	}
	return m.books, nil
}

func (m *mockRepository) GetBookByID(id int64) (*model.Book, error) {
	for i := range m.books {
		if m.books[i].ID == id {
			return &m.books[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *mockRepository) AddBook(b *model.Book) (int64, error) {
	m.addedBooks = append(m.addedBooks, *b)
	return int64(len(m.addedBooks)), nil
}

func (m *mockRepository) UpdateBook(id int64, patch model.BookPatch) error {
	if _, err := m.GetBookByID(id); err != nil {
		return err
	}
	return nil
}

func (m *mockRepository) RemoveBook(id int64) error {
	m.removedBooks = append(m.removedBooks, id)
	return nil
}

func (m *mockRepository) ListMembers() ([]model.Member, error) {
	if m.membersError != nil {
		return nil, m.membersError
	}
	return m.members, nil
}

func (m *mockRepository) GetMemberByID(id int64) (*model.Member, error) {
	for i := range m.members {
		if m.members[i].ID == id {
			return &m.members[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *mockRepository) AddMember(mm *model.Member) (int64, error) {
	m.addedMembers = append(m.addedMembers, *mm)
	return int64(len(m.addedMembers)), nil
}

func (m *mockRepository) UpdateMember(id int64, patch model.MemberPatch) error { return nil }
func (m *mockRepository) RemoveMember(id int64) error                          { return nil }

func (m *mockRepository) CheckoutBook(bookID, memberID int64, due time.Time) error {
	m.checkouts = append(m.checkouts, bookID)
	return nil
}

func (m *mockRepository) ReturnBook(bookID int64) (int64, error) {
	m.returns = append(m.returns, bookID)
	return 1, nil
}

func (m *mockRepository) AddComment(c *model.Comment) (int64, error) { return 1, nil }
func (m *mockRepository) ListComments(bookID int64) ([]model.Comment, error) {
	return []model.Comment{}, nil
}

func (m *mockRepository) AddUser(u *model.User) (int64, error)    { return 1, nil }
func (m *mockRepository) GetUserByID(id int64) (*model.User, error) { return nil, repo.ErrNotFound }
func (m *mockRepository) GetUserByEmailAndRole(email string, role model.Role) (*model.User, error) {
	return nil, repo.ErrNotFound
}

func signIn(s *Service, role model.Role) {
	s.mu.Lock()
	s.current = &model.User{ID: 1, Name: "Test User", Email: "test@example.com", Role: role}
	s.mu.Unlock()
}

func TestCatalogMutationsRequireAuthentication(t *testing.T) {
	mock := &mockRepository{}
	svc := New(mock, nil)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, &model.Book{Title: "T", Author: "A"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("AddBook: expected ErrNotAuthenticated, got %v", err)
	}
	if err := svc.RemoveBook(ctx, 1); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("RemoveBook: expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.AddMember(ctx, &model.Member{Name: "N", Email: "n@x.com"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("AddMember: expected ErrNotAuthenticated, got %v", err)
	}
	if err := svc.Checkout(ctx, 1, 1, time.Now()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Checkout: expected ErrNotAuthenticated, got %v", err)
	}
	if len(mock.addedBooks)+len(mock.removedBooks)+len(mock.checkouts) != 0 {
		t.Error("repository was touched by rejected calls")
	}
}

func TestCatalogMutationsForbiddenForMembers(t *testing.T) {
	mock := &mockRepository{}
	svc := New(mock, nil)
	signIn(svc, model.RoleMember)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, &model.Book{Title: "T", Author: "A"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("AddBook: expected ErrForbidden, got %v", err)
	}
	if err := svc.UpdateBook(ctx, 1, model.BookPatch{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("UpdateBook: expected ErrForbidden, got %v", err)
	}
	if err := svc.RemoveMember(ctx, 1); !errors.Is(err, ErrForbidden) {
		t.Errorf("RemoveMember: expected ErrForbidden, got %v", err)
	}
}

func TestCatalogMutationsAllowedForAdmin(t *testing.T) {
	mock := &mockRepository{}
	svc := New(mock, nil)
	signIn(svc, model.RoleAdmin)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, &model.Book{Title: "T", Author: "A"}); err != nil {
		t.Errorf("AddBook failed: %v", err)
	}
	if _, err := svc.AddMember(ctx, &model.Member{Name: "N", Email: "n@x.com"}); err != nil {
		t.Errorf("AddMember failed: %v", err)
	}
	if err := svc.RemoveBook(ctx, 1); err != nil {
		t.Errorf("RemoveBook failed: %v", err)
	}
}

func TestLendingAllowedForMembers(t *testing.T) {
	mock := &mockRepository{}
	svc := New(mock, nil)
	signIn(svc, model.RoleMember)
	ctx := context.Background()

	if err := svc.Checkout(ctx, 1, 1, time.Now().AddDate(0, 0, 14)); err != nil {
		t.Errorf("Checkout failed: %v", err)
	}
	if err := svc.Return(ctx, 1); err != nil {
		t.Errorf("Return failed: %v", err)
	}
}

func TestReadsNeedNoAuthentication(t *testing.T) {
	mock := &mockRepository{
		books:   []model.Book{{ID: 1, Title: "1984", Author: "George Orwell", Status: model.StatusAvailable}},
		members: []model.Member{{ID: 1, Name: "Jane Doe", Email: "jane.doe@example.com"}},
	}
	svc := New(mock, nil)
	ctx := context.Background()

	books, err := svc.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 1 {
		t.Errorf("expected 1 book, got %d", len(books))
	}
	if _, err := svc.GetMember(ctx, 1); err != nil {
		t.Errorf("GetMember failed: %v", err)
	}
}

func TestCanEditBooks(t *testing.T) {
	svc := New(&mockRepository{}, nil)

	if svc.CanEditBooks() {
		t.Error("no session: CanEditBooks should be false")
	}
	signIn(svc, model.RoleMember)
	if svc.CanEditBooks() {
		t.Error("member session: CanEditBooks should be false")
	}
	signIn(svc, model.RoleAdmin)
	if !svc.CanEditBooks() {
		t.Error("admin session: CanEditBooks should be true")
	}
}

func TestAddBookValidation(t *testing.T) {
	svc := New(&mockRepository{}, nil)
	signIn(svc, model.RoleAdmin)
	ctx := context.Background()

	if _, err := svc.AddBook(ctx, &model.Book{Author: "A"}); err == nil {
		t.Error("expected error for empty title")
	}
	if _, err := svc.AddBook(ctx, &model.Book{Title: "T"}); err == nil {
		t.Error("expected error for empty author")
	}
}

func TestPing(t *testing.T) {
	mock := &mockRepository{pingError: errors.New("down")}
	svc := New(mock, nil)

	if err := svc.Ping(context.Background()); err == nil {
		t.Error("expected ping error")
	}
}
