package repo

import (
	"errors"
	"time"

	"github.com/dhowell/biblio/model"
)

// ErrNotFound is returned when a record is not found in the repository
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when a directory entry with the same
// email already exists
var ErrDuplicateEmail = errors.New("email already registered")

// ErrAlreadyCheckedOut is returned when checking out a book that is
// already checked out
var ErrAlreadyCheckedOut = errors.New("book already checked out")

// ErrNotCheckedOut is returned when returning a book that is not
// checked out
var ErrNotCheckedOut = errors.New("book is not checked out")

// ErrHasLoans is returned when deleting a record that is still
// referenced by an open loan
var ErrHasLoans = errors.New("record has outstanding loans")

// Repository defines the interface for data access operations
type Repository interface {
	// Close closes the database connection
	Close() error

	// Health check
	Ping() error

	// Books
	ListBooks() ([]model.Book, error)
	GetBookByID(id int64) (*model.Book, error)
	AddBook(b *model.Book) (int64, error)
	UpdateBook(id int64, patch model.BookPatch) error
	RemoveBook(id int64) error

	// Members
	ListMembers() ([]model.Member, error)
	GetMemberByID(id int64) (*model.Member, error)
	AddMember(m *model.Member) (int64, error)
	UpdateMember(id int64, patch model.MemberPatch) error
	RemoveMember(id int64) error

	// Lending. Checkout and Return flip the book's lending state and
	// its borrower/due-date fields in a single transaction, so the
	// three can never disagree.
	CheckoutBook(bookID, memberID int64, due time.Time) error
	ReturnBook(bookID int64) (borrowerID int64, err error)

	// Comments
	AddComment(c *model.Comment) (int64, error)
	ListComments(bookID int64) ([]model.Comment, error)

	// Directory
	AddUser(u *model.User) (int64, error)
	GetUserByID(id int64) (*model.User, error)
	GetUserByEmailAndRole(email string, role model.Role) (*model.User, error)
}
