// Package model holds the domain types shared by the repository,
// service and API layers.
package model

import "time"

// BookStatus is the lending state of a book.
type BookStatus string

const (
	StatusAvailable  BookStatus = "available"
	StatusCheckedOut BookStatus = "checked-out"
)

// Role is the access level of a directory user.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// Book is a catalog item. A book is either available or checked out;
// BorrowerID and DueDate are set exactly when Status is checked-out.
type Book struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	ISBN        string     `json:"isbn"`
	PublishYear string     `json:"publish_year"`
	Category    string     `json:"category"`
	Status      BookStatus `json:"status"`
	CoverURL    string     `json:"cover_url,omitempty"`
	Audience    string     `json:"audience,omitempty"`
	BorrowerID  *int64     `json:"borrower_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
}

// BookPatch is a partial update for a book. Nil fields are left
// untouched. Lending state (status, borrower, due date) is never
// patched directly; it only changes through checkout and return.
type BookPatch struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	ISBN        *string `json:"isbn,omitempty"`
	PublishYear *string `json:"publish_year,omitempty"`
	Category    *string `json:"category,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
	Audience    *string `json:"audience,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.ISBN == nil &&
		p.PublishYear == nil && p.Category == nil && p.CoverURL == nil &&
		p.Audience == nil
}

// Member is a lending-eligible patron record. CurrentBooks is derived
// from the books table (every book whose borrower is this member), so
// it cannot drift from the books' own lending state.
//
// UserID links the member to the directory user created alongside it at
// registration; members added directly by an admin have no linked user.
type Member struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
	UserID       *int64    `json:"user_id,omitempty"`
	CurrentBooks []int64   `json:"current_books"`
}

// MemberPatch is a partial update for a member. Nil fields are left
// untouched.
type MemberPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p MemberPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil
}

// Comment is a remark left on a book. Comments are immutable once
// created and are removed together with their book.
type Comment struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"book_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// User is a login identity in the directory. It is distinct from
// Member: a User can sign in, a Member can hold books.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
}
