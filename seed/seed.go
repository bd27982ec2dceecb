// Package seed populates the catalog with fixture data: a built-in
// demo set, plus optional JSON fixture files loaded from a directory.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/dhowell/biblio/logger"
	"github.com/dhowell/biblio/model"
	"github.com/dhowell/biblio/repo"
)

// File is the shape of a JSON fixture file. Loans reference their book
// by title and their member by email so fixture files stay writable by
// hand.
type File struct {
	Books   []BookFixture   `json:"books"`
	Members []MemberFixture `json:"members"`
	Users   []UserFixture   `json:"users"`
	Loans   []LoanFixture   `json:"loans"`
}

type BookFixture struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	PublishYear string `json:"publish_year"`
	Category    string `json:"category"`
	CoverURL    string `json:"cover_url"`
	Audience    string `json:"audience"`
}

type MemberFixture struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	JoinedAt time.Time `json:"joined_at"`
}

type UserFixture struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Role     model.Role `json:"role"`
	Password string     `json:"password"`
}

type LoanFixture struct {
	BookTitle   string    `json:"book_title"`
	MemberEmail string    `json:"member_email"`
	DueDate     time.Time `json:"due_date"`
}

// Demo returns the built-in fixture set: a small catalog, three
// members with two open loans, and an admin login.
func Demo() *File {
	return &File{
		Books: []BookFixture{
			{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "978-0-06-112008-4", PublishYear: "1960", Category: "Fiction"},
			{Title: "1984", Author: "George Orwell", ISBN: "978-0-452-28423-4", PublishYear: "1949", Category: "Fiction"},
			{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "978-0-7432-7356-5", PublishYear: "1925", Category: "Fiction"},
			{Title: "Sapiens: A Brief History of Humankind", Author: "Yuval Noah Harari", ISBN: "978-0-06-231609-7", PublishYear: "2011", Category: "Non-fiction"},
			{Title: "The Hobbit", Author: "J.R.R. Tolkien", ISBN: "978-0-261-10295-3", PublishYear: "1937", Category: "Fantasy"},
		},
		Members: []MemberFixture{
			{Name: "Jane Doe", Email: "jane.doe@example.com", Phone: "555-123-4567", JoinedAt: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
			{Name: "John Smith", Email: "john.smith@example.com", Phone: "555-987-6543", JoinedAt: time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC)},
			{Name: "Sarah Johnson", Email: "sarah.j@example.com", Phone: "555-456-7890", JoinedAt: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)},
		},
		Users: []UserFixture{
			{Name: "Librarian", Email: "admin@biblio.local", Role: model.RoleAdmin, Password: "admin"},
		},
		Loans: []LoanFixture{
			{BookTitle: "1984", MemberEmail: "jane.doe@example.com", DueDate: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)},
			{BookTitle: "The Hobbit", MemberEmail: "john.smith@example.com", DueDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

// Apply inserts the fixture set into the repository. Loans go through
// the regular checkout path so the lending invariant holds for seeded
// data too.
func Apply(r repo.Repository, f *File) error {
	bookIDs := make(map[string]int64, len(f.Books))
	for _, bf := range f.Books {
		b := &model.Book{
			Title:       bf.Title,
			Author:      bf.Author,
			ISBN:        bf.ISBN,
			PublishYear: bf.PublishYear,
			Category:    bf.Category,
			CoverURL:    bf.CoverURL,
			Audience:    bf.Audience,
		}
		id, err := r.AddBook(b)
		if err != nil {
			return fmt.Errorf("seed book %q: %w", bf.Title, err)
		}
		bookIDs[bf.Title] = id
	}

	memberIDs := make(map[string]int64, len(f.Members))
	for _, mf := range f.Members {
		m := &model.Member{
			Name:     mf.Name,
			Email:    mf.Email,
			Phone:    mf.Phone,
			JoinedAt: mf.JoinedAt,
		}
		id, err := r.AddMember(m)
		if err != nil {
			return fmt.Errorf("seed member %q: %w", mf.Email, err)
		}
		memberIDs[mf.Email] = id
	}

	for _, uf := range f.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(uf.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", uf.Email, err)
		}
		u := &model.User{
			Name:         uf.Name,
			Email:        uf.Email,
			Phone:        uf.Phone,
			Role:         uf.Role,
			PasswordHash: string(hash),
		}
		if _, err := r.AddUser(u); err != nil {
			return fmt.Errorf("seed user %q: %w", uf.Email, err)
		}
	}

	for _, lf := range f.Loans {
		bookID, ok := bookIDs[lf.BookTitle]
		if !ok {
			return fmt.Errorf("seed loan: unknown book %q", lf.BookTitle)
		}
		memberID, ok := memberIDs[lf.MemberEmail]
		if !ok {
			return fmt.Errorf("seed loan: unknown member %q", lf.MemberEmail)
		}
		if err := r.CheckoutBook(bookID, memberID, lf.DueDate); err != nil {
			return fmt.Errorf("seed loan %q -> %q: %w", lf.BookTitle, lf.MemberEmail, err)
		}
	}

	logger.Info("Fixtures applied",
		"books", len(f.Books), "members", len(f.Members),
		"users", len(f.Users), "loans", len(f.Loans))
	return nil
}

// LoadDir walks dir for .json fixture files, parses them concurrently
// and applies each set to the repository. Parsing fans out; inserts
// stay on a single goroutine because SQLite has one writer.
func LoadDir(dir string, r repo.Repository) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".json" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk fixtures dir %q: %w", dir, err)
	}
	if len(files) == 0 {
		logger.Warn("No fixture files found", "dir", dir)
		return nil
	}

	parsed := make(chan *File)
	g, ctx := errgroup.WithContext(context.Background())

	for _, path := range files {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read fixture %q: %w", path, err)
			}
			var f File
			if err := json.Unmarshal(data, &f); err != nil {
				return fmt.Errorf("parse fixture %q: %w", path, err)
			}
			select {
			case parsed <- &f:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	done := make(chan error, 1)
	go func() {
		for f := range parsed {
			if err := Apply(r, f); err != nil {
				done <- err
				// Drain so the producers can finish.
				for range parsed {
				}
				return
			}
		}
		done <- nil
	}()

	gErr := g.Wait()
	close(parsed)
	applyErr := <-done

	if gErr != nil {
		return gErr
	}
	return applyErr
}
