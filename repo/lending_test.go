package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/dhowell/biblio/model"
)

func TestCheckoutSetsLendingState(t *testing.T) {
	r := newTestRepo(t)
	bookID := addTestBook(t, r, "1984")
	memberID := addTestMember(t, r, "Jane Doe", "jane.doe@example.com")
	due := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	if err := r.CheckoutBook(bookID, memberID, due); err != nil {
		t.Fatalf("CheckoutBook failed: %v", err)
	}

	b, err := r.GetBookByID(bookID)
	if err != nil {
		t.Fatalf("GetBookByID failed: %v", err)
	}
	if b.Status != model.StatusCheckedOut {
		t.Errorf("status = %q, want %q", b.Status, model.StatusCheckedOut)
	}
	if b.BorrowerID == nil || *b.BorrowerID != memberID {
		t.Errorf("borrower = %v, want %d", b.BorrowerID, memberID)
	}
	if b.DueDate == nil || !b.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", b.DueDate, due)
	}

	m, err := r.GetMemberByID(memberID)
	if err != nil {
		t.Fatalf("GetMemberByID failed: %v", err)
	}
	if len(m.CurrentBooks) != 1 || m.CurrentBooks[0] != bookID {
		t.Errorf("member holds %v, want [%d]", m.CurrentBooks, bookID)
	}
}

func TestCheckoutAlreadyCheckedOut(t *testing.T) {
	r := newTestRepo(t)
	bookID := addTestBook(t, r, "The Hobbit")
	jane := addTestMember(t, r, "Jane Doe", "jane.doe@example.com")
	john := addTestMember(t, r, "John Smith", "john.smith@example.com")
	due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	if err := r.CheckoutBook(bookID, jane, due); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	if err := r.CheckoutBook(bookID, john, due); !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Fatalf("expected ErrAlreadyCheckedOut, got %v", err)
	}

	// Borrower must be unchanged after the rejected checkout.
	b, err := r.GetBookByID(bookID)
	if err != nil {
		t.Fatalf("GetBookByID failed: %v", err)
	}
	if b.BorrowerID == nil || *b.BorrowerID != jane {
		t.Errorf("borrower = %v, want %d", b.BorrowerID, jane)
	}
}

func TestCheckoutMissingRecords(t *testing.T) {
	r := newTestRepo(t)
	bookID := addTestBook(t, r, "Sapiens")
	memberID := addTestMember(t, r, "Sarah Johnson", "sarah.j@example.com")
	due := time.Now().AddDate(0, 0, 14)

	if err := r.CheckoutBook(404, memberID, due); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing book: expected ErrNotFound, got %v", err)
	}
	if err := r.CheckoutBook(bookID, 404, due); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing member: expected ErrNotFound, got %v", err)
	}
}

func TestReturnRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	bookID := addTestBook(t, r, "1984")
	memberID := addTestMember(t, r, "Jane Doe", "jane.doe@example.com")
	due := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	if err := r.CheckoutBook(bookID, memberID, due); err != nil {
		t.Fatalf("CheckoutBook failed: %v", err)
	}
	borrower, err := r.ReturnBook(bookID)
	if err != nil {
		t.Fatalf("ReturnBook failed: %v", err)
	}
	if borrower != memberID {
		t.Errorf("ReturnBook yielded member %d, want %d", borrower, memberID)
	}

	b, err := r.GetBookByID(bookID)
	if err != nil {
		t.Fatalf("GetBookByID failed: %v", err)
	}
	if b.Status != model.StatusAvailable || b.BorrowerID != nil || b.DueDate != nil {
		t.Errorf("book not restored after return: %+v", b)
	}

	m, err := r.GetMemberByID(memberID)
	if err != nil {
		t.Fatalf("GetMemberByID failed: %v", err)
	}
	if len(m.CurrentBooks) != 0 {
		t.Errorf("member still holds %v after return", m.CurrentBooks)
	}
}

func TestReturnNotCheckedOut(t *testing.T) {
	r := newTestRepo(t)
	bookID := addTestBook(t, r, "The Great Gatsby")

	if _, err := r.ReturnBook(bookID); !errors.Is(err, ErrNotCheckedOut) {
		t.Fatalf("expected ErrNotCheckedOut, got %v", err)
	}

	b, err := r.GetBookByID(bookID)
	if err != nil {
		t.Fatalf("GetBookByID failed: %v", err)
	}
	if b.Status != model.StatusAvailable {
		t.Errorf("return on shelf book changed status to %q", b.Status)
	}
}

func TestReturnMissingBook(t *testing.T) {
	r := newTestRepo(t)

	if _, err := r.ReturnBook(77); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveCheckedOutBookRejected(t *testing.T) {
	r := newTestRepo(t)
	bookID := addTestBook(t, r, "The Hobbit")
	memberID := addTestMember(t, r, "John Smith", "john.smith@example.com")

	if err := r.CheckoutBook(bookID, memberID, time.Now().AddDate(0, 1, 0)); err != nil {
		t.Fatalf("CheckoutBook failed: %v", err)
	}
	if err := r.RemoveBook(bookID); !errors.Is(err, ErrHasLoans) {
		t.Fatalf("expected ErrHasLoans, got %v", err)
	}
}

func TestRemoveMemberWithLoansRejected(t *testing.T) {
	r := newTestRepo(t)
	bookID := addTestBook(t, r, "1984")
	memberID := addTestMember(t, r, "Jane Doe", "jane.doe@example.com")

	if err := r.CheckoutBook(bookID, memberID, time.Now().AddDate(0, 0, 30)); err != nil {
		t.Fatalf("CheckoutBook failed: %v", err)
	}
	if err := r.RemoveMember(memberID); !errors.Is(err, ErrHasLoans) {
		t.Fatalf("expected ErrHasLoans, got %v", err)
	}

	// The book's borrower is still a live record.
	b, err := r.GetBookByID(bookID)
	if err != nil {
		t.Fatalf("GetBookByID failed: %v", err)
	}
	if b.BorrowerID == nil || *b.BorrowerID != memberID {
		t.Errorf("borrower = %v, want %d", b.BorrowerID, memberID)
	}

	// After the book comes back, the member can go.
	if _, err := r.ReturnBook(bookID); err != nil {
		t.Fatalf("ReturnBook failed: %v", err)
	}
	if err := r.RemoveMember(memberID); err != nil {
		t.Fatalf("RemoveMember after return failed: %v", err)
	}
}
