package api

import (
	"net/http"
	"time"

	"github.com/dhowell/biblio/model"
	"github.com/dhowell/biblio/service"
)

// Books

func listBooksHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		books, err := svc.ListBooks(r.Context())
		if err != nil {
			respondWithServiceError(w, "Failed to list books", err)
			return
		}
		respondWithJSON(w, http.StatusOK, books)
	})
}

func getBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid book ID")
			return
		}
		book, err := svc.GetBook(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, "Failed to get book", err)
			return
		}
		respondWithJSON(w, http.StatusOK, book)
	})
}

func addBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title       string `json:"title"`
			Author      string `json:"author"`
			ISBN        string `json:"isbn"`
			PublishYear string `json:"publish_year"`
			Category    string `json:"category"`
			CoverURL    string `json:"cover_url"`
			Audience    string `json:"audience"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondWithValidationError(w, "invalid request body")
			return
		}

		book := &model.Book{
			Title:       req.Title,
			Author:      req.Author,
			ISBN:        req.ISBN,
			PublishYear: req.PublishYear,
			Category:    req.Category,
			CoverURL:    req.CoverURL,
			Audience:    req.Audience,
		}
		if _, err := svc.AddBook(r.Context(), book); err != nil {
			respondWithServiceError(w, "Failed to add book", err)
			return
		}
		respondWithJSON(w, http.StatusCreated, book)
	})
}

func updateBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid book ID")
			return
		}
		var patch model.BookPatch
		if err := decodeBody(r, &patch); err != nil {
			respondWithValidationError(w, "invalid request body")
			return
		}
		if err := svc.UpdateBook(r.Context(), id, patch); err != nil {
			respondWithServiceError(w, "Failed to update book", err)
			return
		}
		book, err := svc.GetBook(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, "Failed to get book", err)
			return
		}
		respondWithJSON(w, http.StatusOK, book)
	})
}

func removeBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid book ID")
			return
		}
		if err := svc.RemoveBook(r.Context(), id); err != nil {
			respondWithServiceError(w, "Failed to remove book", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// Lending

func checkoutHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid book ID")
			return
		}
		var req struct {
			MemberID int64     `json:"member_id"`
			DueDate  time.Time `json:"due_date"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondWithValidationError(w, "invalid request body")
			return
		}
		if req.DueDate.IsZero() {
			respondWithValidationError(w, "missing 'due_date'")
			return
		}
		if err := svc.Checkout(r.Context(), id, req.MemberID, req.DueDate); err != nil {
			respondWithServiceError(w, "Failed to check out book", err)
			return
		}
		book, err := svc.GetBook(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, "Failed to get book", err)
			return
		}
		respondWithJSON(w, http.StatusOK, book)
	})
}

func returnHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid book ID")
			return
		}
		if err := svc.Return(r.Context(), id); err != nil {
			respondWithServiceError(w, "Failed to return book", err)
			return
		}
		book, err := svc.GetBook(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, "Failed to get book", err)
			return
		}
		respondWithJSON(w, http.StatusOK, book)
	})
}

// Comments

func listCommentsHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid book ID")
			return
		}
		comments, err := svc.ListComments(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, "Failed to list comments", err)
			return
		}
		respondWithJSON(w, http.StatusOK, comments)
	})
}

func addCommentHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid book ID")
			return
		}
		var req struct {
			Body string `json:"body"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondWithValidationError(w, "invalid request body")
			return
		}
		comment, err := svc.AddComment(r.Context(), id, req.Body)
		if err != nil {
			respondWithServiceError(w, "Failed to add comment", err)
			return
		}
		respondWithJSON(w, http.StatusCreated, comment)
	})
}

// Members

func listMembersHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		members, err := svc.ListMembers(r.Context())
		if err != nil {
			respondWithServiceError(w, "Failed to list members", err)
			return
		}
		respondWithJSON(w, http.StatusOK, members)
	})
}

func getMemberHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid member ID")
			return
		}
		member, err := svc.GetMember(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, "Failed to get member", err)
			return
		}
		respondWithJSON(w, http.StatusOK, member)
	})
}

func addMemberHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Phone string `json:"phone"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondWithValidationError(w, "invalid request body")
			return
		}

		member := &model.Member{Name: req.Name, Email: req.Email, Phone: req.Phone}
		if _, err := svc.AddMember(r.Context(), member); err != nil {
			respondWithServiceError(w, "Failed to add member", err)
			return
		}
		respondWithJSON(w, http.StatusCreated, member)
	})
}

func updateMemberHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid member ID")
			return
		}
		var patch model.MemberPatch
		if err := decodeBody(r, &patch); err != nil {
			respondWithValidationError(w, "invalid request body")
			return
		}
		if err := svc.UpdateMember(r.Context(), id, patch); err != nil {
			respondWithServiceError(w, "Failed to update member", err)
			return
		}
		member, err := svc.GetMember(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, "Failed to get member", err)
			return
		}
		respondWithJSON(w, http.StatusOK, member)
	})
}

func removeMemberHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithValidationError(w, "invalid member ID")
			return
		}
		if err := svc.RemoveMember(r.Context(), id); err != nil {
			respondWithServiceError(w, "Failed to remove member", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func healthCheckHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ping(r.Context()); err != nil {
			respondWithError(w, "service unavailable", err, http.StatusServiceUnavailable)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
