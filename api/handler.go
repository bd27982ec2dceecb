package api

import (
	"net/http"

	"github.com/dhowell/biblio/middleware"
	"github.com/dhowell/biblio/service"
)

// NewHandler creates and returns the main HTTP handler (router) for the application
func NewHandler(svc *service.Service) http.Handler {
	mux := http.NewServeMux()

	// Catalog
	mux.Handle("GET /api/books", listBooksHandler(svc))
	mux.Handle("POST /api/books", addBookHandler(svc))
	mux.Handle("GET /api/books/{id}", getBookHandler(svc))
	mux.Handle("PATCH /api/books/{id}", updateBookHandler(svc))
	mux.Handle("DELETE /api/books/{id}", removeBookHandler(svc))

	// Lending
	mux.Handle("POST /api/books/{id}/checkout", checkoutHandler(svc))
	mux.Handle("POST /api/books/{id}/return", returnHandler(svc))

	// Comments
	mux.Handle("GET /api/books/{id}/comments", listCommentsHandler(svc))
	mux.Handle("POST /api/books/{id}/comments", addCommentHandler(svc))

	// Members
	mux.Handle("GET /api/members", listMembersHandler(svc))
	mux.Handle("POST /api/members", addMemberHandler(svc))
	mux.Handle("GET /api/members/{id}", getMemberHandler(svc))
	mux.Handle("PATCH /api/members/{id}", updateMemberHandler(svc))
	mux.Handle("DELETE /api/members/{id}", removeMemberHandler(svc))

	// Directory / session
	mux.Handle("POST /api/auth/register", registerHandler(svc))
	mux.Handle("POST /api/auth/login", loginHandler(svc))
	mux.Handle("POST /api/auth/logout", logoutHandler(svc))
	mux.Handle("GET /api/auth/session", sessionHandler(svc))

	mux.HandleFunc("/health", healthCheckHandler(svc))

	// Apply middleware chain
	chain := middleware.Chain(
		middleware.Recovery,
		middleware.Logger,
		middleware.RequestID,
	)

	// CORS wraps the whole mux: the routes use method patterns, so an
	// OPTIONS preflight would be rejected with 405 before any
	// per-route wrapper could answer it.
	return chain(withCORS(mux))
}
