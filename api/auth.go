package api

import (
	"net/http"

	"github.com/dhowell/biblio/model"
	"github.com/dhowell/biblio/service"
)

func registerHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string     `json:"name"`
			Email    string     `json:"email"`
			Password string     `json:"password"`
			Phone    string     `json:"phone"`
			Role     model.Role `json:"role"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondWithValidationError(w, "invalid request body")
			return
		}

		u, err := svc.Register(r.Context(), req.Name, req.Email, req.Password, req.Phone, req.Role)
		if err != nil {
			respondWithServiceError(w, "Failed to register", err)
			return
		}
		respondWithJSON(w, http.StatusCreated, u)
	})
}

func loginHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string     `json:"email"`
			Password string     `json:"password"`
			Role     model.Role `json:"role"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondWithValidationError(w, "invalid request body")
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password, req.Role)
		if err != nil {
			respondWithServiceError(w, "Failed to log in", err)
			return
		}
		respondWithJSON(w, http.StatusOK, u)
	})
}

func logoutHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			respondWithServiceError(w, "Failed to log out", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func sessionHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]any{
			"authenticated":  svc.IsAuthenticated(),
			"can_edit_books": svc.CanEditBooks(),
			"user":           svc.CurrentUser(),
		})
	})
}
