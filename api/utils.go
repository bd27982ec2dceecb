package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dhowell/biblio/logger"
	"github.com/dhowell/biblio/repo"
	"github.com/dhowell/biblio/service"
)

// respondWithJSON writes v as a JSON body with the given status
func respondWithJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// respondWithError logs an error and sends an HTTP error response as JSON
func respondWithError(w http.ResponseWriter, message string, err error, statusCode int) {
	logger.Error(message, "error", err, "status", statusCode)
	respondWithJSON(w, statusCode, map[string]any{"error": message})
}

// respondWithValidationError sends a validation error response as JSON
func respondWithValidationError(w http.ResponseWriter, message string) {
	logger.Warn("Validation error", "message", message)
	respondWithJSON(w, http.StatusBadRequest, map[string]any{"error": message})
}

// respondWithServiceError maps service/repo sentinel errors onto HTTP
// statuses; anything unrecognized becomes a 500.
func respondWithServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		respondWithError(w, "authentication required", err, http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, "forbidden", err, http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, "invalid credentials", err, http.StatusUnauthorized)
	case errors.Is(err, repo.ErrNotFound):
		respondWithError(w, "not found", err, http.StatusNotFound)
	case errors.Is(err, repo.ErrDuplicateEmail):
		respondWithError(w, "email already registered", err, http.StatusConflict)
	case errors.Is(err, repo.ErrAlreadyCheckedOut):
		respondWithError(w, "book already checked out", err, http.StatusConflict)
	case errors.Is(err, repo.ErrHasLoans):
		respondWithError(w, "record has outstanding loans", err, http.StatusConflict)
	default:
		respondWithError(w, message, err, http.StatusInternalServerError)
	}
}

// pathID parses the {id} path parameter
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// decodeBody decodes a JSON request body into v
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			return
		}
		h.ServeHTTP(w, r)
	})
}
