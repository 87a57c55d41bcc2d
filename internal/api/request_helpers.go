package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mbarlow/tasktrack/internal/api/shared"
	"github.com/mbarlow/tasktrack/internal/domain"
)

// getUserIDFromContext extracts the authenticated user's ID from the request
// context. The user ID is expected to be placed in the context by the
// authentication middleware.
func getUserIDFromContext(r *http.Request) (int64, bool) {
	return shared.UserID(r.Context())
}

// getPathID extracts an integer ID from the URL path parameters.
// Returns an error wrapping domain.ErrInvalidID if the parameter is missing
// or not a positive integer.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer", domain.ErrInvalidID)
	}

	return id, nil
}

// handleUserIDAndPathID is a composite helper that extracts both the user ID
// from context and an integer ID from the path parameters. It writes an error
// response if either extraction fails.
//
// Returns (userID, pathID, true) on success, or zeros and false if extraction
// failed and an error response was already written.
func handleUserIDAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (int64, int64, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "Authentication required")
		return 0, 0, false
	}

	pathID, err := getPathID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return 0, 0, false
	}

	return userID, pathID, true
}
