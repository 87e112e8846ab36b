package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"Yatube/internal/core/groups"
	"Yatube/internal/core/posts"
	"Yatube/internal/core/users"
)

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: errorType, Message: message}); err != nil {
		slog.Error("[FEED-API] failed to encode error response", "error", err)
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case groups.IsNotFound(err):
		writeError(w, http.StatusNotFound, "GroupNotFound", "Group not found")
	case users.IsNotFound(err):
		writeError(w, http.StatusNotFound, "ProfileNotFound", "Profile not found")
	case posts.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		slog.Error("[FEED-API] feed service error", "error", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while fetching the feed")
	}
}
