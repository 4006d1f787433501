package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/choreboard/internal/ai"
	"github.com/dukerupert/choreboard/internal/planner"
)

// respondError maps err to a status and message and writes it. Unexpected
// errors are logged and reported generically.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, msg := resolveError(err)
	if status == http.StatusInternalServerError {
		logger.Error("unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeErrorJSON(w, status, msg)
}

func resolveError(err error) (int, string) {
	var ve *planner.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, ai.ErrServiceNotRunning):
		return http.StatusServiceUnavailable, "AI service is not running. Make sure Ollama is running."
	case errors.Is(err, ai.ErrServiceUnavailable):
		return http.StatusBadGateway, "AI service failed to respond"
	case errors.Is(err, ai.ErrMalformedResponse):
		return http.StatusBadGateway, "AI returned an unreadable response"
	}
	return http.StatusInternalServerError, "internal server error"
}
