package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/barekit/orbitai/pkg/assistant"
	"github.com/barekit/orbitai/pkg/deploy"
	"github.com/barekit/orbitai/pkg/preflight"
	"github.com/barekit/orbitai/pkg/session"
)

type errorBody struct {
	Detail string                  `json:"detail"`
	Errors []string                `json:"errors,omitempty"`
	Checks []preflight.CheckResult `json:"checks,omitempty"`
}

// error maps a service error onto a status code and writes it.
func (h *Handler) error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		apiErr    *deploy.APIError
		invalid   *assistant.ValidationError
		failed    *assistant.PreflightError
	)

	switch {
	case errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Session not found"})
	case errors.Is(err, deploy.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Deployment not found"})
	case errors.Is(err, assistant.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Message is required"})
	case errors.Is(err, assistant.ErrConfigIncomplete):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Configuration not complete"})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "Configuration is invalid", Errors: invalid.Problems})
	case errors.As(err, &failed):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Detail: "Preflight checks failed",
			Errors: failed.Report.Failures(),
			Checks: failed.Report.Checks,
		})
	case errors.As(err, &apiErr):
		writeJSON(w, apiErr.StatusCode, errorBody{Detail: err.Error()})
	case errors.Is(err, deploy.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Detail: fmt.Sprintf("Backend unavailable: %v", err)})
	default:
		h.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: err.Error()})
	}
}

func formatValidationErrors(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
	}
	return out
}
