package httpapi

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-resources/core"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Category   string         `json:"category"`
	Code       int            `json:"code"`
	TextCode   string         `json:"text_code,omitempty"`
	Message    string         `json:"message"`
	Validation []fieldError   `json:"validation,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, op core.Operation, err error) {
	mapped := h.endpoint.MapError(err)
	if mapped == nil {
		mapped = core.MapError(err)
	}
	status := mapped.Code
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		if logger := h.endpoint.Logger(); logger != nil {
			logger.Error("resource request failed",
				"operation", op.String(),
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
		}
	}

	writeJSON(w, status, errorBody{Error: toPayload(mapped, status)})
}

func toPayload(mapped *goerrors.Error, status int) errorPayload {
	payload := errorPayload{
		Category: string(mapped.Category),
		Code:     status,
		TextCode: mapped.TextCode,
		Message:  mapped.Message,
	}
	// internal details stay in the logs
	if status >= http.StatusInternalServerError {
		payload.Message = http.StatusText(status)
		return payload
	}
	for _, fe := range mapped.AllValidationErrors() {
		payload.Validation = append(payload.Validation, fieldError{Field: fe.Field, Message: fe.Message})
	}
	if len(mapped.Metadata) > 0 {
		payload.Metadata = mapped.Metadata
	}
	return payload
}
