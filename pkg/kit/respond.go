package kit

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// FieldErrors maps a form field name to its validation message, e.g.
// {"name": "required"}. It travels in ErrorResponse.Details under "fields".
type FieldErrors map[string]string

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, details any) {
	reqID := chimw.GetReqID(r.Context())
	WriteJSON(w, status, ErrorResponse{
		Error:     msg,
		Details:   details,
		RequestID: reqID,
	})
}

func WriteFieldErrors(w http.ResponseWriter, r *http.Request, fields FieldErrors) {
	WriteError(w, r, http.StatusBadRequest, "validation failed", map[string]any{"fields": fields})
}
