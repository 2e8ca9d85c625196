package kit

import (
	"encoding/json"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the failure body of every route: a diagnostic message, a
// fixed per-route status text and the HTTP code as a string.
type ErrorResponse struct {
	Message    string `json:"message"`
	Status     string `json:"status"`
	StatusCode string `json:"statusCode"`
	RequestID  string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, code int, status, msg string) {
	WriteJSON(w, code, ErrorResponse{
		Message:    msg,
		Status:     status,
		StatusCode: strconv.Itoa(code),
		RequestID:  chimw.GetReqID(r.Context()),
	})
}
