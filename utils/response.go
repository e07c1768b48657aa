package utils

import (
	"encoding/json"
	"net/http"

	ierr "disfactory.tw/backoffice/pkg/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its status and code. Messages of server-side
// failures are not exposed.
func WriteError(w http.ResponseWriter, err error) {
	status := ierr.HTTPStatusFromErr(err)
	detail := ErrorDetail{
		Code:    ierr.Code(err),
		Message: err.Error(),
		Hint:    ierr.Hint(err),
	}
	if status >= http.StatusInternalServerError {
		detail.Message = http.StatusText(status)
		detail.Hint = ""
	}
	WriteJSON(w, status, ErrorBody{Error: detail})
}
