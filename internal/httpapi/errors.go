package httpapi

import (
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/hacc/internal/errs"
)

const (
	codeNotFound    = "not_found"
	codeInternal    = "internal"
	codeUnsupported = "unsupported_media_type"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func notFound(w http.ResponseWriter) { writeErr(w, http.StatusNotFound, "not_found", codeNotFound) }

// fail maps a service error onto a status and payload. User errors carry
// their own code and message; anything unrecognised is logged and hidden.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	ue, isUser := errs.AsUser(err)
	msg := func(def string) string {
		if isUser {
			return ue.Message
		}
		return def
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrInvalid):
		code := errs.CodeInvalidInput
		if isUser {
			code = ue.Code
		}
		writeErr(w, http.StatusBadRequest, msg("invalid"), code)
	case errors.Is(err, errs.ErrConflict):
		writeErr(w, http.StatusConflict, msg("conflict"), errs.CodeDataIntegrity)
	case errors.Is(err, errs.ErrUnprocessable):
		code := "validation_error"
		if isUser {
			code = ue.Code
		}
		writeErr(w, http.StatusUnprocessableEntity, msg("unprocessable"), code)
	default:
		s.log.Error("request failed", "req_id", chimw.GetReqID(r.Context()), "method", r.Method, "path", r.URL.Path, "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error", codeInternal)
	}
}
