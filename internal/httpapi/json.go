package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tinoosan/hacc/internal/report"
)

// toJSON writes a JSON response with status code.
func toJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// render writes a report, or maps err when the report could not be built.
func (s *Server) render(w http.ResponseWriter, r *http.Request, rep *report.Report, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, rep)
}

// requireJSON rejects bodies whose Content-Type is not application/json
// (parameters such as charset are allowed) with 415.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		mime := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
		if mime != "application/json" {
			writeErr(w, http.StatusUnsupportedMediaType, "unsupported_media_type", codeUnsupported)
			return
		}
		next.ServeHTTP(w, r)
	})
}
