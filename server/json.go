package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fwojciec/medscan"
)

// errorResponse is the error body clients already parse.
type errorResponse struct {
	Error string `json:"erreur"`
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	medscan.EINVALID:     http.StatusBadRequest,
	medscan.ENOTFOUND:    http.StatusNotFound,
	medscan.EUNAVAILABLE: http.StatusBadGateway,
	medscan.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if payload != nil {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(payload); err != nil {
			slog.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// respondWithError writes err as a JSON error body. Internal errors are
// logged and their details are not sent to the client.
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := medscan.ErrorCode(err), medscan.ErrorMessage(err)
	if code == medscan.EINTERNAL {
		s.logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	respondWithJSON(w, ErrorStatusCode(code), errorResponse{Error: message})
}
