package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"barpos/internal/domain"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem emits the simplified problem-document error shape.
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// writeErr maps the domain error taxonomy onto HTTP statuses.
func (h *Handlers) writeErr(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeProblem(w, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		writeProblem(w, http.StatusNotFound, "not_found", err.Error())
	case domain.IsPrecondition(err):
		writeProblem(w, http.StatusConflict, "precondition_failed", err.Error())
	case domain.IsIntegrity(err):
		writeProblem(w, http.StatusConflict, "integrity_error", err.Error())
	default:
		h.log.Error("internal_error", err, nil)
		writeProblem(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func idParam(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s", key)
	}
	return id, nil
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
