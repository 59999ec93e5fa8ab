// ABOUTME: Problem-style JSON error responses
// ABOUTME: Mirrors the alert keys clients show for bad requests and missing entities
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/johanaerens/assetmanagement/logging"
)

type fieldError struct {
	ObjectName string `json:"objectName"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

type problem struct {
	Title       string       `json:"title"`
	Status      int          `json:"status"`
	Detail      string       `json:"detail,omitempty"`
	Path        string       `json:"path,omitempty"`
	Message     string       `json:"message,omitempty"`
	EntityName  string       `json:"entityName,omitempty"`
	ErrorKey    string       `json:"errorKey,omitempty"`
	FieldErrors []fieldError `json:"fieldErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, r *http.Request, p problem) {
	p.Path = r.URL.Path
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// badRequestAlert reports a client mistake about an entity, e.g. "idexists".
func badRequestAlert(w http.ResponseWriter, r *http.Request, entityName, errorKey, title string) {
	writeProblem(w, r, problem{
		Title:      title,
		Status:     http.StatusBadRequest,
		Message:    "error." + errorKey,
		EntityName: entityName,
		ErrorKey:   errorKey,
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeProblem(w, r, problem{
		Title:   "Not Found",
		Status:  http.StatusNotFound,
		Message: "error.http.404",
	})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).WithError(err).Error("request failed")
	writeProblem(w, r, problem{
		Title:   "Internal Server Error",
		Status:  http.StatusInternalServerError,
		Detail:  err.Error(),
		Message: "error.http.500",
	})
}

func validationProblem(w http.ResponseWriter, r *http.Request, entityName string, err error) {
	p := problem{
		Title:   "Method argument not valid",
		Status:  http.StatusBadRequest,
		Message: "error.validation",
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			p.FieldErrors = append(p.FieldErrors, fieldError{
				ObjectName: entityName,
				Field:      trimNamespace(fe.Namespace()),
				Message:    fe.Tag(),
			})
		}
	} else {
		p.Detail = err.Error()
	}

	writeProblem(w, r, p)
}

// trimNamespace drops the root struct name: "Asset.employee.language" -> "employee.language".
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
