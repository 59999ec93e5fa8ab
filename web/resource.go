// ABOUTME: Generic REST resource handlers shared by every entity type
// ABOUTME: List, get, create, full update, merge patch and delete over a repository
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/johanaerens/assetmanagement/db"
	"github.com/johanaerens/assetmanagement/models"
)

// Repository is the storage a resource needs. The db package repositories
// satisfy it.
type Repository[T models.Entity] interface {
	List(ctx context.Context, opts db.ListOptions) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, e *T) error
	Update(ctx context.Context, e *T) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type resource[T models.Entity] struct {
	srv  *Server
	desc *models.Descriptor[T]
	repo Repository[T]
}

func mountResource[T models.Entity](r chi.Router, s *Server, d *models.Descriptor[T], repo Repository[T]) {
	res := &resource[T]{srv: s, desc: d, repo: repo}
	r.Route(d.Path, func(r chi.Router) {
		r.Get("/", res.list)
		r.Post("/", res.create)
		r.Get("/{id}", res.get)
		r.Put("/{id}", res.update)
		r.Patch("/{id}", res.patch)
		r.Delete("/{id}", res.delete)
	})
}

func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sorts, err := parseSort(q["sort"])
	if err != nil {
		badRequestAlert(w, r, res.desc.Name, "sort", err.Error())
		return
	}

	items, err := res.repo.List(r.Context(), db.ListOptions{Sort: sorts, Filter: q.Get("filter")})
	if errors.Is(err, db.ErrInvalidSort) {
		badRequestAlert(w, r, res.desc.Name, "sort", err.Error())
		return
	}
	if err != nil {
		res.srv.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (res *resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := res.pathID(w, r)
	if !ok {
		return
	}

	e, err := res.repo.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, r)
		return
	}
	if err != nil {
		res.srv.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (res *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	var e T
	if !res.decode(w, r, &e) {
		return
	}
	if e.EntityID() != nil {
		badRequestAlert(w, r, res.desc.Name, "idexists", fmt.Sprintf("A new %s cannot already have an ID", res.desc.Name))
		return
	}
	if err := res.srv.validate.Struct(e); err != nil {
		validationProblem(w, r, res.desc.Name, err)
		return
	}

	if err := res.repo.Create(r.Context(), &e); err != nil {
		res.writeError(w, r, err)
		return
	}

	saved, err := res.repo.Get(r.Context(), *e.EntityID())
	if err != nil {
		res.srv.internalError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", res.desc.Path, *e.EntityID()))
	writeJSON(w, http.StatusCreated, saved)
}

func (res *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	var e T
	if !res.decode(w, r, &e) {
		return
	}
	if _, ok := res.checkID(w, r, e); !ok {
		return
	}
	if err := res.srv.validate.Struct(e); err != nil {
		validationProblem(w, r, res.desc.Name, err)
		return
	}

	res.save(w, r, &e)
}

// patch merges the non-null fields of the body onto the stored record.
func (res *resource[T]) patch(w http.ResponseWriter, r *http.Request) {
	if !acceptsPatchBody(r.Header.Get("Content-Type")) {
		writeProblem(w, r, problem{
			Title:   "Unsupported Media Type",
			Status:  http.StatusUnsupportedMediaType,
			Message: "error.http.415",
		})
		return
	}

	var patch T
	if !res.decode(w, r, &patch) {
		return
	}
	id, ok := res.checkID(w, r, patch)
	if !ok {
		return
	}

	existing, err := res.repo.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		res.idNotFound(w, r)
		return
	}
	if err != nil {
		res.srv.internalError(w, r, err)
		return
	}

	res.desc.Merge(existing, patch)
	if err := res.srv.validate.Struct(*existing); err != nil {
		validationProblem(w, r, res.desc.Name, err)
		return
	}

	res.save(w, r, existing)
}

func (res *resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := res.pathID(w, r)
	if !ok {
		return
	}

	if err := res.repo.Delete(r.Context(), id); err != nil {
		res.srv.internalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (res *resource[T]) save(w http.ResponseWriter, r *http.Request, e *T) {
	if err := res.repo.Update(r.Context(), e); err != nil {
		res.writeError(w, r, err)
		return
	}

	saved, err := res.repo.Get(r.Context(), *(*e).EntityID())
	if err != nil {
		res.srv.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// checkID validates the body id against the path id and the table.
func (res *resource[T]) checkID(w http.ResponseWriter, r *http.Request, e T) (int64, bool) {
	id, ok := res.pathID(w, r)
	if !ok {
		return 0, false
	}

	bodyID := e.EntityID()
	if bodyID == nil {
		badRequestAlert(w, r, res.desc.Name, "idnull", "Invalid id")
		return 0, false
	}
	if *bodyID != id {
		badRequestAlert(w, r, res.desc.Name, "idinvalid", "Invalid ID")
		return 0, false
	}

	exists, err := res.repo.Exists(r.Context(), id)
	if err != nil {
		res.srv.internalError(w, r, err)
		return 0, false
	}
	if !exists {
		res.idNotFound(w, r)
		return 0, false
	}
	return id, true
}

func (res *resource[T]) idNotFound(w http.ResponseWriter, r *http.Request) {
	badRequestAlert(w, r, res.desc.Name, "idnotfound", "Entity not found")
}

func (res *resource[T]) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequestAlert(w, r, res.desc.Name, "idinvalid", "Invalid ID")
		return 0, false
	}
	return id, true
}

func (res *resource[T]) decode(w http.ResponseWriter, r *http.Request, dst *T) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, r, problem{
			Title:   "Bad Request",
			Status:  http.StatusBadRequest,
			Detail:  err.Error(),
			Message: "error.http.400",
		})
		return false
	}
	return true
}

func (res *resource[T]) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, db.ErrUnknownReference):
		badRequestAlert(w, r, res.desc.Name, "unknownreference", "Referenced entity does not exist")
	case errors.Is(err, db.ErrNotFound):
		res.idNotFound(w, r)
	default:
		res.srv.internalError(w, r, err)
	}
}

func acceptsPatchBody(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || mt == "application/merge-patch+json"
}

// parseSort reads repeated "field,direction" parameters. Direction defaults
// to ascending.
func parseSort(values []string) ([]db.SortOrder, error) {
	var sorts []db.SortOrder
	for _, v := range values {
		if v == "" {
			continue
		}
		field, dir, _ := strings.Cut(v, ",")
		if field == "" {
			return nil, fmt.Errorf("empty sort field in %q", v)
		}
		s := db.SortOrder{Field: field}
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			s.Desc = true
		default:
			return nil, fmt.Errorf("invalid sort direction %q", dir)
		}
		sorts = append(sorts, s)
	}
	return sorts, nil
}
