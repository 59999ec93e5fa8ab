// ABOUTME: Typed REST operations for one entity endpoint
// ABOUTME: List with sort and cache buster, get, create, update, merge patch, delete
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/johanaerens/assetmanagement/models"
)

// FilterAssetHistoryIsNull restricts asset and employee lists to records no
// asset history refers to.
const FilterAssetHistoryIsNull = "assethistory-is-null"

// ListQuery holds the optional list parameters. Sort is "field,asc" or
// "field,desc"; empty means server order.
type ListQuery struct {
	Sort   string
	Filter string
}

type Resource[T models.Entity] struct {
	c    *Client
	path string
}

func NewResource[T models.Entity](c *Client, d *models.Descriptor[T]) *Resource[T] {
	return &Resource[T]{c: c, path: d.Path}
}

// List always adds a cacheBuster so intermediaries never serve a stale page.
func (r *Resource[T]) List(ctx context.Context, q ListQuery) ([]T, error) {
	params := url.Values{}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Filter != "" {
		params.Set("filter", q.Filter)
	}
	params.Set("cacheBuster", strconv.FormatInt(r.c.now().UnixMilli(), 10))

	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, params, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, "", nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, e T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, nil, "", e, &out)
	return out, err
}

// Update replaces the whole record.
func (r *Resource[T]) Update(ctx context.Context, e T) (T, error) {
	var out T
	id := e.EntityID()
	if id == nil {
		return out, ErrMissingID
	}
	err := r.c.do(ctx, http.MethodPut, r.itemPath(*id), nil, "", e, &out)
	return out, err
}

// PartialUpdate sends only the non-null fields of e.
func (r *Resource[T]) PartialUpdate(ctx context.Context, e T) (T, error) {
	var out T
	id := e.EntityID()
	if id == nil {
		return out, ErrMissingID
	}
	err := r.c.do(ctx, http.MethodPatch, r.itemPath(*id), nil, mergePatchJSON, e, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, "", nil, nil)
}

func (r *Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}
