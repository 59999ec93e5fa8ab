// ABOUTME: List sort specification and client-side ordering
// ABOUTME: Parses and formats "field,asc|desc" and applies a stable secondary sort
package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/johanaerens/assetmanagement/models"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is an optional ordering. The zero value means "server order".
type Sort struct {
	Field     string
	Direction Direction
}

func (s Sort) IsZero() bool { return s.Field == "" }

// String renders the sort as a query parameter value, e.g. "firstName,asc".
func (s Sort) String() string {
	if s.IsZero() {
		return ""
	}
	dir := s.Direction
	if dir == "" {
		dir = Asc
	}
	return s.Field + "," + string(dir)
}

// ParseSort is the inverse of String. An empty string yields the zero Sort.
func ParseSort(v string) (Sort, error) {
	if v == "" {
		return Sort{}, nil
	}
	field, dir, _ := strings.Cut(v, ",")
	if field == "" {
		return Sort{}, fmt.Errorf("sort %q has no field", v)
	}
	switch Direction(strings.ToLower(dir)) {
	case "", Asc:
		return Sort{Field: field, Direction: Asc}, nil
	case Desc:
		return Sort{Field: field, Direction: Desc}, nil
	}
	return Sort{}, fmt.Errorf("sort %q has invalid direction %q", v, dir)
}

// Toggle returns the next sort after the user picks field: the same field
// flips direction, a new field starts ascending.
func (s Sort) Toggle(field string) Sort {
	if s.Field == field && s.Direction != Desc {
		return Sort{Field: field, Direction: Desc}
	}
	return Sort{Field: field, Direction: Asc}
}

// Apply orders items in place by the sort field. Unknown or empty fields
// leave the delivered order untouched.
func Apply[T models.Entity](d *models.Descriptor[T], s Sort, items []T) {
	if s.IsZero() {
		return
	}
	f, ok := d.Field(s.Field)
	if !ok {
		return
	}
	slices.SortStableFunc(items, func(a, b T) int {
		c := models.CompareValues(f.Get(a), f.Get(b))
		if s.Direction == Desc {
			return -c
		}
		return c
	})
}
