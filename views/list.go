// ABOUTME: List view state: sort selection, query-string round trip and refresh
// ABOUTME: Sort changes re-fetch through the controller and are persisted when prefs are set
package views

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
)

// SortPrefs persists the sort per entity so it survives restarts.
type SortPrefs interface {
	LoadSort(entity string) (string, error)
	SaveSort(entity, sort string) error
}

type ListView[T models.Entity] struct {
	ctrl  Controller[T]
	prefs SortPrefs
	loc   *time.Location
	sort  store.Sort
}

// NewListView restores the saved sort, if any. prefs may be nil.
func NewListView[T models.Entity](ctrl Controller[T], prefs SortPrefs, loc *time.Location) (*ListView[T], error) {
	if loc == nil {
		loc = time.Local
	}
	v := &ListView[T]{ctrl: ctrl, prefs: prefs, loc: loc}
	if prefs != nil {
		saved, err := prefs.LoadSort(ctrl.Descriptor().Name)
		if err != nil {
			return nil, err
		}
		// A stale preference naming a removed field is dropped.
		if s, err := store.ParseSort(saved); err == nil && v.knownField(s.Field) {
			v.sort = s
		}
	}
	return v, nil
}

func (v *ListView[T]) Title() string {
	return v.ctrl.Descriptor().Title
}

func (v *ListView[T]) Sort() store.Sort {
	return v.sort
}

// Query renders the sort as a shareable query string, e.g. "sort=firstName%2Casc".
func (v *ListView[T]) Query() string {
	if v.sort.IsZero() {
		return ""
	}
	return url.Values{"sort": {v.sort.String()}}.Encode()
}

// SetQuery restores the sort from a query string produced by Query.
func (v *ListView[T]) SetQuery(q string) error {
	values, err := url.ParseQuery(q)
	if err != nil {
		return err
	}
	s, err := store.ParseSort(values.Get("sort"))
	if err != nil {
		return err
	}
	if !s.IsZero() && !v.knownField(s.Field) {
		return fmt.Errorf("unknown sort field %q", s.Field)
	}
	v.sort = s
	return v.persist()
}

// Load fetches the list with the current sort.
func (v *ListView[T]) Load(ctx context.Context) error {
	return v.ctrl.FetchList(ctx, v.sort)
}

// Refresh re-issues the same fetch without touching the sort.
func (v *ListView[T]) Refresh(ctx context.Context) error {
	return v.Load(ctx)
}

// ToggleSort selects field (or flips its direction) and re-fetches.
func (v *ListView[T]) ToggleSort(ctx context.Context, field string) error {
	if !v.knownField(field) {
		return fmt.Errorf("unknown sort field %q", field)
	}
	v.sort = v.sort.Toggle(field)
	if err := v.persist(); err != nil {
		return err
	}
	return v.Load(ctx)
}

func (v *ListView[T]) Columns() []models.Field[T] {
	return v.ctrl.Descriptor().Fields
}

// Rows renders the cached entities as display strings, one per column.
func (v *ListView[T]) Rows() [][]string {
	cols := v.Columns()
	entities := v.ctrl.Store().State().Entities
	rows := make([][]string, 0, len(entities))
	for _, e := range entities {
		row := make([]string, len(cols))
		for i, f := range cols {
			row[i] = FormatValue(f.Get(e), v.loc)
		}
		rows = append(rows, row)
	}
	return rows
}

func (v *ListView[T]) State() store.State[T] {
	return v.ctrl.Store().State()
}

func (v *ListView[T]) knownField(name string) bool {
	_, ok := v.ctrl.Descriptor().Field(name)
	return ok
}

func (v *ListView[T]) persist() error {
	if v.prefs == nil {
		return nil
	}
	return v.prefs.SaveSort(v.ctrl.Descriptor().Name, v.sort.String())
}
