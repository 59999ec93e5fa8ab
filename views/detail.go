// ABOUTME: Headless detail view
// ABOUTME: Loads one record and renders labelled field values
package views

import (
	"context"
	"time"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
)

// Row is one labelled value on a detail page.
type Row struct {
	Label string
	Value string
}

type DetailView[T models.Entity] struct {
	ctrl Controller[T]
	loc  *time.Location
}

func NewDetailView[T models.Entity](ctrl Controller[T], loc *time.Location) *DetailView[T] {
	if loc == nil {
		loc = time.Local
	}
	return &DetailView[T]{ctrl: ctrl, loc: loc}
}

func (v *DetailView[T]) Load(ctx context.Context, id int64) error {
	return v.ctrl.FetchOne(ctx, id)
}

// Rows renders every field of the loaded record. References show the
// related record's id.
func (v *DetailView[T]) Rows() []Row {
	entity := v.ctrl.Store().State().Entity
	var rows []Row
	for _, f := range v.ctrl.Descriptor().Fields {
		rows = append(rows, Row{Label: f.Label, Value: FormatValue(f.Get(entity), v.loc)})
	}
	return rows
}

func (v *DetailView[T]) State() store.State[T] {
	return v.ctrl.Store().State()
}
