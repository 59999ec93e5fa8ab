// ABOUTME: Type-erased adapter exposing one entity's views to the TUI
// ABOUTME: Wraps the generic list, detail, form and delete views for a single entity type
package tui

import (
	"context"
	"time"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
	"github.com/johanaerens/assetmanagement/views"
)

type column struct {
	Name  string
	Label string
}

type formField struct {
	Name    string
	Label   string
	Kind    models.Kind
	Options []string
}

// entityTab is everything the TUI needs from one entity type.
type entityTab interface {
	Name() string
	Title() string
	Columns() []column
	Rows() [][]string
	Sort() store.Sort
	Load(ctx context.Context) error
	ToggleSort(ctx context.Context, field string) error

	LoadDetail(ctx context.Context, id int64) error
	DetailRows() []views.Row

	MountForm(ctx context.Context, id *int64) error
	FormFields() []formField
	FormValues() map[string]string
	FormOptions(field string) []views.Option
	SubmitForm(ctx context.Context, values map[string]string) error

	LoadDelete(ctx context.Context, id int64) error
	DeletePrompt() string
	ConfirmDelete(ctx context.Context) error

	ErrorMessage() string
}

type tab[T models.Entity] struct {
	list   *views.ListView[T]
	detail *views.DetailView[T]
	form   *views.FormView[T]
	del    *views.DeleteView[T]
	desc   *models.Descriptor[T]
}

func newTab[T models.Entity](ctrl views.Controller[T], prefs views.SortPrefs, loc *time.Location, related ...views.Related) (*tab[T], error) {
	list, err := views.NewListView(ctrl, prefs, loc)
	if err != nil {
		return nil, err
	}
	return &tab[T]{
		list:   list,
		detail: views.NewDetailView(ctrl, loc),
		form:   views.NewFormView(ctrl, loc, related...),
		del:    views.NewDeleteView(ctrl),
		desc:   ctrl.Descriptor(),
	}, nil
}

func (t *tab[T]) Name() string  { return t.desc.Name }
func (t *tab[T]) Title() string { return t.desc.Title }

func (t *tab[T]) Columns() []column {
	cols := make([]column, 0, len(t.desc.Fields))
	for _, f := range t.desc.Fields {
		cols = append(cols, column{Name: f.Name, Label: f.Label})
	}
	return cols
}

func (t *tab[T]) Rows() [][]string { return t.list.Rows() }
func (t *tab[T]) Sort() store.Sort { return t.list.Sort() }

func (t *tab[T]) Load(ctx context.Context) error { return t.list.Load(ctx) }

func (t *tab[T]) ToggleSort(ctx context.Context, field string) error {
	return t.list.ToggleSort(ctx, field)
}

func (t *tab[T]) LoadDetail(ctx context.Context, id int64) error { return t.detail.Load(ctx, id) }
func (t *tab[T]) DetailRows() []views.Row                        { return t.detail.Rows() }

func (t *tab[T]) MountForm(ctx context.Context, id *int64) error { return t.form.Mount(ctx, id) }

func (t *tab[T]) FormFields() []formField {
	var out []formField
	for _, f := range t.form.Fields() {
		out = append(out, formField{Name: f.Name, Label: f.Label, Kind: f.Kind, Options: f.Options})
	}
	return out
}

func (t *tab[T]) FormValues() map[string]string           { return t.form.Values() }
func (t *tab[T]) FormOptions(field string) []views.Option { return t.form.Options(field) }

func (t *tab[T]) SubmitForm(ctx context.Context, values map[string]string) error {
	return t.form.Submit(ctx, values)
}

func (t *tab[T]) LoadDelete(ctx context.Context, id int64) error { return t.del.Load(ctx, id) }
func (t *tab[T]) DeletePrompt() string                           { return t.del.Prompt() }
func (t *tab[T]) ConfirmDelete(ctx context.Context) error        { return t.del.Confirm(ctx) }

func (t *tab[T]) ErrorMessage() string { return t.list.State().ErrorMessage }
