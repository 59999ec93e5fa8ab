// ABOUTME: Create/edit form binding for any entity type
// ABOUTME: Converts dates, resolves reference ids from cached lists and submits
package views

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
	"golang.org/x/sync/errgroup"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

type FormView[T models.Entity] struct {
	ctrl    Controller[T]
	related map[string]Related
	loc     *time.Location
	now     func() time.Time

	id   *int64
	done bool
}

// NewFormView builds a form. related supplies the lists behind reference
// fields, keyed by the entity they hold.
func NewFormView[T models.Entity](ctrl Controller[T], loc *time.Location, related ...Related) *FormView[T] {
	if loc == nil {
		loc = time.Local
	}
	f := &FormView[T]{
		ctrl:    ctrl,
		related: make(map[string]Related, len(related)),
		loc:     loc,
		now:     time.Now,
	}
	for _, r := range related {
		f.related[r.Entity()] = r
	}
	return f
}

// SetClock replaces time.Now for date defaults.
func (f *FormView[T]) SetClock(now func() time.Time) {
	f.now = now
}

func (f *FormView[T]) Mode() Mode {
	if f.id == nil {
		return ModeCreate
	}
	return ModeEdit
}

// Mount prepares the form: edit mode loads the record, create mode clears
// the detail slot. Related lists are fetched alongside.
func (f *FormView[T]) Mount(ctx context.Context, id *int64) error {
	f.id = id
	f.done = false

	g, gctx := errgroup.WithContext(ctx)
	if id != nil {
		g.Go(func() error { return f.ctrl.FetchOne(gctx, *id) })
	} else {
		f.ctrl.Reset()
	}
	for _, r := range f.related {
		g.Go(func() error { return r.Fetch(gctx) })
	}
	return g.Wait()
}

// Fields lists the editable fields in display order.
func (f *FormView[T]) Fields() []models.Field[T] {
	var out []models.Field[T]
	for _, fd := range f.ctrl.Descriptor().Fields {
		if fd.Kind != models.KindID {
			out = append(out, fd)
		}
	}
	return out
}

// Values returns the initial input strings. New forms get now for dates
// and the default enum values; edit forms show the loaded record.
func (f *FormView[T]) Values() map[string]string {
	values := make(map[string]string)

	if f.Mode() == ModeCreate {
		defaults := f.ctrl.Descriptor().Defaults()
		for _, fd := range f.Fields() {
			switch fd.Kind {
			case models.KindTime:
				values[fd.Name] = DisplayDefaultDateTime(f.now(), f.loc)
			default:
				values[fd.Name] = FormatValue(fd.Get(defaults), f.loc)
			}
		}
		return values
	}

	entity := f.ctrl.Store().State().Entity
	for _, fd := range f.Fields() {
		values[fd.Name] = FormatValue(fd.Get(entity), f.loc)
	}
	return values
}

// Options lists the choices for a reference field; empty until the related
// list has loaded.
func (f *FormView[T]) Options(field string) []Option {
	fd, ok := f.ctrl.Descriptor().Field(field)
	if !ok || fd.Kind != models.KindRef {
		return nil
	}
	r, ok := f.related[fd.Related]
	if !ok {
		return nil
	}
	return r.Options()
}

// Submit converts values into a record and creates or updates it.
func (f *FormView[T]) Submit(ctx context.Context, values map[string]string) error {
	e, err := f.bind(values)
	if err != nil {
		return err
	}

	if f.Mode() == ModeCreate {
		err = f.ctrl.Create(ctx, e)
	} else {
		err = f.ctrl.Update(ctx, e)
	}
	f.done = err == nil
	return err
}

// Done reports whether the last submit succeeded and the caller should
// return to the list.
func (f *FormView[T]) Done() bool {
	return f.done
}

func (f *FormView[T]) State() store.State[T] {
	return f.ctrl.Store().State()
}

func (f *FormView[T]) bind(values map[string]string) (T, error) {
	var e T
	d := f.ctrl.Descriptor()
	if f.id != nil {
		e = f.ctrl.Store().State().Entity
		SetID(d, &e, *f.id)
	}

	for _, fd := range f.Fields() {
		raw := strings.TrimSpace(values[fd.Name])
		v := models.Value{Kind: fd.Kind}

		switch fd.Kind {
		case models.KindText:
			if raw != "" {
				v.Text = &raw
			}
		case models.KindEnum:
			if raw != "" {
				if !slices.Contains(fd.Options, raw) {
					return e, fmt.Errorf("%s: %q is not one of %s", fd.Label, raw, strings.Join(fd.Options, ", "))
				}
				v.Text = &raw
			}
		case models.KindTime:
			t, err := DateTimeToServer(raw, f.loc)
			if err != nil {
				return e, fmt.Errorf("%s: %w", fd.Label, err)
			}
			v.Time = t
		case models.KindRef:
			v.Ref = f.resolve(fd, raw)
		}

		fd.Set(&e, v)
	}
	return e, nil
}

// resolve maps a selected id to the full cached record. Unknown or
// unloaded ids leave the reference empty.
func (f *FormView[T]) resolve(fd models.Field[T], raw string) models.Entity {
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	r, ok := f.related[fd.Related]
	if !ok {
		return nil
	}
	ent, ok := r.Lookup(id)
	if !ok {
		return nil
	}
	return ent
}
