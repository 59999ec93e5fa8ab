// ABOUTME: Headless delete confirmation view
// ABOUTME: Loads the record by id and deletes it on confirm
package views

import (
	"context"
	"fmt"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
)

// DeleteView asks for confirmation before deleting one record.
type DeleteView[T models.Entity] struct {
	ctrl Controller[T]
	id   int64
	done bool
}

func NewDeleteView[T models.Entity](ctrl Controller[T]) *DeleteView[T] {
	return &DeleteView[T]{ctrl: ctrl}
}

func (v *DeleteView[T]) Load(ctx context.Context, id int64) error {
	v.id = id
	v.done = false
	return v.ctrl.FetchOne(ctx, id)
}

func (v *DeleteView[T]) Prompt() string {
	return fmt.Sprintf("Are you sure you want to delete %s %d?", v.ctrl.Descriptor().Name, v.id)
}

// Confirm deletes the record. On success Done reports true.
func (v *DeleteView[T]) Confirm(ctx context.Context) error {
	if err := v.ctrl.Delete(ctx, v.id); err != nil {
		return err
	}
	v.done = true
	return nil
}

func (v *DeleteView[T]) Done() bool {
	return v.done
}

func (v *DeleteView[T]) State() store.State[T] {
	return v.ctrl.Store().State()
}
