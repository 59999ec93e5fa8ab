// ABOUTME: Controller interface the headless views depend on
// ABOUTME: Satisfied by the sync controllers and by test fakes
package views

import (
	"context"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
)

// Controller is what the views need from a sync controller.
type Controller[T models.Entity] interface {
	Descriptor() *models.Descriptor[T]
	Store() *store.Store[T]
	FetchList(ctx context.Context, sort store.Sort) error
	FetchOne(ctx context.Context, id int64) error
	Create(ctx context.Context, e T) error
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, id int64) error
	Reset()
}
