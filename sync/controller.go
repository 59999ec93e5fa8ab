// ABOUTME: Sync controller keeping an entity store in step with the REST API
// ABOUTME: Every operation is one round trip; mutations refresh the list afterwards
package sync

import (
	"context"

	"github.com/johanaerens/assetmanagement/client"
	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
	"github.com/sirupsen/logrus"
)

// Controller drives one entity type. Results and failures land in its
// Store; failures are also returned. Superseded requests are not cancelled,
// so a slow response may overwrite a newer one.
type Controller[T models.Entity] struct {
	desc  *models.Descriptor[T]
	res   *client.Resource[T]
	store *store.Store[T]
	log   logrus.FieldLogger
}

func NewController[T models.Entity](d *models.Descriptor[T], c *client.Client, log logrus.FieldLogger) *Controller[T] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller[T]{
		desc:  d,
		res:   client.NewResource(c, d),
		store: store.New(d, log),
		log:   log.WithField("entity", d.Name),
	}
}

func (c *Controller[T]) Store() *store.Store[T] {
	return c.store
}

func (c *Controller[T]) Descriptor() *models.Descriptor[T] {
	return c.desc
}

// FetchList replaces the cached list. A sort field is sent to the server and
// also applied locally so the cache is ordered whatever the server did.
func (c *Controller[T]) FetchList(ctx context.Context, sort store.Sort) error {
	return c.fetchList(ctx, sort, "")
}

// FetchUnassigned lists only records no asset history refers to.
func (c *Controller[T]) FetchUnassigned(ctx context.Context, sort store.Sort) error {
	return c.fetchList(ctx, sort, client.FilterAssetHistoryIsNull)
}

func (c *Controller[T]) fetchList(ctx context.Context, sort store.Sort, filter string) error {
	ctx, id := c.begin(ctx)
	c.store.Dispatch(store.ListRequested{ReqID: id})

	items, err := c.res.List(ctx, client.ListQuery{Sort: sort.String(), Filter: filter})
	if err != nil {
		return c.fail(id, store.OpList, err)
	}

	c.store.Dispatch(store.ListSucceeded[T]{ReqID: id, Sort: sort, Entities: items})
	return nil
}

// FetchOne loads a single record into the detail slot.
func (c *Controller[T]) FetchOne(ctx context.Context, entityID int64) error {
	ctx, id := c.begin(ctx)
	c.store.Dispatch(store.GetRequested{ReqID: id, ID: entityID})

	e, err := c.res.Get(ctx, entityID)
	if err != nil {
		return c.fail(id, store.OpGet, err)
	}

	c.store.Dispatch(store.GetSucceeded[T]{ReqID: id, Entity: e})
	return nil
}

func (c *Controller[T]) Create(ctx context.Context, e T) error {
	return c.mutate(ctx, store.OpCreate, func(ctx context.Context) (T, error) {
		return c.res.Create(ctx, e)
	})
}

// Update replaces the stored record with e.
func (c *Controller[T]) Update(ctx context.Context, e T) error {
	return c.mutate(ctx, store.OpUpdate, func(ctx context.Context) (T, error) {
		return c.res.Update(ctx, e)
	})
}

// PartialUpdate sends only the non-null fields of e.
func (c *Controller[T]) PartialUpdate(ctx context.Context, e T) error {
	return c.mutate(ctx, store.OpPatch, func(ctx context.Context) (T, error) {
		return c.res.PartialUpdate(ctx, e)
	})
}

func (c *Controller[T]) Delete(ctx context.Context, entityID int64) error {
	ctx, id := c.begin(ctx)
	c.store.Dispatch(store.MutationRequested{ReqID: id, Op: store.OpDelete})

	if err := c.res.Delete(ctx, entityID); err != nil {
		return c.fail(id, store.OpDelete, err)
	}

	c.refresh(ctx, id)
	c.store.Dispatch(store.DeleteSucceeded{ReqID: id, ID: entityID})
	return nil
}

// Reset clears the detail slot, leaving the list alone.
func (c *Controller[T]) Reset() {
	c.store.Dispatch(store.Reset{ReqID: client.NewRequestID()})
}

func (c *Controller[T]) mutate(ctx context.Context, op store.Op, call func(context.Context) (T, error)) error {
	ctx, id := c.begin(ctx)
	c.store.Dispatch(store.MutationRequested{ReqID: id, Op: op})

	saved, err := call(ctx)
	if err != nil {
		return c.fail(id, op, err)
	}

	c.refresh(ctx, id)
	c.store.Dispatch(store.MutationSucceeded[T]{ReqID: id, Op: op, Entity: saved})
	return nil
}

// refresh re-fetches the list without a sort after a successful mutation.
// It runs before the success action is dispatched, so the list fetch does
// not clear UpdateSuccess. Its failure is recorded in the store but does not
// fail the mutation.
func (c *Controller[T]) refresh(ctx context.Context, cause string) {
	if err := c.FetchList(client.WithRequestID(ctx, ""), store.Sort{}); err != nil {
		c.log.WithFields(logrus.Fields{
			"cause_request_id": cause,
		}).WithError(err).Warn("list refresh after mutation failed")
	}
}

func (c *Controller[T]) begin(ctx context.Context) (context.Context, string) {
	id := client.RequestIDFromContext(ctx)
	if id == "" {
		id = client.NewRequestID()
	}
	return client.WithRequestID(ctx, id), id
}

func (c *Controller[T]) fail(id string, op store.Op, err error) error {
	c.log.WithFields(logrus.Fields{"request_id": id, "op": op}).WithError(err).Debug("request failed")
	c.store.Dispatch(store.Failed{ReqID: id, Op: op, Err: err})
	return err
}
