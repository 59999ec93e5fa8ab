package sync

import (
	"context"

	"github.com/johanaerens/assetmanagement/client"
	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Controllers holds one controller per entity type over a shared client.
type Controllers struct {
	Assets         *Controller[models.Asset]
	Employees      *Controller[models.Employee]
	AssetHistories *Controller[models.AssetHistory]
}

func NewControllers(c *client.Client, log logrus.FieldLogger) *Controllers {
	return &Controllers{
		Assets:         NewController(models.AssetDescriptor, c, log),
		Employees:      NewController(models.EmployeeDescriptor, c, log),
		AssetHistories: NewController(models.AssetHistoryDescriptor, c, log),
	}
}

// FetchAll loads every list in server order, concurrently.
func (cs *Controllers) FetchAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return cs.Assets.FetchList(gctx, store.Sort{}) })
	g.Go(func() error { return cs.Employees.FetchList(gctx, store.Sort{}) })
	g.Go(func() error { return cs.AssetHistories.FetchList(gctx, store.Sort{}) })
	return g.Wait()
}
