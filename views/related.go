// ABOUTME: Related entity lists used to fill reference pickers
// ABOUTME: Fetches the referenced entity type and offers id/label options
package views

import (
	"context"
	"strconv"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
)

// Option is one selectable related record.
type Option struct {
	ID    int64
	Label string
}

// Related is a cached list of records a reference field can point at.
type Related interface {
	Entity() string
	Fetch(ctx context.Context) error
	Options() []Option
	Lookup(id int64) (models.Entity, bool)
}

type relatedList[R models.Entity] struct {
	ctrl Controller[R]
}

// RelatedList adapts another entity's controller into a reference source.
func RelatedList[R models.Entity](ctrl Controller[R]) Related {
	return relatedList[R]{ctrl: ctrl}
}

func (r relatedList[R]) Entity() string {
	return r.ctrl.Descriptor().Name
}

func (r relatedList[R]) Fetch(ctx context.Context) error {
	return r.ctrl.FetchList(ctx, store.Sort{})
}

// Options is empty until Fetch has completed.
func (r relatedList[R]) Options() []Option {
	entities := r.ctrl.Store().State().Entities
	opts := make([]Option, 0, len(entities))
	for _, e := range entities {
		id := e.EntityID()
		if id == nil {
			continue
		}
		opts = append(opts, Option{ID: *id, Label: strconv.FormatInt(*id, 10) + " " + e.Label()})
	}
	return opts
}

func (r relatedList[R]) Lookup(id int64) (models.Entity, bool) {
	e, ok := store.Resolve(&id, r.ctrl.Store().State().Entities)
	if !ok {
		return nil, false
	}
	return e, true
}
