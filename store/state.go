// ABOUTME: Entity store state, tagged actions and the reducer
// ABOUTME: All state transitions for one entity type happen in Reduce
package store

import (
	"slices"

	"github.com/johanaerens/assetmanagement/models"
)

type Op string

const (
	OpList   Op = "list"
	OpGet    Op = "get"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpPatch  Op = "patch"
	OpDelete Op = "delete"
)

// State is the client-side cache for one entity type.
type State[T models.Entity] struct {
	Loading       bool
	ErrorMessage  string
	Entities      []T
	Entity        T
	Updating      bool
	UpdateSuccess bool
}

// Action is a closed set of state transitions. Every action carries the id
// of the request that produced it.
type Action interface {
	requestID() string
	name() string
}

// RequestIDOf returns the request id carried by a.
func RequestIDOf(a Action) string { return a.requestID() }

// NameOf returns a short label for a, for logs.
func NameOf(a Action) string { return a.name() }

type ListRequested struct{ ReqID string }

type ListSucceeded[T models.Entity] struct {
	ReqID    string
	Sort     Sort
	Entities []T
}

type GetRequested struct {
	ReqID string
	ID    int64
}

type GetSucceeded[T models.Entity] struct {
	ReqID  string
	Entity T
}

type MutationRequested struct {
	ReqID string
	Op    Op
}

// MutationSucceeded covers create, update and patch.
type MutationSucceeded[T models.Entity] struct {
	ReqID  string
	Op     Op
	Entity T
}

type DeleteSucceeded struct {
	ReqID string
	ID    int64
}

type Failed struct {
	ReqID string
	Op    Op
	Err   error
}

type Reset struct{ ReqID string }

func (a ListRequested) requestID() string        { return a.ReqID }
func (a ListSucceeded[T]) requestID() string     { return a.ReqID }
func (a GetRequested) requestID() string         { return a.ReqID }
func (a GetSucceeded[T]) requestID() string      { return a.ReqID }
func (a MutationRequested) requestID() string    { return a.ReqID }
func (a MutationSucceeded[T]) requestID() string { return a.ReqID }
func (a DeleteSucceeded) requestID() string      { return a.ReqID }
func (a Failed) requestID() string               { return a.ReqID }
func (a Reset) requestID() string                { return a.ReqID }

func (ListRequested) name() string          { return "list/requested" }
func (ListSucceeded[T]) name() string       { return "list/succeeded" }
func (GetRequested) name() string           { return "get/requested" }
func (GetSucceeded[T]) name() string        { return "get/succeeded" }
func (a MutationRequested) name() string    { return string(a.Op) + "/requested" }
func (a MutationSucceeded[T]) name() string { return string(a.Op) + "/succeeded" }
func (DeleteSucceeded) name() string        { return "delete/succeeded" }
func (a Failed) name() string               { return string(a.Op) + "/failed" }
func (Reset) name() string                  { return "reset" }

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce[T models.Entity](d *models.Descriptor[T], s State[T], a Action) State[T] {
	var zero T

	switch a := a.(type) {
	case ListRequested, GetRequested:
		s.ErrorMessage = ""
		s.UpdateSuccess = false
		s.Loading = true
	case MutationRequested:
		s.ErrorMessage = ""
		s.UpdateSuccess = false
		s.Updating = true
	case ListSucceeded[T]:
		items := slices.Clone(a.Entities)
		if items == nil {
			items = []T{}
		}
		Apply(d, a.Sort, items)
		s.Loading = false
		s.Entities = items
	case GetSucceeded[T]:
		s.Loading = false
		s.Entity = a.Entity
	case MutationSucceeded[T]:
		s.Updating = false
		s.Loading = false
		s.UpdateSuccess = true
		s.Entity = a.Entity
	case DeleteSucceeded:
		s.Updating = false
		s.UpdateSuccess = true
		s.Entity = zero
	case Failed:
		s.Loading = false
		s.Updating = false
		s.UpdateSuccess = false
		if a.Err != nil {
			s.ErrorMessage = a.Err.Error()
		} else {
			s.ErrorMessage = "unknown error"
		}
	case Reset:
		s.Entity = zero
	}

	return s
}
