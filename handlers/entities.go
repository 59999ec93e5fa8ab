// ABOUTME: Entity MCP tool handlers
// ABOUTME: Implements list, get, save, patch and delete tools for every entity type
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
	assetsync "github.com/johanaerens/assetmanagement/sync"
	"github.com/johanaerens/assetmanagement/views"
)

// EntityHandlers serves the tools of one entity type through its controller.
type EntityHandlers[T models.Entity] struct {
	ctrl *assetsync.Controller[T]
}

func NewEntityHandlers[T models.Entity](ctrl *assetsync.Controller[T]) *EntityHandlers[T] {
	return &EntityHandlers[T]{ctrl: ctrl}
}

type ListInput struct {
	Sort       string `json:"sort,omitempty" jsonschema:"Sort as field,asc or field,desc (e.g. lastName,asc)"`
	Unassigned bool   `json:"unassigned,omitempty" jsonschema:"Only records no asset history refers to (assets and employees)"`
}

type ListOutput struct {
	Entity  string `json:"entity"`
	Count   int    `json:"count"`
	Records []any  `json:"records"`
}

type IDInput struct {
	ID int64 `json:"id" jsonschema:"Record id (required)"`
}

type SaveInput struct {
	ID     int64             `json:"id,omitempty" jsonschema:"Record id; omit to create a new record"`
	Fields map[string]string `json:"fields" jsonschema:"Field values keyed by name. Dates are RFC 3339, references are ids, empty clears"`
}

type RecordOutput struct {
	Entity string `json:"entity"`
	Record any    `json:"record"`
}

type DeleteOutput struct {
	Entity  string `json:"entity"`
	ID      int64  `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *EntityHandlers[T]) List(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	s, err := store.ParseSort(input.Sort)
	if err != nil {
		return nil, ListOutput{}, err
	}
	if !s.IsZero() {
		if _, ok := h.ctrl.Descriptor().Field(s.Field); !ok {
			return nil, ListOutput{}, fmt.Errorf("unknown sort field %q (valid: %s)", s.Field, strings.Join(views.FieldNames(h.ctrl.Descriptor()), ", "))
		}
	}

	if input.Unassigned {
		err = h.ctrl.FetchUnassigned(ctx, s)
	} else {
		err = h.ctrl.FetchList(ctx, s)
	}
	if err != nil {
		return nil, ListOutput{}, fmt.Errorf("failed to list %s: %w", h.ctrl.Descriptor().Plural, err)
	}

	entities := h.ctrl.Store().State().Entities
	records := make([]any, 0, len(entities))
	for _, e := range entities {
		records = append(records, e)
	}
	return nil, ListOutput{Entity: h.ctrl.Descriptor().Name, Count: len(records), Records: records}, nil
}

func (h *EntityHandlers[T]) Get(ctx context.Context, _ *mcp.CallToolRequest, input IDInput) (*mcp.CallToolResult, RecordOutput, error) {
	if input.ID == 0 {
		return nil, RecordOutput{}, fmt.Errorf("id is required")
	}
	if err := h.ctrl.FetchOne(ctx, input.ID); err != nil {
		return nil, RecordOutput{}, fmt.Errorf("failed to get %s %d: %w", h.ctrl.Descriptor().Name, input.ID, err)
	}
	return nil, h.record(), nil
}

// Save creates a record when no id is given, otherwise replaces every field
// of the existing one. Fields left out become null.
func (h *EntityHandlers[T]) Save(ctx context.Context, _ *mcp.CallToolRequest, input SaveInput) (*mcp.CallToolResult, RecordOutput, error) {
	d := h.ctrl.Descriptor()
	e, err := views.BindValues(d, input.Fields, time.UTC)
	if err != nil {
		return nil, RecordOutput{}, err
	}

	if input.ID == 0 {
		err = h.ctrl.Create(ctx, e)
	} else {
		views.SetID(d, &e, input.ID)
		err = h.ctrl.Update(ctx, e)
	}
	if err != nil {
		return nil, RecordOutput{}, fmt.Errorf("failed to save %s: %w", d.Name, err)
	}
	return nil, h.record(), nil
}

// Patch changes only the given fields. Empty values are ignored, since the
// server keeps fields that are null in a patch.
func (h *EntityHandlers[T]) Patch(ctx context.Context, _ *mcp.CallToolRequest, input SaveInput) (*mcp.CallToolResult, RecordOutput, error) {
	if input.ID == 0 {
		return nil, RecordOutput{}, fmt.Errorf("id is required")
	}
	d := h.ctrl.Descriptor()
	e, err := views.BindValues(d, input.Fields, time.UTC)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	views.SetID(d, &e, input.ID)

	if err := h.ctrl.PartialUpdate(ctx, e); err != nil {
		return nil, RecordOutput{}, fmt.Errorf("failed to patch %s %d: %w", d.Name, input.ID, err)
	}
	return nil, h.record(), nil
}

func (h *EntityHandlers[T]) Delete(ctx context.Context, _ *mcp.CallToolRequest, input IDInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == 0 {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := h.ctrl.Delete(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete %s %d: %w", h.ctrl.Descriptor().Name, input.ID, err)
	}
	return nil, DeleteOutput{Entity: h.ctrl.Descriptor().Name, ID: input.ID, Deleted: true}, nil
}

func (h *EntityHandlers[T]) record() RecordOutput {
	return RecordOutput{Entity: h.ctrl.Descriptor().Name, Record: h.ctrl.Store().State().Entity}
}
