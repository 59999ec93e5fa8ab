// ABOUTME: MCP resource handlers for exposing asset management data
// ABOUTME: Provides read-only access to assets, employees and asset histories via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
	assetsync "github.com/johanaerens/assetmanagement/sync"
)

const ResourceScheme = "assetmanagement://"

type ResourceHandlers struct {
	ctrls *assetsync.Controllers
}

func NewResourceHandlers(ctrls *assetsync.Controllers) *ResourceHandlers {
	return &ResourceHandlers{ctrls: ctrls}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, ResourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", ResourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, ResourceScheme), "/")
	var id int64
	if len(parts) > 1 {
		var err error
		id, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s id %q", parts[0], parts[1])
		}
	}

	var data any
	var err error
	switch parts[0] {
	case models.AssetDescriptor.Plural:
		if len(parts) == 1 {
			data, err = readAll(ctx, h.ctrls.Assets)
		} else {
			data, err = h.readAsset(ctx, id)
		}
	case models.EmployeeDescriptor.Plural:
		if len(parts) == 1 {
			data, err = readAll(ctx, h.ctrls.Employees)
		} else {
			data, err = h.readEmployee(ctx, id)
		}
	case models.AssetHistoryDescriptor.Plural:
		if len(parts) == 1 {
			data, err = readAll(ctx, h.ctrls.AssetHistories)
		} else {
			data, err = readOne(ctx, h.ctrls.AssetHistories, id)
		}
	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
	if err != nil {
		return nil, err
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", parts[0], err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(text),
		},
	}}, nil
}

func readAll[T models.Entity](ctx context.Context, ctrl *assetsync.Controller[T]) ([]T, error) {
	if err := ctrl.FetchList(ctx, store.Sort{Field: "id", Direction: store.Asc}); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ctrl.Descriptor().Plural, err)
	}
	return ctrl.Store().State().Entities, nil
}

func readOne[T models.Entity](ctx context.Context, ctrl *assetsync.Controller[T], id int64) (T, error) {
	if err := ctrl.FetchOne(ctx, id); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to fetch %s %d: %w", ctrl.Descriptor().Name, id, err)
	}
	return ctrl.Store().State().Entity, nil
}

// readAsset includes the asset's history periods.
func (h *ResourceHandlers) readAsset(ctx context.Context, id int64) (any, error) {
	asset, err := readOne(ctx, h.ctrls.Assets, id)
	if err != nil {
		return nil, err
	}
	histories, err := readAll(ctx, h.ctrls.AssetHistories)
	if err != nil {
		return nil, err
	}

	own := []models.AssetHistory{}
	for _, hist := range histories {
		if hist.Asset != nil && hist.Asset.ID != nil && *hist.Asset.ID == id {
			own = append(own, hist)
		}
	}

	return struct {
		models.Asset
		History []models.AssetHistory `json:"history"`
	}{asset, own}, nil
}

// readEmployee includes the assets the employee currently holds.
func (h *ResourceHandlers) readEmployee(ctx context.Context, id int64) (any, error) {
	employee, err := readOne(ctx, h.ctrls.Employees, id)
	if err != nil {
		return nil, err
	}
	assets, err := readAll(ctx, h.ctrls.Assets)
	if err != nil {
		return nil, err
	}

	return struct {
		models.Employee
		Assets []models.Asset `json:"assets"`
	}{employee, assetsOf(assets, id)}, nil
}

func assetsOf(assets []models.Asset, employeeID int64) []models.Asset {
	held := []models.Asset{}
	for _, a := range assets {
		if a.Employee != nil && a.Employee.ID != nil && *a.Employee.ID == employeeID {
			held = append(held, a)
		}
	}
	return held
}
