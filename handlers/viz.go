// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the assignment_graph tool for agents
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	assetsync "github.com/johanaerens/assetmanagement/sync"
	"github.com/johanaerens/assetmanagement/viz"
)

type VizHandlers struct {
	ctrls *assetsync.Controllers
}

func NewVizHandlers(ctrls *assetsync.Controllers) *VizHandlers {
	return &VizHandlers{ctrls: ctrls}
}

type GenerateGraphInput struct{}

type GenerateGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, _ *mcp.CallToolRequest, _ GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if err := h.ctrls.FetchAll(ctx); err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to load assignments: %w", err)
	}

	g, err := viz.BuildAssignmentGraph(ctx, viz.Assignments{
		Employees: h.ctrls.Employees.Store().State().Entities,
		Assets:    h.ctrls.Assets.Store().State().Entities,
		Histories: h.ctrls.AssetHistories.Store().State().Entities,
	})
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GenerateGraphOutput{
		DOTSource: g.DOT,
		NodeCount: g.Nodes,
		EdgeCount: g.Edges,
	}, nil
}
