// ABOUTME: MCP server assembly
// ABOUTME: Registers entity tools, the graph tool, resources and prompts
package handlers

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/johanaerens/assetmanagement/models"
	assetsync "github.com/johanaerens/assetmanagement/sync"
)

// NewServer builds an MCP server whose tools go through the REST API via ctrls.
func NewServer(ctrls *assetsync.Controllers, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "assetmanagement",
		Version: version,
	}, nil)

	addEntityTools(server, NewEntityHandlers(ctrls.Assets))
	addEntityTools(server, NewEntityHandlers(ctrls.Employees))
	addEntityTools(server, NewEntityHandlers(ctrls.AssetHistories))

	vizHandlers := NewVizHandlers(ctrls)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "assignment_graph",
		Description: "Render which employee holds which asset as GraphViz DOT, including asset history periods",
	}, vizHandlers.GenerateGraph)

	resources := NewResourceHandlers(ctrls)
	for _, r := range []struct{ plural, name string }{
		{models.AssetDescriptor.Plural, models.EntityAsset},
		{models.EmployeeDescriptor.Plural, models.EntityEmployee},
		{models.AssetHistoryDescriptor.Plural, models.EntityAssetHistory},
	} {
		server.AddResource(&mcp.Resource{
			URI:      ResourceScheme + r.plural,
			Name:     r.plural,
			MIMEType: "application/json",
		}, resources.ReadResource)
		server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: ResourceScheme + r.plural + "/{id}",
			Name:        r.name,
			MIMEType:    "application/json",
		}, resources.ReadResource)
	}

	prompts := NewPromptHandlers(ctrls)
	server.AddPrompt(&mcp.Prompt{
		Name:        "employee-equipment",
		Description: "Review the assets an employee holds",
		Arguments: []*mcp.PromptArgument{
			{Name: "employee_id", Description: "Employee id", Required: true},
		},
	}, prompts.GetPrompt)
	server.AddPrompt(&mcp.Prompt{
		Name:        "inventory-review",
		Description: "Review asset status across the inventory",
	}, prompts.GetPrompt)

	return server
}

// addEntityTools registers <name>_list, _get, _save, _patch and _delete.
func addEntityTools[T models.Entity](server *mcp.Server, h *EntityHandlers[T]) {
	d := h.ctrl.Descriptor()
	name := toolName(d.Name)

	mcp.AddTool(server, &mcp.Tool{
		Name:        name + "_list",
		Description: "List " + d.Title + ", optionally sorted",
	}, h.List)

	mcp.AddTool(server, &mcp.Tool{
		Name:        name + "_get",
		Description: "Get one " + d.Name + " by id",
	}, h.Get)

	mcp.AddTool(server, &mcp.Tool{
		Name:        name + "_save",
		Description: "Create a " + d.Name + ", or replace every field of an existing one when id is set",
	}, h.Save)

	mcp.AddTool(server, &mcp.Tool{
		Name:        name + "_patch",
		Description: "Change only the given fields of an existing " + d.Name,
	}, h.Patch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        name + "_delete",
		Description: "Delete a " + d.Name + " by id",
	}, h.Delete)
}

// toolName turns "assetHistory" into "asset_history".
func toolName(entity string) string {
	var b []rune
	for _, r := range entity {
		if r >= 'A' && r <= 'Z' {
			b = append(b, '_', r+('a'-'A'))
			continue
		}
		b = append(b, r)
	}
	return string(b)
}
