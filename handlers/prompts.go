// ABOUTME: MCP prompt handlers for reusable asset management workflow templates
// ABOUTME: Provides prompts summarising an employee's equipment and the asset inventory
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/johanaerens/assetmanagement/models"
	assetsync "github.com/johanaerens/assetmanagement/sync"
)

type PromptHandlers struct {
	ctrls *assetsync.Controllers
}

func NewPromptHandlers(ctrls *assetsync.Controllers) *PromptHandlers {
	return &PromptHandlers{ctrls: ctrls}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "employee-equipment":
		return h.getEmployeeEquipmentPrompt(ctx, request.Params.Arguments)
	case "inventory-review":
		return h.getInventoryReviewPrompt(ctx)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getEmployeeEquipmentPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	idStr, ok := args["employee_id"]
	if !ok {
		return nil, fmt.Errorf("employee_id is required")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid employee_id: %w", err)
	}

	employee, err := readOne(ctx, h.ctrls.Employees, id)
	if err != nil {
		return nil, err
	}
	assets, err := readAll(ctx, h.ctrls.Assets)
	if err != nil {
		return nil, err
	}
	histories, err := readAll(ctx, h.ctrls.AssetHistories)
	if err != nil {
		return nil, err
	}

	var promptText strings.Builder
	promptText.WriteString("Please review the equipment assigned to this employee:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", employee.Label()))
	writeOptional(&promptText, "Email", employee.Email)
	writeOptional(&promptText, "Employee Number", employee.EmployeeNumber)
	if employee.HireDate != nil {
		promptText.WriteString(fmt.Sprintf("Hired: %s\n", employee.HireDate.Format("2006-01-02")))
	}

	held := assetsOf(assets, id)
	promptText.WriteString(fmt.Sprintf("\nCurrently holds %d asset(s):\n", len(held)))
	for _, a := range held {
		status := "unknown"
		if a.Status != nil {
			status = string(*a.Status)
		}
		promptText.WriteString(fmt.Sprintf("- %s (%s)\n", a.Label(), status))
	}

	var periods int
	for _, hist := range histories {
		if hist.Employee != nil && hist.Employee.ID != nil && *hist.Employee.ID == id {
			periods++
		}
	}
	promptText.WriteString(fmt.Sprintf("\nAsset history periods: %d\n", periods))

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Assets that are sold or not working but still assigned")
	promptText.WriteString("\n2. Warranty dates that have passed")
	promptText.WriteString("\n3. Suggested follow-up with the employee")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Equipment for employee: %s", employee.Label()),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getInventoryReviewPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	assets, err := readAll(ctx, h.ctrls.Assets)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.Status]int)
	var unassigned int
	for _, a := range assets {
		if a.Status != nil {
			byStatus[*a.Status]++
		}
		if a.Employee == nil {
			unassigned++
		}
	}

	var promptText strings.Builder
	promptText.WriteString("Please review the asset inventory:\n\n")
	promptText.WriteString(fmt.Sprintf("Total assets: %d\n", len(assets)))
	for _, s := range models.Statuses {
		promptText.WriteString(fmt.Sprintf("%s: %d\n", s, byStatus[s]))
	}
	promptText.WriteString(fmt.Sprintf("Without an employee: %d\n", unassigned))

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Assets that could be reassigned")
	promptText.WriteString("\n2. Assets to repair or sell")

	return &mcp.GetPromptResult{
		Description: "Asset inventory review",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func writeOptional(b *strings.Builder, label string, v *string) {
	if v != nil && *v != "" {
		b.WriteString(fmt.Sprintf("%s: %s\n", label, *v))
	}
}
