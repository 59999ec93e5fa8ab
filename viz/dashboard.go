// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides an ASCII overview of the asset inventory
package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/johanaerens/assetmanagement/models"
)

type DashboardStats struct {
	// Inventory by status
	AssetsByStatus map[models.Status]int

	// Overall stats
	TotalAssets    int
	TotalEmployees int
	TotalHistories int

	// Open history periods (no end date)
	OpenAssignments int

	// Needs attention
	Unowned         []string
	NotWorking      []string
	WarrantyExpired []string
	IdleEmployees   []string
}

// GenerateDashboardStats summarizes in as of now. Assets without a status are
// counted under the empty status.
func GenerateDashboardStats(in Assignments, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		AssetsByStatus: make(map[models.Status]int),
		TotalAssets:    len(in.Assets),
		TotalEmployees: len(in.Employees),
		TotalHistories: len(in.Histories),
	}

	holders := make(map[int64]bool)
	for _, a := range in.Assets {
		var status models.Status
		if a.Status != nil {
			status = *a.Status
		}
		stats.AssetsByStatus[status]++

		if a.Employee != nil && a.Employee.ID != nil {
			holders[*a.Employee.ID] = true
		} else if status != models.StatusSold {
			stats.Unowned = append(stats.Unowned, a.Label())
		}

		if status == models.StatusNotWorking {
			stats.NotWorking = append(stats.NotWorking, a.Label())
		}
		if a.WarantDate != nil && a.WarantDate.Before(now) && status != models.StatusSold {
			stats.WarrantyExpired = append(stats.WarrantyExpired, a.Label())
		}
	}

	for _, h := range in.Histories {
		if h.EndDate == nil || h.EndDate.After(now) {
			stats.OpenAssignments++
			if h.Employee != nil && h.Employee.ID != nil {
				holders[*h.Employee.ID] = true
			}
		}
	}

	for _, e := range in.Employees {
		if e.ID != nil && !holders[*e.ID] {
			stats.IdleEmployees = append(stats.IdleEmployees, e.Label())
		}
	}

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  ASSET INVENTORY DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("ASSETS BY STATUS\n")
	renderStatuses(&out, stats.AssetsByStatus)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  💻 %d assets  👤 %d employees  📜 %d history records (%d open)\n\n",
		stats.TotalAssets, stats.TotalEmployees, stats.TotalHistories, stats.OpenAssignments))

	if len(stats.Unowned) > 0 || len(stats.NotWorking) > 0 || len(stats.WarrantyExpired) > 0 || len(stats.IdleEmployees) > 0 {
		out.WriteString("NEEDS ATTENTION\n")

		if len(stats.NotWorking) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d assets not working: %s\n", len(stats.NotWorking), strings.Join(stats.NotWorking, ", ")))
		}
		if len(stats.WarrantyExpired) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d assets out of warranty: %s\n", len(stats.WarrantyExpired), strings.Join(stats.WarrantyExpired, ", ")))
		}
		if len(stats.Unowned) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d assets without an owner\n", len(stats.Unowned)))
		}
		if len(stats.IdleEmployees) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d employees hold no assets\n", len(stats.IdleEmployees)))
		}
	}

	return out.String()
}

func renderStatuses(out *strings.Builder, byStatus map[models.Status]int) {
	statuses := append([]models.Status{}, models.Statuses...)
	if byStatus[""] > 0 {
		statuses = append(statuses, "")
	}

	// Find max count for scaling
	maxCount := 0
	for _, count := range byStatus {
		if count > maxCount {
			maxCount = count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, status := range statuses {
		count := byStatus[status]

		// Calculate bar length (0-10 blocks)
		barLength := (count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		name := string(status)
		if name == "" {
			name = "(none)"
		}
		out.WriteString(fmt.Sprintf("  %-12s %s  %2d\n", name, bar, count))
	}
}
