// ABOUTME: Wires the sync controllers into the TUI and runs the program
// ABOUTME: Builds one tab per entity with the reference lists its form needs
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/johanaerens/assetmanagement/models"
	assetsync "github.com/johanaerens/assetmanagement/sync"
	"github.com/johanaerens/assetmanagement/views"
	"github.com/johanaerens/assetmanagement/viz"
)

// NewTabs builds the asset, employee and asset history tabs.
func NewTabs(ctrls *assetsync.Controllers, prefs views.SortPrefs, loc *time.Location) ([]entityTab, error) {
	assets, err := newTab[models.Asset](ctrls.Assets, prefs, loc,
		views.RelatedList[models.Employee](ctrls.Employees))
	if err != nil {
		return nil, fmt.Errorf("asset tab: %w", err)
	}
	employees, err := newTab[models.Employee](ctrls.Employees, prefs, loc)
	if err != nil {
		return nil, fmt.Errorf("employee tab: %w", err)
	}
	histories, err := newTab[models.AssetHistory](ctrls.AssetHistories, prefs, loc,
		views.RelatedList[models.Asset](ctrls.Assets),
		views.RelatedList[models.Employee](ctrls.Employees))
	if err != nil {
		return nil, fmt.Errorf("asset history tab: %w", err)
	}
	return []entityTab{assets, employees, histories}, nil
}

// AssignmentGraph loads every list and draws who holds what.
func AssignmentGraph(ctrls *assetsync.Controllers) GraphFunc {
	return func(ctx context.Context) (string, error) {
		if err := ctrls.FetchAll(ctx); err != nil {
			return "", err
		}
		return viz.GenerateAssignmentGraph(ctx, viz.Assignments{
			Employees: ctrls.Employees.Store().State().Entities,
			Assets:    ctrls.Assets.Store().State().Entities,
			Histories: ctrls.AssetHistories.Store().State().Entities,
		})
	}
}

// Run starts the full-screen interface and blocks until the user quits.
func Run(ctx context.Context, ctrls *assetsync.Controllers, prefs Prefs) error {
	var sortPrefs views.SortPrefs
	if prefs != nil {
		sortPrefs = prefs
	}
	tabs, err := NewTabs(ctrls, sortPrefs, time.Local)
	if err != nil {
		return err
	}

	m := NewModel(ctx, tabs, prefs, AssignmentGraph(ctrls))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
