// ABOUTME: Visualization CLI commands
// ABOUTME: Prints the assignment graph as GraphViz DOT and the inventory dashboard
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/johanaerens/assetmanagement/viz"
)

func newGraphCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate the assignment graph as DOT source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := loadAssignments(cmd, a)
			if err != nil {
				return err
			}

			dot, err := viz.GenerateAssignmentGraph(cmd.Context(), in)
			if err != nil {
				return err
			}

			if output != "" {
				return os.WriteFile(output, []byte(dot), 0644)
			}

			fmt.Fprintln(a.out, dot)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Output file (default: stdout)")
	return cmd
}

func newDashboardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show an inventory overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := loadAssignments(cmd, a)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, viz.RenderDashboard(viz.GenerateDashboardStats(in, time.Now())))
			return nil
		},
	}
}

func loadAssignments(cmd *cobra.Command, a *app) (viz.Assignments, error) {
	ctrls, err := a.controllers()
	if err != nil {
		return viz.Assignments{}, err
	}
	if err := ctrls.FetchAll(cmd.Context()); err != nil {
		return viz.Assignments{}, fmt.Errorf("failed to load assignments: %w", err)
	}
	return viz.Assignments{
		Employees: ctrls.Employees.Store().State().Entities,
		Assets:    ctrls.Assets.Store().State().Entities,
		Histories: ctrls.AssetHistories.Store().State().Entities,
	}, nil
}
