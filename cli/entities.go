// ABOUTME: Entity CLI commands
// ABOUTME: list, get, create, update, patch and delete for any entity, through the REST API
package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
	assetsync "github.com/johanaerens/assetmanagement/sync"
	"github.com/johanaerens/assetmanagement/views"
)

type pickController[T models.Entity] func(*assetsync.Controllers) *assetsync.Controller[T]

// newEntityCommand builds the command group for one entity type. Every
// editable field becomes a --<field> flag on create, update and patch.
func newEntityCommand[T models.Entity](a *app, d *models.Descriptor[T], pick pickController[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     kebab(d.Name),
		Aliases: []string{d.Plural},
		Short:   "Manage " + strings.ToLower(d.Title),
	}

	controller := func() (*assetsync.Controller[T], error) {
		ctrls, err := a.controllers()
		if err != nil {
			return nil, err
		}
		return pick(ctrls), nil
	}

	cmd.AddCommand(
		newListCommand(a, d, controller),
		newGetCommand(a, d, controller),
		newCreateCommand(a, d, controller),
		newUpdateCommand(a, d, controller),
		newPatchCommand(a, d, controller),
		newDeleteCommand(a, d, controller),
	)
	return cmd
}

func newListCommand[T models.Entity](a *app, d *models.Descriptor[T], controller func() (*assetsync.Controller[T], error)) *cobra.Command {
	var sortFlag string
	var unassigned bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + d.Plural,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := controller()
			if err != nil {
				return err
			}
			list, err := views.NewListView(ctrl, nil, time.Local)
			if err != nil {
				return err
			}
			if err := list.SetQuery(url.Values{"sort": {sortFlag}}.Encode()); err != nil {
				return err
			}

			if unassigned {
				err = ctrl.FetchUnassigned(cmd.Context(), list.Sort())
			} else {
				err = list.Load(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", d.Plural, err)
			}

			rows := list.Rows()
			if len(rows) == 0 {
				fmt.Fprintf(a.out, "No %s found\n", d.Plural)
				return nil
			}

			var headers []string
			for _, f := range list.Columns() {
				headers = append(headers, strings.ToUpper(f.Label))
			}
			return printTable(a.out, headers, rows)
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "", "Sort as field,asc or field,desc (e.g. "+sortExample(d)+")")
	cmd.Flags().BoolVar(&unassigned, "unassigned", false, "Only records no asset history refers to")
	return cmd
}

func newGetCommand[T models.Entity](a *app, d *models.Descriptor[T], controller func() (*assetsync.Controller[T], error)) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + d.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := controller()
			if err != nil {
				return err
			}
			detail := views.NewDetailView(ctrl, time.Local)
			if err := detail.Load(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to get %s %d: %w", d.Name, id, err)
			}
			return printDetail(a.out, detail.Rows())
		},
	}
}

func newCreateCommand[T models.Entity](a *app, d *models.Descriptor[T], controller func() (*assetsync.Controller[T], error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + d.Name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := views.BindValues(d, changedValues(cmd, d), time.Local)
			if err != nil {
				return err
			}
			ctrl, err := controller()
			if err != nil {
				return err
			}
			if err := ctrl.Create(cmd.Context(), e); err != nil {
				return fmt.Errorf("failed to create %s: %w", d.Name, err)
			}
			return printSaved(a.out, d, ctrl, "created")
		},
	}
	addFieldFlags(cmd, d)
	return cmd
}

// newUpdateCommand sends a full replacement: the current record with the
// given flags applied. An empty flag value clears the field.
func newUpdateCommand[T models.Entity](a *app, d *models.Descriptor[T], controller func() (*assetsync.Controller[T], error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a " + d.Name + ", keeping fields not given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			values := changedValues(cmd, d)
			changes, err := views.BindValues(d, values, time.Local)
			if err != nil {
				return err
			}
			ctrl, err := controller()
			if err != nil {
				return err
			}
			if err := ctrl.FetchOne(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to load %s %d: %w", d.Name, id, err)
			}

			e := ctrl.Store().State().Entity
			d.Merge(&e, changes)
			for name, raw := range values {
				if strings.TrimSpace(raw) == "" {
					f, _ := d.Field(name)
					f.Set(&e, models.Value{Kind: f.Kind})
				}
			}

			if err := ctrl.Update(cmd.Context(), e); err != nil {
				return fmt.Errorf("failed to update %s %d: %w", d.Name, id, err)
			}
			return printSaved(a.out, d, ctrl, "updated")
		},
	}
	addFieldFlags(cmd, d)
	return cmd
}

func newPatchCommand[T models.Entity](a *app, d *models.Descriptor[T], controller func() (*assetsync.Controller[T], error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <id>",
		Short: "Change only the given fields of a " + d.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := views.BindValues(d, changedValues(cmd, d), time.Local)
			if err != nil {
				return err
			}
			views.SetID(d, &e, id)

			ctrl, err := controller()
			if err != nil {
				return err
			}
			if err := ctrl.PartialUpdate(cmd.Context(), e); err != nil {
				return fmt.Errorf("failed to patch %s %d: %w", d.Name, id, err)
			}
			return printSaved(a.out, d, ctrl, "patched")
		},
	}
	addFieldFlags(cmd, d)
	return cmd
}

func newDeleteCommand[T models.Entity](a *app, d *models.Descriptor[T], controller func() (*assetsync.Controller[T], error)) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + d.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := controller()
			if err != nil {
				return err
			}

			del := views.NewDeleteView(ctrl)
			if err := del.Load(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to load %s %d: %w", d.Name, id, err)
			}
			if !yes && !confirm(a.in, a.out, del.Prompt()) {
				fmt.Fprintln(a.out, "Cancelled")
				return nil
			}

			if err := del.Confirm(cmd.Context()); err != nil {
				return fmt.Errorf("failed to delete %s %d: %w", d.Name, id, err)
			}
			fmt.Fprintf(a.out, "✓ Deleted %s %d\n", d.Name, id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func addFieldFlags[T models.Entity](cmd *cobra.Command, d *models.Descriptor[T]) {
	for _, f := range d.Fields {
		if f.Kind == models.KindID {
			continue
		}
		cmd.Flags().String(f.Name, "", fieldUsage(f))
	}
}

func fieldUsage[T models.Entity](f models.Field[T]) string {
	switch f.Kind {
	case models.KindEnum:
		return f.Label + " (" + strings.Join(f.Options, "|") + ")"
	case models.KindTime:
		return f.Label + " (YYYY-MM-DD HH:mm local time, or RFC 3339)"
	case models.KindRef:
		return f.Label + " id"
	}
	return f.Label
}

// changedValues collects the field flags the user actually passed.
func changedValues[T models.Entity](cmd *cobra.Command, d *models.Descriptor[T]) map[string]string {
	values := make(map[string]string)
	for _, f := range d.Fields {
		if f.Kind == models.KindID || !cmd.Flags().Changed(f.Name) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.Name)
		values[f.Name] = v
	}
	return values
}

func printSaved[T models.Entity](out io.Writer, d *models.Descriptor[T], ctrl *assetsync.Controller[T], verb string) error {
	e := ctrl.Store().State().Entity
	fmt.Fprintf(out, "✓ %s %s: %s\n", strings.ToUpper(d.Name[:1])+d.Name[1:], verb, e.Label())

	rows := make([]views.Row, 0, len(d.Fields))
	for _, f := range d.Fields {
		rows = append(rows, views.Row{Label: f.Label, Value: views.FormatValue(f.Get(e), time.Local)})
	}
	return printDetail(out, rows)
}

func printTable(out io.Writer, headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(dashes, "\t"))

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			if c == "" {
				c = "-"
			}
			cells[i] = c
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

func printDetail(out io.Writer, rows []views.Row) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		value := r.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "  %s:\t%s\n", r.Label, value)
	}
	return w.Flush()
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// kebab turns "assetHistory" into "asset-history".
func kebab(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortExample[T models.Entity](d *models.Descriptor[T]) string {
	if len(d.Fields) > 1 {
		return store.Sort{Field: d.Fields[1].Name, Direction: store.Asc}.String()
	}
	return "id,asc"
}
