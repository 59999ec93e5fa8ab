package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/johanaerens/assetmanagement/prefs"
	"github.com/johanaerens/assetmanagement/tui"
)

func newTUICommand(a *app) *cobra.Command {
	var resetPrefs bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit records in a full-screen terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("tui needs an interactive terminal")
			}

			store, err := prefs.Open(a.cfg.Prefs.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			if resetPrefs {
				if err := store.Reset(); err != nil {
					return err
				}
			}

			ctrls, err := a.controllers()
			if err != nil {
				return err
			}
			// log lines would tear the alt screen
			a.log.SetOutput(io.Discard)
			return tui.Run(cmd.Context(), ctrls, store)
		},
	}

	cmd.Flags().BoolVar(&resetPrefs, "reset-prefs", false, "Forget saved sort orders and the last tab")
	return cmd
}
