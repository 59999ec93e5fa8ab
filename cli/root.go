// ABOUTME: Root command and shared wiring for the assetmanagement CLI
// ABOUTME: Loads configuration, builds the logger and hands out API controllers
package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/johanaerens/assetmanagement/client"
	"github.com/johanaerens/assetmanagement/config"
	"github.com/johanaerens/assetmanagement/logging"
	"github.com/johanaerens/assetmanagement/models"
	assetsync "github.com/johanaerens/assetmanagement/sync"
)

type app struct {
	version    string
	configFile string
	apiURL     string
	logLevel   string

	cfg *config.Config
	log *logrus.Logger
	in  io.Reader
	out io.Writer
}

// NewRootCommand builds the full command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version, in: os.Stdin, out: os.Stdout}

	root := &cobra.Command{
		Use:           "assetmanagement",
		Short:         "Track assets, employees and who held what when",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.out = cmd.OutOrStdout()
			a.in = cmd.InOrStdin()
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default: ./config.yaml or $XDG_CONFIG_HOME/assetmanagement/config.yaml)")
	flags.StringVar(&a.apiURL, "api-url", "", "REST API base URL (overrides api.base_url)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")

	root.AddCommand(
		newServeCommand(a),
		newTUICommand(a),
		newMCPCommand(a),
		newGraphCommand(a),
		newDashboardCommand(a),
		newEntityCommand(a, models.AssetDescriptor, func(c *assetsync.Controllers) *assetsync.Controller[models.Asset] { return c.Assets }),
		newEntityCommand(a, models.EmployeeDescriptor, func(c *assetsync.Controllers) *assetsync.Controller[models.Employee] { return c.Employees }),
		newEntityCommand(a, models.AssetHistoryDescriptor, func(c *assetsync.Controllers) *assetsync.Controller[models.AssetHistory] { return c.AssetHistories }),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) client() (*client.Client, error) {
	timeout, err := time.ParseDuration(a.cfg.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid api.timeout %q: %w", a.cfg.API.Timeout, err)
	}

	opts := []client.Option{
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
		client.WithLogger(a.log),
	}
	if a.cfg.API.Token != "" {
		opts = append(opts, client.WithToken(a.cfg.API.Token))
	}
	return client.New(a.cfg.API.BaseURL, opts...)
}

func (a *app) controllers() (*assetsync.Controllers, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	return assetsync.NewControllers(c, a.log), nil
}
