// Package cli wires the console commands. Commands are thin views: they
// read from the stores and dispatch operations; all state lives behind the
// store and session layers.
package cli

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skpot/biryani-console/internal/api"
	"github.com/skpot/biryani-console/internal/config"
	"github.com/skpot/biryani-console/internal/events"
	"github.com/skpot/biryani-console/internal/metrics"
	"github.com/skpot/biryani-console/internal/session"
	"github.com/skpot/biryani-console/internal/store"
)

// App bundles the console's long-lived components for the command tree.
type App struct {
	Config   config.Config
	Log      *logrus.Logger
	Hub      *events.Hub
	Client   *api.Client
	Metrics  *metrics.Metrics
	Session  *session.Manager
	Foods    *store.FoodStore
	Orders   *store.OrderStore
	Partners *store.PartnerStore
}

// NewRootCmd builds the console command tree.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		apiURL     string
		logLevel   string
	)

	app := &App{}

	cmd := &cobra.Command{
		Use:           "console",
		Short:         "Admin console for the SK-POT food delivery operation",
		Long:          "Terminal admin console for managing the food catalog, customer orders, and delivery partners through the SK-POT admin API.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(configPath, apiURL, logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Admin API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newDashboardCmd(app),
		newFoodsCmd(app),
		newOrdersCmd(app),
		newPartnersCmd(app),
	)
	return cmd
}

// init assembles the component graph: hub, adapter, session guard, stores.
func (a *App) init(configPath, apiURL, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	a.Config = cfg

	a.Log = logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	a.Log.SetLevel(level)

	a.Hub = events.NewHub()
	a.Metrics = metrics.New()

	a.Client, err = api.NewClient(cfg.API.BaseURL, a.Hub,
		api.WithTimeout(cfg.API.Timeout.Std()),
		api.WithLogger(a.Log),
		api.WithMetrics(a.Metrics),
	)
	if err != nil {
		return err
	}

	sessionPath := cfg.Session.File
	if sessionPath == "" {
		sessionPath, err = session.DefaultPath()
		if err != nil {
			return err
		}
	}
	a.Session = session.NewManager(a.Client, a.Hub, session.NewStorage(sessionPath), a.Log)
	if err := a.Session.Hydrate(); err != nil {
		a.Log.WithError(err).Warn("session rehydration failed, starting logged out")
	}

	a.Foods = store.NewFoodStore(a.Client, a.Log, a.Metrics)
	a.Orders = store.NewOrderStore(a.Client, a.Log, a.Metrics)
	a.Partners = store.NewPartnerStore(a.Client, a.Log, a.Metrics)

	if cfg.Metrics.Listen != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", a.Metrics.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				a.Log.WithError(err).Warn("metrics listener stopped")
			}
		}()
	}
	return nil
}

// requireAuth is the session gate for protected commands.
func requireAuth(app *App) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !app.Session.Authenticated() {
			return fmt.Errorf("not logged in: run `console login <phone>` first")
		}
		return nil
	}
}
