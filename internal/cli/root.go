// Package cli provides the command-line interface for the risk engine.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"quantrisk/internal/config"
	"quantrisk/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.RunStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "quantrisk",
		Short: "Monte Carlo derivatives pricing and risk CLI",
		Long: `quantrisk prices derivative instruments by Monte Carlo simulation and
computes bump-implied sensitivities (Greeks) against a market-data snapshot.

Use 'quantrisk price' to value the demo book and 'quantrisk greeks' to run a
full bump-and-restore sensitivity report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	rootCmd.PersistentFlags().IntVar(&app.Config.Engine.Paths, "paths",
		app.Config.Engine.Paths, "number of Monte Carlo paths")
	rootCmd.PersistentFlags().Uint64Var(&app.Config.Engine.Seed, "seed",
		app.Config.Engine.Seed, "random seed for the simulation")

	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newGreeksCmd(app))
	rootCmd.AddCommand(newRunsCmd(app))

	return rootCmd
}

// openStore lazily opens the run store.
func (a *App) openStore() (store.RunStore, error) {
	if a.Store != nil {
		return a.Store, nil
	}
	s, err := store.NewSQLiteStore(a.Config.Store.Path)
	if err != nil {
		return nil, err
	}
	a.Store = s
	return s, nil
}
