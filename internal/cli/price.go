package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quantrisk/internal/logging"
)

func newPriceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Price the demo book by Monte Carlo simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			pricer, err := app.demoPricer()
			if err != nil {
				return err
			}

			start := time.Now()
			price, err := pricer.Price()
			if err != nil {
				return err
			}
			logging.LogPricingRun(app.Logger, demoInstrument().ID(), "black-diffusion",
				app.Config.Engine.Paths, price, time.Since(start))

			fmt.Fprintf(cmd.OutOrStdout(), "instrument: %s\n", demoInstrument().ID())
			fmt.Fprintf(cmd.OutOrStdout(), "paths:      %d\n", app.Config.Engine.Paths)
			fmt.Fprintf(cmd.OutOrStdout(), "price:      %.6f\n", price)
			return nil
		},
	}
}
