package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"quantrisk/internal/risk"
	"quantrisk/internal/store"
)

func newGreeksCmd(app *App) *cobra.Command {
	var save bool
	var thetaDays int

	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Compute bump-implied sensitivities for the demo book",
		RunE: func(cmd *cobra.Command, args []string) error {
			pricer, err := app.demoPricer()
			if err != nil {
				return err
			}

			report, err := risk.ComputeGreeks(pricer, risk.GreeksRequest{
				Asset:       demoAsset,
				CreditCurve: demoCreditCurve,
				ThetaDays:   thetaDays,
				SpotDate:    demoSpotDate,
				Dynamics:    risk.StickyForward,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "instrument: %s\n", demoInstrument().ID())
			fmt.Fprintf(out, "price: %.6f\n", report.Price)
			fmt.Fprintf(out, "delta: %.6f\n", report.Greeks.Delta)
			fmt.Fprintf(out, "gamma: %.6f\n", report.Greeks.Gamma)
			fmt.Fprintf(out, "vega:  %.6f\n", report.Greeks.Vega)
			fmt.Fprintf(out, "rho:   %.6f\n", report.Greeks.Rho)
			if thetaDays > 0 {
				fmt.Fprintf(out, "theta: %.6f\n", report.Greeks.Theta)
			}

			if !save {
				return nil
			}
			runStore, err := app.openStore()
			if err != nil {
				return err
			}
			run := &store.Run{
				InstrumentID: demoInstrument().ID(),
				Model:        "black-diffusion",
				Paths:        app.Config.Engine.Paths,
				Seed:         app.Config.Engine.Seed,
				Price:        decimal.NewFromFloat(report.Price),
				Delta:        decimal.NewFromFloat(report.Greeks.Delta),
				Gamma:        decimal.NewFromFloat(report.Greeks.Gamma),
				Vega:         decimal.NewFromFloat(report.Greeks.Vega),
				Rho:          decimal.NewFromFloat(report.Greeks.Rho),
				Theta:        decimal.NewFromFloat(report.Greeks.Theta),
			}
			if err := runStore.SaveRun(cmd.Context(), run); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved run %s\n", run.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "persist the run to the run store")
	cmd.Flags().IntVar(&thetaDays, "theta-days", 0,
		"measure theta by advancing the valuation date this many days (leaves the pricer advanced)")
	return cmd
}
