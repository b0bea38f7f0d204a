package cmd

import (
	"fmt"
	"time"

	"github.com/chrisdamba/comanda/internal/simulator"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive fake orders through the kitchen and payments",
	Long: `simulate places generated orders against the configured storage and walks
each one through preparation, delivery and payment. A share of orders is
cancelled before the kitchen starts on them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		orders, _ := cmd.Flags().GetInt("orders")
		cancelRate, _ := cmd.Flags().GetFloat64("cancel-rate")
		seed, _ := cmd.Flags().GetInt64("seed")
		startFlag, _ := cmd.Flags().GetString("start")

		var start time.Time
		if startFlag != "" {
			t, err := time.Parse(time.RFC3339, startFlag)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			start = t
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.seedCatalog(ctx); err != nil {
			return err
		}

		sim := simulator.NewSimulator(a.svc, simulator.Config{
			Orders:     orders,
			StartTime:  start,
			CancelRate: cancelRate,
			Seed:       seed,
		}, log).WithProgress(cmd.ErrOrStderr())
		report, err := sim.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nplaced %d, paid %d, cancelled %d, failed %d, revenue %s over %s simulated\n",
			report.Placed, report.Paid, report.Cancelled, report.Failed,
			report.Revenue.StringFixed(2), report.Duration.Round(time.Minute))
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int("orders", 100, "number of orders to place")
	simulateCmd.Flags().Float64("cancel-rate", 0.05, "share of orders cancelled before preparation")
	simulateCmd.Flags().Int64("seed", 0, "random seed (0 picks one)")
	simulateCmd.Flags().String("start", "", "simulated start time, RFC3339 (default now)")
	rootCmd.AddCommand(simulateCmd)
}
