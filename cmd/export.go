package cmd

import (
	"fmt"
	"time"

	"github.com/chrisdamba/comanda/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data to Parquet",
}

var exportPaymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Export completed payments in a date range",
	Example: `  comanda export payments --start 2024-03-01 --end 2024-03-31
  comanda export payments --start 2024-03-01 --end 2024-03-31 --destination s3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startFlag, _ := cmd.Flags().GetString("start")
		endFlag, _ := cmd.Flags().GetString("end")
		if destination, _ := cmd.Flags().GetString("destination"); destination != "" {
			cfg.Export.Destination = destination
		}

		start, err := time.ParseInLocation("2006-01-02", startFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := time.ParseInLocation("2006-01-02", endFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		end = end.Add(24*time.Hour - time.Nanosecond)

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := export.NewExporter(a.svc.Payments, cfg.Export, log).
			WithProgress(cmd.ErrOrStderr()).
			ExportPayments(ctx, start, end)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nwrote %d payments to %s\n", result.Rows, result.Location)
		return nil
	},
}

func init() {
	exportPaymentsCmd.Flags().String("start", "", "first day of the range (YYYY-MM-DD)")
	exportPaymentsCmd.Flags().String("end", "", "last day of the range (YYYY-MM-DD)")
	exportPaymentsCmd.Flags().String("destination", "", "local or s3 (overrides export.destination)")
	exportPaymentsCmd.MarkFlagRequired("start")
	exportPaymentsCmd.MarkFlagRequired("end")

	exportCmd.AddCommand(exportPaymentsCmd)
	rootCmd.AddCommand(exportCmd)
}
