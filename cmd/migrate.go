package cmd

import (
	"fmt"

	"github.com/chrisdamba/comanda/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := database.Connect(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := database.Migrate(ctx, pool, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
