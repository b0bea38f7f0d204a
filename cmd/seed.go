package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const seedBatchSize = 100

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the dish catalog",
	Long: `seed loads the configured catalog file, or the default dishes, into an empty
catalog. With --fake it also inserts that many generated dishes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fake, _ := cmd.Flags().GetInt("fake")

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.seedCatalog(ctx); err != nil {
			return err
		}
		if fake <= 0 {
			return nil
		}

		bar := progressbar.NewOptions(fake,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("seeding fake dishes"),
			progressbar.OptionShowCount(),
		)
		for done := 0; done < fake; {
			batch := min(seedBatchSize, fake-done)
			n, err := a.svc.Dishes.SeedFake(ctx, batch)
			if err != nil {
				return err
			}
			done += n
			bar.Add(n)
		}
		bar.Finish()
		fmt.Fprintf(cmd.OutOrStdout(), "\nseeded %d fake dishes\n", fake)
		return nil
	},
}

func init() {
	seedCmd.Flags().Int("fake", 0, "number of generated dishes to add")
	rootCmd.AddCommand(seedCmd)
}
