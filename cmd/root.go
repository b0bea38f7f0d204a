package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const serviceName = "comanda"

var (
	cfgFile string
	cfg     *models.Config
	log     *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "comanda",
	Short: "Order management backend for restaurants",
	Long: `comanda runs a restaurant's order desk: the dish catalog, orders and their
totals, kitchen tickets and payments, kept in step with each other.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		log = logger.New(serviceName, cfg.Log.Level, cfg.Log.Format)
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug("load_config", "using config file", "path", used)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("storage", "postgres", "storage driver: postgres or memory")
	rootCmd.PersistentFlags().String("database-url", "", "postgres connection string")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("storage.driver", rootCmd.PersistentFlags().Lookup("storage"))
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
