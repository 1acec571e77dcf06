package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/foodstore/internal/logger"
	"github.com/chrisdamba/foodstore/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *models.Config
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "foodstore",
	Short: "Online ordering storefront and backend for restaurants",
	Long: `foodstore runs a server-rendered storefront where customers browse restaurant
menus, build a cart, apply coupons and check out with cash on delivery or a
wallet, together with the JSON backend that owns the catalog and orders.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env file is fine
		_ = godotenv.Load()

		var err error
		cfg, err = models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		log, err = logger.NewZapLogger(logger.FromConfig(cfg))
		if err != nil {
			return err
		}
		if used := viper.ConfigFileUsed(); used != "" {
			log.Info("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./foodstore.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("env", "production", "environment name; development enables console logging")

	cobra.CheckErr(viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env")))

	rootCmd.AddCommand(serveCmd, apiCmd, seedCmd, exportCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
