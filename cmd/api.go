package cmd

import (
	"net/http"
	"time"

	"github.com/chrisdamba/foodstore/internal/api"
	"github.com/chrisdamba/foodstore/internal/events"
	"github.com/chrisdamba/foodstore/internal/metrics"
	"github.com/chrisdamba/foodstore/internal/repositories/postgres"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the backend JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		log.Info("connected to PostgreSQL", zap.String("db_name", cfg.Database.DBName))

		if cfg.API.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}
		}

		out, err := events.NewOutput(cfg, log.Named("events"))
		if err != nil {
			return err
		}
		emitter := events.NewEmitter(out, cfg.Events.Topic, log.Named("events"))
		defer func() {
			if err := emitter.Close(); err != nil {
				log.Error("error closing event output", zap.Error(err))
			}
		}()
		log.Info("event sink ready", zap.String("sink", cfg.Events.Sink), zap.String("topic", cfg.Events.Topic))

		server := api.New(api.Deps{
			Config:      cfg.API,
			FeePolicy:   cfg.Storefront.DeliveryFeePolicy,
			Restaurants: postgres.NewRestaurantRepository(pool),
			MenuItems:   postgres.NewMenuItemRepository(pool),
			Coupons:     postgres.NewCouponRepository(pool),
			Orders:      postgres.NewOrderRepository(pool),
			Events:      emitter,
			Metrics:     metrics.NewServerMetrics("api"),
			Log:         log.Named("api"),
		})

		return listenAndServe(ctx, &http.Server{
			Addr:              cfg.API.Addr,
			Handler:           server.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}, "api")
	},
}

func init() {
	apiCmd.Flags().String("addr", ":8081", "API listen address")
	apiCmd.Flags().String("events-sink", "none", "where order events go (none, console, kafka, rabbitmq)")
	cobra.CheckErr(viper.BindPFlag("api.addr", apiCmd.Flags().Lookup("addr")))
	cobra.CheckErr(viper.BindPFlag("events.sink", apiCmd.Flags().Lookup("events-sink")))
}
