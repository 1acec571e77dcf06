package cmd

import (
	"fmt"

	"github.com/chrisdamba/foodstore/internal/factories"
	"github.com/chrisdamba/foodstore/internal/repositories/postgres"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with fake restaurants, menus and coupons",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}

		restaurants := postgres.NewRestaurantRepository(pool)
		menuItems := postgres.NewMenuItemRepository(pool)
		coupons := postgres.NewCouponRepository(pool)

		reset, _ := cmd.Flags().GetBool("reset")
		if reset {
			// menu items reference restaurants, so they go first
			if err := menuItems.DeleteAll(ctx); err != nil {
				return err
			}
			if err := restaurants.DeleteAll(ctx); err != nil {
				return err
			}
			if err := coupons.DeleteAll(ctx); err != nil {
				return err
			}
		} else if n, err := restaurants.Count(ctx); err != nil {
			return err
		} else if n > 0 {
			return fmt.Errorf("database already holds %d restaurants, rerun with --reset", n)
		}

		bar := progressbar.Default(int64(cfg.Seed.Restaurants), "generating restaurants")
		catalog := factories.GenerateCatalog(cfg.Seed, func() { _ = bar.Add(1) })
		_ = bar.Finish()

		if err := restaurants.BulkCreate(ctx, catalog.Restaurants); err != nil {
			return fmt.Errorf("failed to insert restaurants: %w", err)
		}
		if err := menuItems.BulkCreate(ctx, catalog.MenuItems); err != nil {
			return fmt.Errorf("failed to insert menu items: %w", err)
		}
		if err := coupons.BulkCreate(ctx, catalog.Coupons); err != nil {
			return fmt.Errorf("failed to insert coupons: %w", err)
		}

		log.Info("seed complete",
			zap.Int("restaurants", len(catalog.Restaurants)),
			zap.Int("menu_items", len(catalog.MenuItems)),
			zap.Int("coupons", len(catalog.Coupons)))
		return nil
	},
}

func init() {
	seedCmd.Flags().Int("restaurants", 20, "number of restaurants to generate")
	seedCmd.Flags().Int("items-per-restaurant", 15, "menu items per restaurant")
	seedCmd.Flags().Int("coupons", 5, "number of coupons to generate")
	seedCmd.Flags().Bool("reset", false, "delete existing catalog data first")
	cobra.CheckErr(viper.BindPFlag("seed.restaurants", seedCmd.Flags().Lookup("restaurants")))
	cobra.CheckErr(viper.BindPFlag("seed.items_per_restaurant", seedCmd.Flags().Lookup("items-per-restaurant")))
	cobra.CheckErr(viper.BindPFlag("seed.coupons", seedCmd.Flags().Lookup("coupons")))
}
