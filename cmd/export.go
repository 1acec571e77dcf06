package cmd

import (
	"fmt"
	"time"

	"github.com/chrisdamba/foodstore/internal/cloudwriter"
	"github.com/chrisdamba/foodstore/internal/export"
	"github.com/chrisdamba/foodstore/internal/repositories/postgres"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export orders to Parquet files, locally or in S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var since time.Time
		if raw, _ := cmd.Flags().GetString("since"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return fmt.Errorf("--since must be RFC3339: %w", err)
			}
			since = t
		}

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		factory, err := cloudwriter.NewFactory(ctx, cfg.CloudStorage)
		if err != nil {
			return fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		out := export.NewParquetOutput(cfg.Export.OutputPath, cfg.Export.Folder, factory, cfg.CloudStorage.BucketName, log.Named("export"))

		bar := progressbar.Default(-1, "exporting orders")
		ex := &export.Exporter{
			Orders:    postgres.NewOrderRepository(pool),
			Output:    out,
			BatchSize: cfg.Export.BatchSize,
			Progress:  bar,
			Log:       log.Named("export"),
		}
		n, exportErr := ex.Export(ctx, since)
		_ = bar.Finish()
		partitions := out.Partitions()

		if err := out.Close(); err != nil && exportErr == nil {
			exportErr = fmt.Errorf("failed to finish parquet files: %w", err)
		}
		if exportErr != nil {
			return exportErr
		}
		log.Info("orders exported",
			zap.Int("orders", n),
			zap.String("provider", cfg.CloudStorage.Provider),
			zap.Strings("partitions", partitions))
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output", "output", "local base path for Parquet files")
	exportCmd.Flags().String("since", "", "only export orders created at or after this RFC3339 time")
	exportCmd.Flags().Int("batch-size", 500, "orders fetched per database round trip")
	cobra.CheckErr(viper.BindPFlag("export.output_path", exportCmd.Flags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("export.batch_size", exportCmd.Flags().Lookup("batch-size")))
}
