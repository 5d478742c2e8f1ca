package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parcelmama/internal/adapter/repository"
	"parcelmama/pkg/config"
	"parcelmama/pkg/logger"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Storage.Driver != config.StorageMongo {
			return fmt.Errorf("indexes only apply to STORAGE_DRIVER=%s", config.StorageMongo)
		}

		ctx := cmd.Context()
		client, err := connectMongo(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer client.Disconnect(ctx)

		if err := repository.EnsureMongoIndexes(ctx, client.Database(cfg.Storage.MongoDatabase)); err != nil {
			return err
		}
		logger.Info("Indexes ready on %s", cfg.Storage.MongoDatabase)
		return nil
	},
}
