package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Alp4ka/listpager/internal/catalog"
)

func newSeedCmd(configPath *string) *cobra.Command {
	var perCategory int

	cmd := &cobra.Command{
		Use:   "seed",
		Args:  cobra.NoArgs,
		Short: "Migrate the schema and load demo error codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err = catalog.Migrate(ctx, a.db); err != nil {
				return err
			}
			if err = catalog.Seed(ctx, a.db, perCategory); err != nil {
				return err
			}

			a.logger.Info("catalog seeded", zap.Int("per_category", perCategory))

			return nil
		},
	}
	cmd.Flags().IntVarP(&perCategory, "per-category", "n", 40, "error codes per category")

	return cmd
}
