package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/frontdesk-api/internal/app"
	"github.com/jwalitptl/frontdesk-api/internal/bootstrap"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample patient and nurse if they are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadRuntime()
			if err != nil {
				return err
			}

			ctx := context.Background()
			storage, err := app.OpenStorage(ctx, cfg.Database, l)
			if err != nil {
				return err
			}
			defer storage.Close()

			res, err := bootstrap.Seed(ctx, storage.BootstrapDeps(l))
			if err != nil {
				return err
			}

			l.Info("seed finished", "patients", res.SeededPatients, "nurses", res.SeededNurses)
			return nil
		},
	}
}
