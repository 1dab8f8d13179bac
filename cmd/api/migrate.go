package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/frontdesk-api/internal/app"
	"github.com/jwalitptl/frontdesk-api/internal/bootstrap"
)

func newMigrateCommand() *cobra.Command {
	var repairPhoto bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadRuntime()
			if err != nil {
				return err
			}
			if cfg.Database.InMemory() {
				return errors.New("migrate requires the postgres driver")
			}

			ctx := context.Background()
			storage, err := app.OpenStorage(ctx, cfg.Database, l)
			if err != nil {
				return err
			}
			defer storage.Close()

			res, err := bootstrap.Initialize(ctx, storage.BootstrapDeps(l), bootstrap.Options{
				AutoMigrate:       true,
				RepairPhotoColumn: repairPhoto || cfg.Database.RepairPhotoColumn,
			})
			if err != nil {
				return err
			}

			l.Info("schema is up to date",
				"applied", len(res.AppliedMigrations),
				"photo_column_type", res.PhotoColumnType,
				"photo_column_writable", res.PhotoColumnWritable,
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&repairPhoto, "repair-photo", false, "convert an oid patients.photo column to bytea")
	return cmd
}
