package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hybrid-blog-api/internal/database"
	"github.com/hybrid-blog-api/internal/models"
)

type migrateOptions struct {
	store string // "a" | "b" | "all"
}

// NewMigrateCommand creates the migrate command and its up/down subcommands
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back store schemas",
		Long: `Store A migrates from SQL files (golang-migrate, STORE_A_MIGRATIONS_PATH).
Store B migrates from SQL embedded in the binary (goose).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			_, err := opts.targets()
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&opts.store, "store", "all", "store to migrate (a|b|all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, opts, true, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, opts, false, cmd)
		},
	})

	return cmd
}

func (o *migrateOptions) targets() ([]models.StoreName, error) {
	switch strings.ToLower(o.store) {
	case "a":
		return []models.StoreName{models.StoreA}, nil
	case "b":
		return []models.StoreName{models.StoreB}, nil
	case "all":
		return []models.StoreName{models.StoreA, models.StoreB}, nil
	}
	return nil, fmt.Errorf("invalid store %q: must be one of a, b, all", o.store)
}

func runMigrate(rootOpts *RootOptions, opts *migrateOptions, up bool, cmd *cobra.Command) error {
	targets, err := opts.targets()
	if err != nil {
		return err
	}

	for _, store := range targets {
		db, err := rootOpts.openStore(store)
		if err != nil {
			return err
		}
		err = migrateStore(db, store, rootOpts.cfg.StoreA.MigrationsPath, up)
		db.Close()
		if err != nil {
			return err
		}

		direction := "down"
		if up {
			direction = "up"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Store %s: migrated %s\n", store, direction)
	}
	return nil
}

func migrateStore(db *database.DB, store models.StoreName, pathA string, up bool) error {
	switch {
	case store == models.StoreA && up:
		return db.RunMigrations(pathA)
	case store == models.StoreA:
		return db.MigrateDown(pathA)
	case up:
		return db.RunEmbeddedMigrations()
	default:
		return db.RollbackEmbeddedMigration()
	}
}
