package cmd

import (
	"log"

	"github.com/barefootnomad/api/db"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed reference data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			gormDB := db.Connect(conf)
			defer gormDB.Close()

			if err := db.Migrate(gormDB.DB); err != nil {
				return err
			}
			log.Println("migrations applied")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed roles, locations and accommodations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			gormDB := db.Connect(conf)
			defer gormDB.Close()

			if err := db.Seed(gormDB.DB); err != nil {
				return err
			}
			log.Println("seed data loaded")
			return nil
		},
	}
}
