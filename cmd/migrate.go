package cmd

import (
	"fmt"

	"github.com/Vishnukant2275/easyorderin/configs"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var seedDemo bool
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configs.LoadConfig()
			log, err := configs.NewLogger(cfg)
			if err != nil {
				return err
			}
			db, err := configs.ConnectionDB(cfg)
			if err != nil {
				return err
			}
			if err := configs.SetupDatabase(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if seedDemo {
				rest, err := configs.SeedDemo(db, log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "demo restaurant id: %d\n", rest.ID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
	c.Flags().BoolVar(&seedDemo, "seed-demo", false, "also seed a demo restaurant with tables and menu")
	return c
}
