package cmd

import (
	"fmt"

	"github.com/Vishnukant2275/easyorderin/configs"
	"github.com/Vishnukant2275/easyorderin/repository"
	"github.com/Vishnukant2275/easyorderin/services"

	"github.com/spf13/cobra"
)

func tablesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tables",
		Short: "Manage restaurant tables",
	}
	c.AddCommand(tablesBulkCreateCmd())
	return c
}

func tablesBulkCreateCmd() *cobra.Command {
	var (
		restaurantID uint
		count        int
	)
	c := &cobra.Command{
		Use:   "bulk-create",
		Short: "Provision sequentially numbered tables for a restaurant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configs.LoadConfig()
			db, err := configs.ConnectionDB(cfg)
			if err != nil {
				return err
			}
			if err := configs.SetupDatabase(db); err != nil {
				return err
			}
			reg := services.NewTableRegistry(db,
				repository.NewTableRepository(db),
				repository.NewRestaurantRepository(db))
			tables, err := reg.BulkCreate(cmd.Context(), restaurantID, count)
			if err != nil {
				return err
			}
			if len(tables) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "created tables %d..%d for restaurant %d\n",
					tables[0].Number, tables[len(tables)-1].Number, restaurantID)
			}
			return nil
		},
	}
	c.Flags().UintVar(&restaurantID, "restaurant", 0, "restaurant id")
	c.Flags().IntVar(&count, "count", 0, "number of tables to add")
	_ = c.MarkFlagRequired("restaurant")
	_ = c.MarkFlagRequired("count")
	return c
}
