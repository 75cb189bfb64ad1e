package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanyajewels/storefront/config"
	"github.com/vanyajewels/storefront/database/migrations"
	"github.com/vanyajewels/storefront/database/seeders"
	"github.com/vanyajewels/storefront/pkg/database"
)

// bootDB loads config and opens the Mongo connection.
func bootDB(cmd *cobra.Command) error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect(cmd.Context())
}

// storefront indexes
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd); err != nil {
			return err
		}
		defer database.Disconnect(cmd.Context())

		fmt.Println("Building indexes…")
		return migrations.RunAll(cmd.Context(), database.DB())
	},
}

// storefront seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with starter data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd); err != nil {
			return err
		}
		defer database.Disconnect(cmd.Context())

		fmt.Println("Seeding…")
		return seeders.RunAll(cmd.Context(), database.DB())
	},
}
