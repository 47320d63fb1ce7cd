// Command catalog runs the product catalogue service and its operator
// commands.
//
//	catalog serve              # start the HTTP server
//	catalog migrate            # run pending SQL migrations
//	catalog migrate:rollback
//	catalog migrate:status
//	catalog seed               # load the sample catalogue into an empty store
//	catalog route:list         # list API routes
//	catalog products --category Electronics --limit 5
//	catalog user:create --username admin --password 'correct horse'
//	catalog user:show admin
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Migrations register themselves in init().
	_ "github.com/shashiranjanraj/catalog/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Product catalogue service",
	Long:          "catalog serves a browsable product catalogue over REST and GraphQL, backed by memory, SQL or MongoDB.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Catalogue
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userShowCmd)
}
