// Package cmd holds the easyorder command line: the API server and
// operator tasks such as migrations and table provisioning.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func Execute() {
	rootCmd := &cobra.Command{
		Use:     "easyorder",
		Short:   "QR table ordering backend",
		Version: version,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tablesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
