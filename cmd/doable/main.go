// Command doable runs the Doable task and project dashboard.
//
//	@title						Doable API
//	@version					1.0
//	@description				Task and project dashboard with admin and employee roles.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "doable",
	Short:         "Task and project dashboard",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		// A missing .env is normal outside local development.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "doable:", err)
		os.Exit(1)
	}
}
