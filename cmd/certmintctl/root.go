package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "certmintctl",
	Short: "Manage the CertMint server",
	Long: `certmintctl is the command-line toolkit for the CertMint certificate server.

It runs the server, manages the database schema, and performs the
administrative operations that are deliberately kept off the HTTP API,
such as bootstrapping the admin credential.

Example:
  certmintctl db migrate
  certmintctl admin init
  certmintctl server`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
