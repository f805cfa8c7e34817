package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// issuerCmd represents the issuer command
var issuerCmd = &cobra.Command{
	Use:   "issuer",
	Short: "Manage issuer credentials",
	Long:  `Manage the issuer credentials that authorize certificate issuance.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'issuer' requires a subcommand (grant, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(issuerCmd)
}
