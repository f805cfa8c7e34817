package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// addressCmd represents the address command
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Manage addresses",
	Long:  `Manage the addresses that act as principals against the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'address' requires a subcommand (create)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
