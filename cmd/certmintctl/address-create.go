package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/certmint/certmint/pkg/db"
	gormstore "github.com/certmint/certmint/pkg/server/store/gorm"
)

// addressCreateCmd represents the address create command
var addressCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new address",
	Long: `Register a new address.

This generates a fresh address and the API key it authenticates with.
The API key is output to STDOUT and shown only this once; the server
stores a digest of it.

Addresses can also register themselves over the HTTP API via
POST /addresses.

Example:
  certmintctl address create`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := createAddress(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create address: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	addressCmd.AddCommand(addressCreateCmd)
}

func createAddress() error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	principal, err := gormstore.NewPrincipalsStore(database).Register()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Created new address '%s'\n", principal.Address)
	fmt.Printf("Address: %s\n", principal.Address)
	fmt.Printf("API key: %s\n", principal.PlainAPIKey)
	return nil
}
