package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/certmint/certmint/pkg/db"
	gormstore "github.com/certmint/certmint/pkg/server/store/gorm"
)

// issuerListCmd represents the issuer list command
var issuerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issuer credentials",
	Long: `List the issuer credentials that have been granted.

Tokens are never shown; the server only stores digests of them.

Example:
  certmintctl issuer list`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listIssuers(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list issuer credentials: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	issuerCmd.AddCommand(issuerListCmd)
}

func listIssuers() error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	creds, err := gormstore.NewIssuersStore(database).List()
	if err != nil {
		return err
	}

	if len(creds) == 0 {
		fmt.Println("No issuer credentials have been granted")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %-20s  %s\n", "ID", "ADDRESS", "NAME", "CREATED")
	for _, cred := range creds {
		fmt.Printf("%-36s  %-20s  %-20s  %s\n",
			cred.ID, cred.Address, cred.Name, cred.CreatedAt.UTC().Format(time.RFC3339))
	}
	return nil
}
