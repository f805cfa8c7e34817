package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/certmint/certmint/pkg/db"
	gormstore "github.com/certmint/certmint/pkg/server/store/gorm"
)

// issuerGrantCmd represents the issuer grant command
var issuerGrantCmd = &cobra.Command{
	Use:   "grant <address>",
	Short: "Grant an issuer credential to an address",
	Long: `Grant an issuer credential to an address.

The credential is bound to the given address: certificates can only be
issued with it by a caller authenticated as that address. An address may
hold any number of issuer credentials.

This command writes to the database directly and does not require the
admin token. Over the HTTP API the same operation is POST /issuers,
authorized by the admin token.

The issuer token is output to STDOUT and shown only this once; the server
stores a digest of it.

Example:
  certmintctl issuer grant 0x7a31
  certmintctl issuer grant --name "Registrar" 0x7a31`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")

		if err := grantIssuer(name, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to grant issuer credential: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	issuerCmd.AddCommand(issuerGrantCmd)
	issuerGrantCmd.Flags().StringP("name", "n", "", "Display name for the issuer")
}

func grantIssuer(name, address string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	cred, err := gormstore.NewIssuersStore(database).Grant(name, address)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Granted issuer credential %s to '%s'\n", cred.ID, cred.Address)
	fmt.Printf("Issuer token: %s\n", cred.PlainToken)
	return nil
}
