package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/certmint/certmint/pkg/audit"
	"github.com/certmint/certmint/pkg/db"
	"github.com/certmint/certmint/pkg/server/store"
	gormstore "github.com/certmint/certmint/pkg/server/store/gorm"
)

// adminInitCmd represents the admin init command
var adminInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the admin credential",
	Long: `Create the singleton admin credential.

A deployment has exactly one admin credential, and it can only be created
once. Its token authorizes granting issuer credentials via the HTTP API.

The admin token is output to STDOUT. It is shown only this once; the server
stores a digest of it, not the token itself. If the token is lost, use
'certmintctl admin rotate' to replace it.

Example:
  certmintctl admin init`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := initAdmin(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create admin credential: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	adminCmd.AddCommand(adminInitCmd)
}

func initAdmin() error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	// Keep STDOUT clean for the token line.
	audit.DefaultLogger.SetWriter(os.Stderr)

	cred, err := gormstore.NewAdminStore(database).Init()
	if err != nil {
		audit.Log(audit.AdminCredentialEvent{Operation: "init", ErrorMessage: err.Error()})
		if errors.Is(err, store.ErrAlreadyInitialized) {
			return fmt.Errorf("admin credential already exists; use 'certmintctl admin rotate' to replace its token")
		}
		return err
	}
	audit.Log(audit.AdminCredentialEvent{Operation: "init", Success: true})

	fmt.Fprintln(os.Stderr, "Created admin credential")
	fmt.Printf("Admin token: %s\n", cred.PlainToken)
	return nil
}
