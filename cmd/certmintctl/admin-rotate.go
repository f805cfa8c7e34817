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

// adminRotateCmd represents the admin rotate command
var adminRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate the admin credential token",
	Long: `Rotate the admin credential token.

This replaces the admin credential's token with a fresh one. The previous
token stops working immediately. Issuer credentials already granted with
the old token are unaffected.

The new admin token is output to STDOUT.

Example:
  certmintctl admin rotate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := rotateAdmin(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to rotate admin credential: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	adminCmd.AddCommand(adminRotateCmd)
}

func rotateAdmin() error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	// Keep STDOUT clean for the token line.
	audit.DefaultLogger.SetWriter(os.Stderr)

	cred, err := gormstore.NewAdminStore(database).Rotate()
	if err != nil {
		audit.Log(audit.AdminCredentialEvent{Operation: "rotate", ErrorMessage: err.Error()})
		if errors.Is(err, store.ErrNotInitialized) {
			return fmt.Errorf("no admin credential exists yet; run 'certmintctl admin init' first")
		}
		return err
	}
	audit.Log(audit.AdminCredentialEvent{Operation: "rotate", Success: true})

	fmt.Fprintln(os.Stderr, "Rotated admin credential")
	fmt.Printf("Admin token: %s\n", cred.PlainToken)
	return nil
}
