package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/certmint/certmint/pkg/token"
)

// signingKeyGenerateCmd represents the signing-key generate command
var signingKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an access token signing key",
	Long: `
Generate an access token signing key

Use this command to generate a new hex-encoded 256 bit signing key. Once generated, this key should be placed into the environment of
the CertMint server. It will be used to sign the access tokens issued by the authentication endpoint.

Example:

$ export CERTMINT_TOKEN_SIGNING_KEY="$(certmintctl signing-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := token.GenerateKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate signing key: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s", key)
	},
}

func init() {
	signingKeyCmd.AddCommand(signingKeyGenerateCmd)
}
