// Package token provides issuance and validation of CertMint access tokens.
//
// Access tokens are short-lived JWTs signed with HMAC-SHA256. The subject
// claim carries the authenticated principal address; clients present the
// token as a Bearer credential on subsequent API requests.
//
// # Basic Usage
//
//	key, err := token.LoadKey()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	signer := token.NewSigner(key, 8*time.Minute)
//
//	// Issue a token after authentication
//	signed, err := signer.Issue(address)
//
//	// Validate a presented token
//	tok, err := signer.Parse(signed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	address := tok.Sub()
package token
