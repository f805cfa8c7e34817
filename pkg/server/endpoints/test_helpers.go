package endpoints

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/certmint/certmint/pkg/config"
	"github.com/certmint/certmint/pkg/server"
	"github.com/certmint/certmint/pkg/token"
)

// NewTestServer creates a server instance for testing
// It requires a running PostgreSQL database
func NewTestServer(dbURL string, signingKey []byte) (*server.Server, error) {
	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		return nil, err
	}

	cfg := config.Get()
	signer := token.NewSigner(signingKey, cfg.TokenTTL())

	return server.NewServer(db, cfg, signer, "127.0.0.1", "0"), nil
}

// CleanupTestData removes test data from the database
func CleanupTestData(db *gorm.DB) error {
	// Delete in reverse order of creation so the event log goes last
	db.Exec(`DELETE FROM certificates`)
	db.Exec(`DELETE FROM issuer_credentials`)
	db.Exec(`DELETE FROM principals`)
	db.Exec(`DELETE FROM admin_credentials`)
	db.Exec(`DELETE FROM relay_offsets`)
	db.Exec(`DELETE FROM events`)
	return nil
}
